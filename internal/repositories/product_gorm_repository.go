package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sareehouse/internal/apperrors"
	"sareehouse/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// catalogOrder keeps results in insertion order.
const catalogOrder = "created_at ASC, id ASC"

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order(catalogOrder).Find(&products).Error; err != nil {
		return nil, apperrors.Persistence("failed to get all products", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, apperrors.Persistence(fmt.Sprintf("failed to get product by ID %s", id), err)
	}
	return &product, nil
}

// GetByIDs retrieves the products matching ids. Missing IDs are left out and
// the result order is unspecified.
func (r *GORMProductRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, apperrors.Persistence("failed to get products by IDs", err)
	}
	return products, nil
}

// GetByCategory retrieves the products in a category.
func (r *GORMProductRepository) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Where("category = ?", category).Order(catalogOrder).Find(&products).Error
	if err != nil {
		return nil, apperrors.Persistence(fmt.Sprintf("failed to get products in category %s", category), err)
	}
	return products, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict(fmt.Sprintf("product with ID %s already exists", product.ID))
		}
		return apperrors.Persistence("failed to create product", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	// Select writes zero values too, so clearing a description or colors sticks.
	res := r.db.WithContext(ctx).Model(product).
		Select("name", "description", "category", "images", "colors").
		Updates(product)
	if res.Error != nil {
		return apperrors.Persistence("failed to update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product", product.ID)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.Persistence("failed to delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}
