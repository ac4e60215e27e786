package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"golang.org/x/sync/singleflight"

	"sareehouse/internal/apperrors"
	"sareehouse/internal/catalog"
	"sareehouse/internal/metrics"
	"sareehouse/internal/models"
	"sareehouse/internal/repositories"
	"sareehouse/internal/validation"
)

// catalogLoadTimeout bounds a shared catalog load, which outlives any single
// caller's context.
const catalogLoadTimeout = 10 * time.Second

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
	guard    productGuard
	metrics  *metrics.Metrics
	catalog  singleflight.Group // shares concurrent full-catalog loads
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, m *metrics.Metrics, log *slog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validation.New(),
		guard:    newProductGuard(m, log),
		metrics:  m,
	}
}

// GetAllProducts retrieves all products in catalog order.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.loadCatalog(ctx)
}

// loadCatalog reads the whole catalog, letting concurrent callers share one
// repository read. The shared read is detached from the caller that started
// it; each caller stops waiting when its own ctx ends. Malformed records are
// dropped. Callers must not modify the returned slice.
func (s *ProductService) loadCatalog(ctx context.Context) ([]models.Product, error) {
	result := s.catalog.DoChan("all", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), catalogLoadTimeout)
		defer cancel()
		products, err := s.repo.GetAll(loadCtx)
		if err != nil {
			return nil, err
		}
		return s.guard.keepValid(loadCtx, products), nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Product), nil
	}
}

// GetProductByID retrieves a single product by its ID. A stored record that
// fails validation is reported as a validation error.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	if !validation.ValidProductID(id) {
		return nil, apperrors.Validationf("malformed product ID %q", id)
	}
	return s.guard.lookup(ctx, s.repo, id)
}

// GetProductsByCategory retrieves the well-formed products of one category.
func (s *ProductService) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.repo.GetByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return s.guard.keepValid(ctx, products), nil
}

// ListCategories returns each distinct category with its slug and product
// count, in order of first appearance in the catalog.
func (s *ProductService) ListCategories(ctx context.Context) ([]models.Category, error) {
	products, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int)
	categories := make([]models.Category, 0)
	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			i = len(categories)
			index[p.Category] = i
			categories = append(categories, models.Category{Name: p.Category, Slug: slug.Make(p.Category)})
		}
		categories[i].Count++
	}
	return categories, nil
}

// GetProductsByCategorySlug resolves a category slug and returns its products.
func (s *ProductService) GetProductsByCategorySlug(ctx context.Context, categorySlug string) ([]models.Product, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.Slug == categorySlug {
			return s.GetProductsByCategory(ctx, c.Name)
		}
	}
	return nil, apperrors.NotFound("category", categorySlug)
}

// CreateProduct validates and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validation.Struct(s.validate, product); err != nil {
		return err
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct validates and replaces an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := validation.Struct(s.validate, product); err != nil {
		return err
	}
	return s.repo.Update(ctx, product)
}

// DeleteProduct deletes a product by its ID. Carts and wishlists keep the ID;
// reads skip it once it no longer resolves.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SimilarProducts loads the product and the catalog and returns up to limit
// related products.
func (s *ProductService) SimilarProducts(ctx context.Context, id string, limit int) ([]models.Product, error) {
	if limit < 0 {
		return nil, apperrors.Validationf("limit must not be negative, got %d", limit)
	}
	target, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	similar, source, err := catalog.Resolve(*target, all, limit)
	if err != nil {
		return nil, err
	}
	s.metrics.SimilarQueries.WithLabelValues(string(source)).Inc()
	return similar, nil
}
