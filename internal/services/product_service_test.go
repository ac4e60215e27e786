package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"sareehouse/internal/apperrors"
	"sareehouse/internal/logger"
	"sareehouse/internal/metrics"
	"sareehouse/internal/models"
	"sareehouse/internal/services"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func saree(id, category string) models.Product {
	return models.Product{
		ID:       id,
		Name:     "Saree " + id,
		Category: category,
		Images:   []string{"https://res.cloudinary.com/demo/" + id + ".png"},
	}
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, metrics.New(), logger.Discard())

	expectedProducts := []models.Product{saree("19591-7", "Traditional"), saree("19635-2", "Bridal")}
	mockRepo.On("GetAll", mock.Anything).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, metrics.New(), logger.Discard())
	ctx := context.Background()

	expectedProduct := saree("19591-7", "Traditional")

	// Test successful retrieval
	mockRepo.On("GetByID", mock.Anything, "19591-7").Return(&expectedProduct, nil).Once()
	product, err := service.GetProductByID(ctx, "19591-7")
	assert.NoError(t, err)
	assert.Equal(t, &expectedProduct, product)

	// Test product not found
	mockRepo.On("GetByID", mock.Anything, "99-9").Return(nil, apperrors.NotFound("product", "99-9")).Once()
	product, err = service.GetProductByID(ctx, "99-9")
	assert.Nil(t, product)
	assert.True(t, apperrors.IsNotFound(err))

	// Malformed IDs never reach the repository
	_, err = service.GetProductByID(ctx, "19591 7")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, metrics.New(), logger.Discard())
	ctx := context.Background()

	newProduct := saree("24341-4", "Casual")

	// Test successful creation
	mockRepo.On("Create", mock.Anything, &newProduct).Return(nil).Once()
	err := service.CreateProduct(ctx, &newProduct)
	assert.NoError(t, err)

	// Test creation failure (e.g., database error)
	mockRepo.On("Create", mock.Anything, &newProduct).Return(apperrors.Persistence("failed to create product", errors.New("database error"))).Once()
	err = service.CreateProduct(ctx, &newProduct)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")

	// Invalid records are rejected before storage
	invalid := models.Product{ID: "24341-5", Name: "No images", Category: "Casual"}
	err = service.CreateProduct(ctx, &invalid)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, metrics.New(), logger.Discard())
	ctx := context.Background()

	updatedProduct := saree("19591-7", "Festive")

	mockRepo.On("Update", mock.Anything, &updatedProduct).Return(nil).Once()
	assert.NoError(t, service.UpdateProduct(ctx, &updatedProduct))

	missing := saree("99-9", "Festive")
	mockRepo.On("Update", mock.Anything, &missing).Return(apperrors.NotFound("product", "99-9")).Once()
	err := service.UpdateProduct(ctx, &missing)
	assert.True(t, apperrors.IsNotFound(err))
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, metrics.New(), logger.Discard())
	ctx := context.Background()

	mockRepo.On("Delete", mock.Anything, "19591-7").Return(nil).Once()
	assert.NoError(t, service.DeleteProduct(ctx, "19591-7"))

	mockRepo.On("Delete", mock.Anything, "99-9").Return(apperrors.NotFound("product", "99-9")).Once()
	assert.True(t, apperrors.IsNotFound(service.DeleteProduct(ctx, "99-9")))
	mockRepo.AssertExpectations(t)
}

func TestProductService_SimilarProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	m := metrics.New()
	service := services.NewProductService(mockRepo, m, logger.Discard())
	ctx := context.Background()

	target := saree("100-A", "Bridal")
	all := []models.Product{target, saree("200-A", "Bridal"), saree("100-B", "Bridal"), saree("300-A", "Casual")}
	mockRepo.On("GetByID", mock.Anything, "100-A").Return(&target, nil)
	mockRepo.On("GetAll", mock.Anything).Return(all, nil)

	similar, err := service.SimilarProducts(ctx, "100-A", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"100-B"}, productIDs(similar))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SimilarQueries.WithLabelValues("variant")))

	_, err = service.SimilarProducts(ctx, "100-A", -2)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	mockRepo.On("GetByID", mock.Anything, "404-A").Return(nil, apperrors.NotFound("product", "404-A"))
	_, err = service.SimilarProducts(ctx, "404-A", 4)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProductService_Categories(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, metrics.New(), logger.Discard())
	ctx := context.Background()

	all := []models.Product{
		saree("19591-7", "Traditional"),
		saree("19635-2", "Bridal"),
		saree("19591-8", "Traditional"),
		saree("30001-1", "Silk Wedding"),
	}
	mockRepo.On("GetAll", mock.Anything).Return(all, nil)

	categories, err := service.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Category{
		{Name: "Traditional", Slug: "traditional", Count: 2},
		{Name: "Bridal", Slug: "bridal", Count: 1},
		{Name: "Silk Wedding", Slug: "silk-wedding", Count: 1},
	}, categories)

	mockRepo.On("GetByCategory", mock.Anything, "Silk Wedding").Return([]models.Product{all[3]}, nil).Once()
	products, err := service.GetProductsByCategorySlug(ctx, "silk-wedding")
	require.NoError(t, err)
	assert.Equal(t, []string{"30001-1"}, productIDs(products))

	_, err = service.GetProductsByCategorySlug(ctx, "sportswear")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProductService_RejectsMalformedStoredProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	m := metrics.New()
	service := services.NewProductService(mockRepo, m, logger.Discard())
	ctx := context.Background()

	broken := models.Product{ID: "100-C", Category: "Bridal"} // written around the service: no name, no images
	all := []models.Product{saree("100-A", "Bridal"), broken, saree("100-B", "Bridal")}
	mockRepo.On("GetByID", mock.Anything, "100-C").Return(&broken, nil)
	mockRepo.On("GetByID", mock.Anything, "100-A").Return(&all[0], nil)
	mockRepo.On("GetAll", mock.Anything).Return(all, nil)
	mockRepo.On("GetByCategory", mock.Anything, "Bridal").Return(all, nil)

	product, err := service.GetProductByID(ctx, "100-C")
	assert.Nil(t, product)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	similar, err := service.SimilarProducts(ctx, "100-A", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"100-B"}, productIDs(similar))

	_, err = service.SimilarProducts(ctx, "100-C", 4)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	byCategory, err := service.GetProductsByCategory(ctx, "Bridal")
	require.NoError(t, err)
	assert.Equal(t, []string{"100-A", "100-B"}, productIDs(byCategory))

	assert.Equal(t, 4.0, testutil.ToFloat64(m.InvalidProducts))
}

// blockingCatalog holds GetAll until release is closed or the ctx it was
// given ends.
type blockingCatalog struct {
	*MockProductRepository
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingCatalog) GetAll(ctx context.Context) ([]models.Product, error) {
	b.once.Do(func() { close(b.started) })
	select {
	case <-b.release:
		return []models.Product{saree("19591-7", "Traditional")}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestProductService_SharedCatalogLoadOutlivesCancelledCaller(t *testing.T) {
	repo := &blockingCatalog{
		MockProductRepository: new(MockProductRepository),
		started:               make(chan struct{}),
		release:               make(chan struct{}),
	}
	service := services.NewProductService(repo, metrics.New(), logger.Discard())

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := service.GetAllProducts(firstCtx)
		firstErr <- err
	}()
	<-repo.started

	type result struct {
		products []models.Product
		err      error
	}
	second := make(chan result, 1)
	go func() {
		products, err := service.GetAllProducts(context.Background())
		second <- result{products, err}
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(repo.release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, []string{"19591-7"}, productIDs(res.products))
}
