package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"sareehouse/internal/logger"
	"sareehouse/internal/metrics"
	"sareehouse/internal/models"
	"sareehouse/internal/repositories"
	"sareehouse/internal/validation"
)

// productGuard checks product records coming out of the catalog store against
// the same rules applied on write. Rows written around the service (seeding,
// manual SQL, another process) are not trusted.
type productGuard struct {
	validate *validator.Validate
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func newProductGuard(m *metrics.Metrics, log *slog.Logger) productGuard {
	return productGuard{validate: validation.New(), metrics: m, log: log}
}

// lookup loads one product and fails with a validation error when the stored
// record is malformed.
func (g productGuard) lookup(ctx context.Context, repo repositories.ProductRepository, id string) (*models.Product, error) {
	product, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(g.validate, product); err != nil {
		g.reject(ctx, id, err)
		return nil, fmt.Errorf("stored product %s: %w", id, err)
	}
	return product, nil
}

// keepValid returns the well-formed products of products, in order. Malformed
// records are logged, counted and dropped. The input is not modified.
func (g productGuard) keepValid(ctx context.Context, products []models.Product) []models.Product {
	valid := make([]models.Product, 0, len(products))
	for i := range products {
		if err := validation.Struct(g.validate, &products[i]); err != nil {
			g.reject(ctx, products[i].ID, err)
			continue
		}
		valid = append(valid, products[i])
	}
	return valid
}

func (g productGuard) reject(ctx context.Context, id string, err error) {
	g.metrics.InvalidProducts.Inc()
	logger.WithContext(ctx, g.log).Warn("skipping malformed product record", "product_id", id, "error", err)
}
