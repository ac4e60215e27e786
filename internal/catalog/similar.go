// Package catalog holds the pure catalog relevance rules used on product pages.
package catalog

import (
	"sareehouse/internal/apperrors"
	"sareehouse/internal/models"
)

// DefaultSimilarLimit is how many similar products the product page shows.
const DefaultSimilarLimit = 4

// MatchSource records which rule produced a similarity result.
type MatchSource string

const (
	MatchVariant  MatchSource = "variant"
	MatchCategory MatchSource = "category"
	MatchNone     MatchSource = "none"
)

// SimilarProducts returns up to limit products related to target, in catalog
// order. Products sharing target's design number win; only when there are none
// does it fall back to products in the same category. target itself is never
// returned.
func SimilarProducts(target models.Product, products []models.Product, limit int) ([]models.Product, error) {
	similar, _, err := Resolve(target, products, limit)
	return similar, err
}

// Resolve is SimilarProducts that also reports which rule matched.
func Resolve(target models.Product, products []models.Product, limit int) ([]models.Product, MatchSource, error) {
	if limit < 0 {
		return nil, MatchNone, apperrors.Validationf("limit must not be negative, got %d", limit)
	}
	if limit == 0 {
		return []models.Product{}, MatchNone, nil
	}

	design := target.DesignNumber()
	variants := filter(products, limit, func(p models.Product) bool {
		return p.ID != target.ID && p.DesignNumber() == design
	})
	if len(variants) > 0 {
		return variants, MatchVariant, nil
	}

	sameCategory := filter(products, limit, func(p models.Product) bool {
		return p.ID != target.ID && p.Category == target.Category
	})
	if len(sameCategory) > 0 {
		return sameCategory, MatchCategory, nil
	}
	return []models.Product{}, MatchNone, nil
}

// filter keeps the first limit products accepted by keep, preserving order.
func filter(products []models.Product, limit int, keep func(models.Product) bool) []models.Product {
	out := make([]models.Product, 0, min(limit, len(products)))
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
