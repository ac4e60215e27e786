package repositories

import (
	"context"

	"sareehouse/internal/models"
)

// CollectionRepository persists users' carts and wishlists. Implementations
// make AppendCart and ToggleWishlist atomic per user; callers do no locking.
// User existence is checked by the caller.
type CollectionRepository interface {
	// Get returns the stored state; a user with nothing stored gets empty lists.
	Get(ctx context.Context, userID string) (models.CollectionState, error)
	AppendCart(ctx context.Context, userID, productID string) (models.CollectionState, error)
	// RemoveCartItem drops the first occurrence of productID, if any.
	RemoveCartItem(ctx context.Context, userID, productID string) (models.CollectionState, error)
	ToggleWishlist(ctx context.Context, userID, productID string) (models.CollectionState, error)
	Clear(ctx context.Context, userID string) error
}

func emptyState(userID string) models.CollectionState {
	return models.CollectionState{UserID: userID, Cart: []string{}, Wishlist: []string{}}
}

// normalize replaces nil lists so responses always carry arrays.
func normalize(s models.CollectionState) models.CollectionState {
	if s.Cart == nil {
		s.Cart = []string{}
	}
	if s.Wishlist == nil {
		s.Wishlist = []string{}
	}
	return s
}
