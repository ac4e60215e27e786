package repositories

import (
	"context"
	"slices"
	"sync"

	"sareehouse/internal/models"
)

// MockCollectionRepository is an in-memory implementation of CollectionRepository.
type MockCollectionRepository struct {
	carts     map[string][]string
	wishlists map[string][]string
	mu        sync.Mutex
}

// NewMockCollectionRepository creates a new instance of MockCollectionRepository.
func NewMockCollectionRepository() *MockCollectionRepository {
	return &MockCollectionRepository{
		carts:     make(map[string][]string),
		wishlists: make(map[string][]string),
	}
}

// Get returns a copy of the user's lists.
func (r *MockCollectionRepository) Get(_ context.Context, userID string) (models.CollectionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(userID), nil
}

// AppendCart appends productID to the cart.
func (r *MockCollectionRepository) AppendCart(_ context.Context, userID, productID string) (models.CollectionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[userID] = append(r.carts[userID], productID)
	return r.snapshot(userID), nil
}

// RemoveCartItem removes the first occurrence of productID.
func (r *MockCollectionRepository) RemoveCartItem(_ context.Context, userID, productID string) (models.CollectionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.carts[userID]
	if i := slices.Index(cart, productID); i >= 0 {
		r.carts[userID] = slices.Delete(cart, i, i+1)
	}
	return r.snapshot(userID), nil
}

// ToggleWishlist flips membership of productID.
func (r *MockCollectionRepository) ToggleWishlist(_ context.Context, userID, productID string) (models.CollectionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wishlist := r.wishlists[userID]
	if i := slices.Index(wishlist, productID); i >= 0 {
		r.wishlists[userID] = slices.Delete(wishlist, i, i+1)
	} else {
		r.wishlists[userID] = append(wishlist, productID)
	}
	return r.snapshot(userID), nil
}

// Clear forgets both lists.
func (r *MockCollectionRepository) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	delete(r.wishlists, userID)
	return nil
}

func (r *MockCollectionRepository) snapshot(userID string) models.CollectionState {
	return normalize(models.CollectionState{
		UserID:   userID,
		Cart:     slices.Clone(r.carts[userID]),
		Wishlist: slices.Clone(r.wishlists[userID]),
	})
}
