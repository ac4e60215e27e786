package models

import (
	"slices"
	"time"
)

// CartEntry is one appended cart line. Entries are ordered by ID.
type CartEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"index;type:varchar(36);not null"`
	ProductID string    `gorm:"type:varchar(64);not null"`
	CreatedAt time.Time
}

// WishlistEntry marks a product as present in a user's wishlist.
type WishlistEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"uniqueIndex:idx_wishlist_user_product;type:varchar(36);not null"`
	ProductID string    `gorm:"uniqueIndex:idx_wishlist_user_product;type:varchar(64);not null"`
	CreatedAt time.Time
}

// CollectionState is a snapshot of a user's cart and wishlist as stored.
type CollectionState struct {
	UserID   string   `json:"user_id"`
	Cart     []string `json:"cart"`
	Wishlist []string `json:"wishlist"`
}

// InCart reports whether productID appears in the cart.
func (s CollectionState) InCart(productID string) bool {
	return slices.Contains(s.Cart, productID)
}

// InWishlist reports whether productID is in the wishlist.
func (s CollectionState) InWishlist(productID string) bool {
	return slices.Contains(s.Wishlist, productID)
}

// CollectionEvent is published after a successful cart or wishlist mutation.
type CollectionEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	ProductID  string    `json:"product_id"`
	InWishlist *bool     `json:"in_wishlist,omitempty"`
	CartSize   int       `json:"cart_size"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	EventCartItemAdded   = "cart.item_added"
	EventCartItemRemoved = "cart.item_removed"
	EventWishlistToggled = "wishlist.toggled"
)
