package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sareehouse/internal/apperrors"
	"sareehouse/internal/models"
)

// GORMCollectionRepository stores carts and wishlists as rows in
// cart_entries and wishlist_entries.
type GORMCollectionRepository struct {
	db *gorm.DB
}

// NewGORMCollectionRepository creates a new instance of GORMCollectionRepository.
func NewGORMCollectionRepository(db *gorm.DB) *GORMCollectionRepository {
	return &GORMCollectionRepository{db: db}
}

// Get loads both lists in insertion order.
func (r *GORMCollectionRepository) Get(ctx context.Context, userID string) (models.CollectionState, error) {
	return r.load(r.db.WithContext(ctx), userID)
}

// AppendCart inserts one cart row; a single INSERT cannot lose a concurrent append.
func (r *GORMCollectionRepository) AppendCart(ctx context.Context, userID, productID string) (models.CollectionState, error) {
	db := r.db.WithContext(ctx)
	entry := models.CartEntry{UserID: userID, ProductID: productID}
	if err := db.Create(&entry).Error; err != nil {
		return models.CollectionState{}, apperrors.Persistence("failed to append cart entry", err)
	}
	return r.load(db, userID)
}

// RemoveCartItem deletes the oldest cart row for productID.
func (r *GORMCollectionRepository) RemoveCartItem(ctx context.Context, userID, productID string) (models.CollectionState, error) {
	var state models.CollectionState
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.CartEntry
		res := tx.Where("user_id = ? AND product_id = ?", userID, productID).Order("id ASC").Limit(1).Find(&entry)
		if res.Error != nil {
			return apperrors.Persistence("failed to find cart entry", res.Error)
		}
		if res.RowsAffected > 0 {
			if err := tx.Delete(&models.CartEntry{}, entry.ID).Error; err != nil {
				return apperrors.Persistence("failed to remove cart entry", err)
			}
		}
		var err error
		state, err = r.load(tx, userID)
		return err
	})
	if err != nil {
		return models.CollectionState{}, err
	}
	return state, nil
}

// ToggleWishlist deletes the wishlist row if present, otherwise inserts it,
// inside one transaction. An insert that collides with a row committed by a
// concurrent toggle is skipped and that row is deleted instead, so the call
// still flips membership and never fails on idx_wishlist_user_product.
func (r *GORMCollectionRepository) ToggleWishlist(ctx context.Context, userID, productID string) (models.CollectionState, error) {
	var state models.CollectionState
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, err := deleteWishlistEntry(tx, userID, productID)
		if err != nil {
			return err
		}
		if !removed {
			entry := models.WishlistEntry{UserID: userID, ProductID: productID}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
			if res.Error != nil {
				return apperrors.Persistence("failed to add wishlist entry", res.Error)
			}
			if res.RowsAffected == 0 {
				if _, err := deleteWishlistEntry(tx, userID, productID); err != nil {
					return err
				}
			}
		}
		state, err = r.load(tx, userID)
		return err
	})
	if err != nil {
		return models.CollectionState{}, err
	}
	return state, nil
}

func deleteWishlistEntry(tx *gorm.DB, userID, productID string) (bool, error) {
	res := tx.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.WishlistEntry{})
	if res.Error != nil {
		return false, apperrors.Persistence("failed to remove wishlist entry", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Clear removes every cart and wishlist row of a user.
func (r *GORMCollectionRepository) Clear(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartEntry{}).Error; err != nil {
			return apperrors.Persistence("failed to clear cart", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.WishlistEntry{}).Error; err != nil {
			return apperrors.Persistence("failed to clear wishlist", err)
		}
		return nil
	})
}

func (r *GORMCollectionRepository) load(db *gorm.DB, userID string) (models.CollectionState, error) {
	state := emptyState(userID)
	if err := db.Model(&models.CartEntry{}).Where("user_id = ?", userID).
		Order("id ASC").Pluck("product_id", &state.Cart).Error; err != nil {
		return models.CollectionState{}, apperrors.Persistence("failed to load cart", err)
	}
	if err := db.Model(&models.WishlistEntry{}).Where("user_id = ?", userID).
		Order("id ASC").Pluck("product_id", &state.Wishlist).Error; err != nil {
		return models.CollectionState{}, apperrors.Persistence("failed to load wishlist", err)
	}
	return normalize(state), nil
}
