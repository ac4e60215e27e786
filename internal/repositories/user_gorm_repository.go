package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sareehouse/internal/apperrors"
	"sareehouse/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict(fmt.Sprintf("email '%s' already registered", user.Email))
		}
		return apperrors.Persistence("failed to create user", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email", email)
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id", id)
}

// GetByResetToken retrieves the user whose reset token matches and has not expired.
func (r *GORMUserRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("reset_token = ? AND reset_token_expires > ?", token, now).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("reset token", "provided")
		}
		return nil, apperrors.Persistence("failed to look up reset token", err)
	}
	return &user, nil
}

// Update saves every column of user.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(user).
		Select("email", "name", "phone", "password", "role", "reset_token", "reset_token_expires").
		Updates(user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict(fmt.Sprintf("email '%s' already registered", user.Email))
		}
		return apperrors.Persistence("failed to update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user", user.ID)
	}
	return nil
}

// Delete removes a user together with its cart and wishlist rows.
func (r *GORMUserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return apperrors.Persistence("failed to delete user", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("user", id)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.CartEntry{}).Error; err != nil {
			return apperrors.Persistence("failed to delete cart entries", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.WishlistEntry{}).Error; err != nil {
			return apperrors.Persistence("failed to delete wishlist entries", err)
		}
		return nil
	})
}

// Exists reports whether a user with id exists.
func (r *GORMUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.Persistence("failed to check user", err)
	}
	return count > 0, nil
}

func (r *GORMUserRepository) first(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, column+" = ?", value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user", value)
		}
		return nil, apperrors.Persistence(fmt.Sprintf("failed to get user by %s %s", column, value), err)
	}
	return &user, nil
}
