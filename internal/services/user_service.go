package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sareehouse/internal/apperrors"
	"sareehouse/internal/models"
	"sareehouse/internal/repositories"
	"sareehouse/internal/validation"
)

// UserService handles account management and password resets.
type UserService struct {
	users         repositories.UserRepository
	collections   repositories.CollectionRepository
	validate      *validator.Validate
	bcryptCost    int
	resetTokenTTL time.Duration
	now           func() time.Time
	log           *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	users repositories.UserRepository,
	collections repositories.CollectionRepository,
	bcryptCost int,
	resetTokenTTL time.Duration,
	log *slog.Logger,
) *UserService {
	return &UserService{
		users:         users,
		collections:   collections,
		validate:      validation.New(),
		bcryptCost:    bcryptCost,
		resetTokenTTL: resetTokenTTL,
		now:           time.Now,
		log:           log,
	}
}

// CreateUser registers a user with a hashed password and empty collections.
func (s *UserService) CreateUser(ctx context.Context, input models.CreateUserInput) (*models.User, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validation.Struct(s.validate, input); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, input.Email, ""); err != nil {
		return nil, err
	}

	hashed, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:    input.Email,
		Name:     input.Name,
		Phone:    input.Phone,
		Password: hashed,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user created", "user_id", user.ID)
	return user, nil
}

// FindUserByEmail looks a user up by email.
func (s *UserService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.GetByEmail(ctx, normalizeEmail(email))
}

// FindUserByID looks a user up by ID.
func (s *UserService) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateUser applies the non-nil fields of input. A new password is rehashed.
func (s *UserService) UpdateUser(ctx context.Context, id string, input models.UpdateUserInput) (*models.User, error) {
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		input.Email = &email
	}
	if err := validation.Struct(s.validate, input); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Email != nil && *input.Email != user.Email {
		if err := s.ensureEmailFree(ctx, *input.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Password != nil {
		hashed, err := s.hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user and then its cart and wishlist.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.collections.Clear(ctx, id); err != nil {
		return fmt.Errorf("clear collections of deleted user %s: %w", id, err)
	}
	s.log.Info("user deleted", "user_id", id)
	return nil
}

// GeneratePasswordResetToken stores a fresh single-use token on the user with
// the given email and returns it with its expiry.
func (s *UserService) GeneratePasswordResetToken(ctx context.Context, email string) (string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", time.Time{}, err
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	expires := s.now().Add(s.resetTokenTTL)
	user.ResetToken = &token
	user.ResetTokenExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// VerifyPasswordResetToken returns the user owning token while it is unexpired.
func (s *UserService) VerifyPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.Validation("reset token is required")
	}
	return s.users.GetByResetToken(ctx, token, s.now())
}

// ResetPassword sets a new password for the owner of token and consumes the token.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := s.validate.Var(newPassword, "required,min=6,max=72"); err != nil {
		return validation.FromValidator(err)
	}
	user, err := s.VerifyPasswordResetToken(ctx, token)
	if err != nil {
		return err
	}
	hashed, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.ResetToken = nil
	user.ResetTokenExpires = nil
	return s.users.Update(ctx, user)
}

func (s *UserService) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != ownerID:
		return apperrors.Conflict(fmt.Sprintf("email '%s' already registered", email))
	case err != nil && !apperrors.IsNotFound(err):
		return err
	}
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
