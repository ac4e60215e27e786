package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a storefront account.
type User struct {
	ID                string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email             string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Name              string     `json:"name,omitempty" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	Phone             string     `json:"phone,omitempty" gorm:"type:varchar(20)" validate:"omitempty,numeric,min=7,max=15"`
	Password          string     `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	Role              string     `json:"role" gorm:"type:varchar(20);default:user"`
	ResetToken        *string    `json:"-" gorm:"index;type:varchar(64)"`
	ResetTokenExpires *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CreateUserInput is the payload for registering a user.
type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,numeric,min=7,max=15"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"omitempty,max=100"`
}

// UpdateUserInput carries optional changes; nil fields are left untouched.
type UpdateUserInput struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,numeric,min=7,max=15"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
}
