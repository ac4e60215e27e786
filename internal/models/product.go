package models

import (
	"strings"
	"time"
)

// Product represents a catalog entry. IDs take the form "<designNumber>-<variant>".
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(64)" validate:"required,product_id"`
	Name        string    `json:"name" gorm:"type:varchar(200)" validate:"required,max=200"`
	Description string    `json:"description" validate:"omitempty,max=2000"`
	Category    string    `json:"category" gorm:"index;type:varchar(100)" validate:"required,max=100"`
	Images      []string  `json:"images" gorm:"serializer:json" validate:"required,min=1,dive,required,url"`
	Colors      []string  `json:"colors,omitempty" gorm:"serializer:json" validate:"omitempty,dive,required"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DesignNumber returns the part of the ID before the first hyphen, or the
// whole ID when it has none.
func (p Product) DesignNumber() string {
	return DesignNumber(p.ID)
}

// DesignNumber groups the variants of one physical design.
func DesignNumber(productID string) string {
	design, _, _ := strings.Cut(productID, "-")
	return design
}

// Category is a catalog category with its URL slug and product count.
type Category struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}
