package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"sareehouse/internal/apperrors"
)

// productIDPattern accepts "<design>" or "<design>-<variant>" made of URL-safe characters.
var productIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+(-[A-Za-z0-9_-]+)?$`)

// New returns a validator with the storefront's custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("product_id", func(fl validator.FieldLevel) bool {
		return ValidProductID(fl.Field().String())
	})
	return v
}

// ValidProductID reports whether id is a well-formed product ID.
func ValidProductID(id string) bool {
	return len(id) <= 64 && productIDPattern.MatchString(id)
}

// Struct validates s and converts failures into a validation error.
func Struct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return FromValidator(err)
	}
	return nil
}

// FromValidator converts a validator error into an apperrors validation error
// listing the failing fields.
func FromValidator(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.Validation(err.Error())
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
	}
	return apperrors.Validation(strings.Join(msgs, "; "))
}

// FieldErrors maps each failing field to a readable message, for response bodies.
func FieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	out := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		out[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return out
}
