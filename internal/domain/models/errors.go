package models

import (
	"errors"
	"fmt"
)

// Error classes shared by every service. Concrete errors wrap one of these so callers
// can classify with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrStorage         = errors.New("storage transaction failed")
	ErrExternalChannel = errors.New("notification channel failed")
)

// ErrInsufficientStock is returned when oversell is disabled and a sale exceeds availability.
var ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrValidation)

// ErrNoRecipe is returned when repricing a product that has no recipe.
var ErrNoRecipe = fmt.Errorf("%w: product has no recipe", ErrValidation)

// Validationf builds a validation error with a formatted reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf builds a not-found error for the given entity kind and key.
func NotFoundf(kind, key string) error {
	return fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is a missing-entity failure.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
