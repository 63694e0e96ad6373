package common

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrValidation        = errors.New("validation failed")
)

// NotFound wraps ErrNotFound with the missing resource.
func NotFound(resource string, id any) error {
	return fmt.Errorf("%s %v: %w", resource, id, ErrNotFound)
}

// InvalidState wraps ErrInvalidState with a description of the rejected action.
func InvalidState(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidState)
}

// InsufficientStockError names the product whose stock could not cover a request.
type InsufficientStockError struct {
	ProductID uuid.UUID
	SKU       string
	Requested int
}

func (e *InsufficientStockError) Error() string {
	if e.SKU != "" {
		return fmt.Sprintf("insufficient stock for product %s (requested %d)", e.SKU, e.Requested)
	}
	return fmt.Sprintf("insufficient stock for product %s (requested %d)", e.ProductID, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
