package vending

import "github.com/pkg/errors"

// Error kinds surfaced by the vending services. Handlers map these to
// HTTP statuses; anything else is an internal storage failure.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
)
