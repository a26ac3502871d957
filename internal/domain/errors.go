package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalid indicates a malformed or inconsistent payload.
	ErrInvalid = errors.New("invalid input")

	// ErrInvalidState indicates a transition attempted from a state that
	// does not permit it.
	ErrInvalidState = errors.New("transition not allowed in current state")
	// ErrAlreadyTerminal indicates a mutating call against a delivered order.
	ErrAlreadyTerminal = errors.New("order already delivered")
	// ErrIncompleteDelivery indicates whole-bill delivery was attempted
	// while items remain undelivered.
	ErrIncompleteDelivery = errors.New("order has undelivered items")
	// ErrItemIndex indicates an item index outside the order's item list.
	ErrItemIndex = errors.New("item index out of range")
)

// Invalidf wraps ErrInvalid with a formatted detail message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
