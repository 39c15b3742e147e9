package cart

import (
	"context"
	"errors"
)

// ErrConcurrentModification is returned when an atomic update could not be
// applied after the repository's retry budget was exhausted
var ErrConcurrentModification = errors.New("cart: concurrent modification")

// MutateFunc mutates a cart loaded inside an atomic update.
// It may be invoked more than once if the update is retried.
type MutateFunc func(c *Cart) error

// Repository stores carts keyed by session ID
type Repository interface {
	// Get returns the session's cart, or an empty cart if none exists
	Get(ctx context.Context, sessionID string) (*Cart, error)

	// Update loads the session's cart, applies fn and saves the result atomically.
	// If fn returns an error nothing is saved and the error is returned.
	Update(ctx context.Context, sessionID string, fn MutateFunc) (*Cart, error)
}
