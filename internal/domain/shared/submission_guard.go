package shared

import (
	"context"
	"time"
)

// SubmissionGuard is a per-key busy flag. It lets at most one holder run a
// non-reentrant operation (a checkout submission) per key at a time.
type SubmissionGuard interface {
	// Acquire marks key as busy for at most ttl.
	// Returns true if the caller now holds the key, false if another holder does.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release clears the busy flag for key. Releasing a free key is a no-op.
	Release(ctx context.Context, key string) error

	// Close releases resources held by the guard
	Close() error
}

// SubmissionGuardConfig holds configuration for submission guarding
type SubmissionGuardConfig struct {
	// TTL bounds how long a key stays busy if its holder never releases it
	// Default: 2 minutes
	TTL time.Duration
}

// DefaultSubmissionGuardConfig returns the default guard configuration
func DefaultSubmissionGuardConfig() SubmissionGuardConfig {
	return SubmissionGuardConfig{
		TTL: 2 * time.Minute,
	}
}
