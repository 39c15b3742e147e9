package cache

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// cartEntry is a stored cart with its session expiry
type cartEntry struct {
	cart      *cart.Cart
	expiresAt time.Time
}

// InMemoryCartRepository implements cart.Repository using an in-memory map.
// A single mutex guards every load-mutate-save, so updates never interleave.
// This is suitable for single-instance deployments and testing.
type InMemoryCartRepository struct {
	mu        sync.Mutex
	entries   map[string]cartEntry
	currency  valueobject.Currency
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCartRepository creates a new in-memory cart repository.
// Carts untouched for ttl are dropped; a zero ttl keeps them for the life of the process.
func NewInMemoryCartRepository(currency valueobject.Currency, ttl time.Duration) *InMemoryCartRepository {
	repo := &InMemoryCartRepository{
		entries:  make(map[string]cartEntry),
		currency: currency,
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	if ttl > 0 {
		repo.wg.Add(1)
		go repo.cleanupLoop()
	}

	return repo
}

// Get returns a copy of the session's cart, or an empty cart if none exists
func (r *InMemoryCartRepository) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(sessionID).Clone(), nil
}

// Update applies fn to the session's cart under the repository lock
func (r *InMemoryCartRepository) Update(ctx context.Context, sessionID string, fn cart.MutateFunc) (*cart.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.load(sessionID).Clone()
	if err := fn(c); err != nil {
		return nil, err
	}

	r.entries[sessionID] = cartEntry{
		cart:      c.Clone(),
		expiresAt: r.expiry(),
	}
	return c, nil
}

// Close stops the cleanup goroutine
// Safe to call multiple times
func (r *InMemoryCartRepository) Close() error {
	r.closeOnce.Do(func() {
		close(r.stopChan)
		r.wg.Wait()
	})
	return nil
}

// Size returns the number of stored carts (for testing/monitoring)
func (r *InMemoryCartRepository) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// load returns the stored cart or a new empty one. Caller must hold r.mu.
func (r *InMemoryCartRepository) load(sessionID string) *cart.Cart {
	e, ok := r.entries[sessionID]
	if !ok || r.expired(e) {
		return cart.NewCartAt(sessionID, r.currency, time.Now())
	}
	return e.cart
}

func (r *InMemoryCartRepository) expiry() time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(r.ttl)
}

func (r *InMemoryCartRepository) expired(e cartEntry) bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// cleanupLoop periodically removes expired carts
func (r *InMemoryCartRepository) cleanupLoop() {
	defer r.wg.Done()

	interval := r.ttl
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.cleanup()
		}
	}
}

func (r *InMemoryCartRepository) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for sessionID, e := range r.entries {
		if r.expired(e) {
			delete(r.entries, sessionID)
		}
	}
}

// Ensure InMemoryCartRepository implements cart.Repository
var _ cart.Repository = (*InMemoryCartRepository)(nil)
