package cache

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// guardEntry represents a held key with expiration
type guardEntry struct {
	expiresAt time.Time
}

// InMemorySubmissionGuard implements SubmissionGuard using an in-memory map
// This is suitable for single-instance deployments and testing
type InMemorySubmissionGuard struct {
	mu        sync.Mutex
	entries   map[string]guardEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySubmissionGuard creates a new in-memory submission guard
// It starts a background goroutine to clean up expired entries
func NewInMemorySubmissionGuard() *InMemorySubmissionGuard {
	guard := &InMemorySubmissionGuard{
		entries:  make(map[string]guardEntry),
		stopChan: make(chan struct{}),
	}

	guard.wg.Add(1)
	go guard.cleanupLoop()

	return guard
}

// Acquire marks key as busy for ttl
// Returns true if the key was free (or its previous hold expired), false if it is held
func (g *InMemorySubmissionGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, exists := g.entries[key]; exists && time.Now().Before(e.expiresAt) {
		return false, nil
	}

	g.entries[key] = guardEntry{
		expiresAt: time.Now().Add(ttl),
	}
	return true, nil
}

// Release clears the busy flag for key
func (g *InMemorySubmissionGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.entries, key)
	return nil
}

// Close stops the cleanup goroutine and releases resources
// Safe to call multiple times
func (g *InMemorySubmissionGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (g *InMemorySubmissionGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

// cleanup removes expired entries from the guard
func (g *InMemorySubmissionGuard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for key, e := range g.entries {
		if now.After(e.expiresAt) {
			delete(g.entries, key)
		}
	}
}

// Size returns the number of held keys (for testing/monitoring)
func (g *InMemorySubmissionGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// Ensure InMemorySubmissionGuard implements SubmissionGuard
var _ shared.SubmissionGuard = (*InMemorySubmissionGuard)(nil)
