package cart

import (
	"context"
	"sync"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// Subscription delivers the latest snapshot of one session's cart.
// Snapshots arrive in version order; an older snapshot than the last one
// delivered is dropped, and a slow reader only ever sees the newest state.
type Subscription struct {
	sessionID  string
	subscriber shared.EventSubscriber
	handler    *shared.EventHandlerFunc
	updates    chan cart.Snapshot

	mu          sync.Mutex
	lastVersion uint64
	closed      bool
	closeOnce   sync.Once
}

// Watcher opens cart subscriptions on an event subscriber
type Watcher struct {
	subscriber shared.EventSubscriber
}

// NewWatcher creates a Watcher
func NewWatcher(subscriber shared.EventSubscriber) *Watcher {
	return &Watcher{subscriber: subscriber}
}

// Watch subscribes to the session's cart changes. Snapshots at or below
// fromVersion are skipped, so a caller that already rendered a version does
// not receive it again. The subscription must be closed by the caller.
func (w *Watcher) Watch(sessionID string, fromVersion uint64) *Subscription {
	sub := &Subscription{
		sessionID:   sessionID,
		subscriber:  w.subscriber,
		updates:     make(chan cart.Snapshot, 1),
		lastVersion: fromVersion,
	}
	sub.handler = &shared.EventHandlerFunc{
		Types:     []string{cart.EventTypeCartChanged},
		Aggregate: sessionID,
		Fn:        sub.handle,
	}
	w.subscriber.Subscribe(sub.handler)
	return sub
}

// Updates returns the channel of snapshots. It is closed by Close.
func (s *Subscription) Updates() <-chan cart.Snapshot {
	return s.updates
}

// Close unsubscribes and closes the updates channel
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.subscriber.Unsubscribe(s.handler)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.closed = true
		close(s.updates)
	})
}

func (s *Subscription) handle(_ context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*cart.CartChangedEvent)
	if !ok || changed.AggregateID() != s.sessionID {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || changed.Snapshot.Version <= s.lastVersion {
		return nil
	}
	s.lastVersion = changed.Snapshot.Version

	// Replace an unread snapshot with the newer one
	select {
	case <-s.updates:
	default:
	}
	s.updates <- changed.Snapshot
	return nil
}
