package event

import (
	"sync"

	"github.com/storefront/backend/internal/domain/shared"
)

// route is one delivery key. An empty eventType matches every event type and
// an empty aggregateID matches every aggregate.
type route struct {
	eventType   string
	aggregateID string
}

// HandlerRegistry indexes handlers by event type and, for handlers scoped to
// one aggregate, by aggregate ID. A cart change for one session therefore
// reaches only the streams of that session plus unscoped handlers.
type HandlerRegistry struct {
	mu     sync.RWMutex
	routes map[route][]shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{routes: make(map[route][]shared.EventHandler)}
}

// Register adds handler under each event type, or under all types when none
// are given. A handler implementing shared.ScopedHandler with a non-empty
// AggregateID only receives that aggregate's events.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	scope := scopeOf(handler)
	if len(eventTypes) == 0 {
		eventTypes = []string{""}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, eventType := range eventTypes {
		key := route{eventType: eventType, aggregateID: scope}
		r.routes[key] = append(r.routes[key], handler)
	}
}

// Unregister removes handler from every route
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, handlers := range r.routes {
		kept := handlers[:0:0]
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		if len(kept) == 0 {
			delete(r.routes, key)
		} else {
			r.routes[key] = kept
		}
	}
}

// Handlers returns the handlers that should receive event, most specific
// routes first
func (r *HandlerRegistry) Handlers(event shared.DomainEvent) []shared.EventHandler {
	eventType, aggregateID := event.EventType(), event.AggregateID()
	keys := [...]route{
		{eventType: eventType, aggregateID: aggregateID},
		{eventType: eventType},
		{aggregateID: aggregateID},
		{},
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []shared.EventHandler
	for i, key := range keys {
		// An empty aggregate ID would look up the unscoped routes twice
		if aggregateID == "" && (i == 0 || i == 2) {
			continue
		}
		out = append(out, r.routes[key]...)
	}
	return out
}

// Len returns the number of distinct registered handlers
func (r *HandlerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[shared.EventHandler]struct{})
	for _, handlers := range r.routes {
		for _, h := range handlers {
			seen[h] = struct{}{}
		}
	}
	return len(seen)
}

// Sessions returns how many distinct aggregates have scoped handlers
func (r *HandlerRegistry) Sessions() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for key := range r.routes {
		if key.aggregateID != "" {
			seen[key.aggregateID] = struct{}{}
		}
	}
	return len(seen)
}

func scopeOf(handler shared.EventHandler) string {
	if scoped, ok := handler.(shared.ScopedHandler); ok {
		return scoped.AggregateID()
	}
	return ""
}
