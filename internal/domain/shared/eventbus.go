package shared

import "context"

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in
	// An empty slice means the handler receives all events
	EventTypes() []string
}

// ScopedHandler is an EventHandler that only wants the events of one aggregate.
// An empty AggregateID means every aggregate.
type ScopedHandler interface {
	EventHandler
	AggregateID() string
}

// EventHandlerFunc adapts a plain function to EventHandler for the given event
// types, optionally limited to one aggregate
type EventHandlerFunc struct {
	Types     []string
	Aggregate string
	Fn        func(ctx context.Context, event DomainEvent) error
}

// Handle calls Fn
func (h *EventHandlerFunc) Handle(ctx context.Context, event DomainEvent) error {
	return h.Fn(ctx, event)
}

// EventTypes returns Types
func (h *EventHandlerFunc) EventTypes() []string {
	return h.Types
}

// AggregateID returns Aggregate
func (h *EventHandlerFunc) AggregateID() string {
	return h.Aggregate
}

// EventPublisher publishes domain events
type EventPublisher interface {
	// Publish publishes one or more domain events
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber subscribes to domain events
type EventSubscriber interface {
	// Subscribe registers a handler for specific event types
	// If no event types are provided, the handler's own EventTypes are used
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes a handler from the subscription list
	Unsubscribe(handler EventHandler)
}

// EventBus combines publisher and subscriber capabilities
type EventBus interface {
	EventPublisher
	EventSubscriber
	// Start starts the event bus
	Start(ctx context.Context) error
	// Stop gracefully stops the event bus
	Stop(ctx context.Context) error
}
