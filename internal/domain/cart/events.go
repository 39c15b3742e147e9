package cart

import (
	"github.com/storefront/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeCartChanged = "cart.changed"
)

// CartChangedEvent is raised by every completed cart mutation.
// It carries the full cart state so subscribers never need to read back.
type CartChangedEvent struct {
	shared.BaseDomainEvent
	Snapshot Snapshot `json:"snapshot"`
}

// NewCartChangedEvent creates a CartChangedEvent from the current cart state
func NewCartChangedEvent(c *Cart) *CartChangedEvent {
	return &CartChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartChanged, AggregateTypeCart, c.SessionID),
		Snapshot:        c.Snapshot(),
	}
}

// EventType returns the event type name
func (e *CartChangedEvent) EventType() string {
	return EventTypeCartChanged
}
