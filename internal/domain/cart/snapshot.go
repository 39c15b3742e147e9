package cart

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Snapshot is a read-only copy of a cart at a given version
type Snapshot struct {
	SessionID string            `json:"-"`
	Version   uint64            `json:"version"`
	Items     []LineItem        `json:"items"`
	Total     valueobject.Money `json:"total"`
	ItemCount int               `json:"item_count"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewerThan reports whether s supersedes other
func (s Snapshot) NewerThan(other Snapshot) bool {
	return s.Version > other.Version
}
