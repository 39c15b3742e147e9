package cart

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AggregateTypeCart is the aggregate type name used in events
const AggregateTypeCart = "Cart"

// ErrMixedCurrency is returned when an item is priced in a different currency
// than the items already in the cart
var ErrMixedCurrency = shared.NewDomainError("MIXED_CURRENCY", "Cart items must all be priced in the same currency")

// MaxQuantity is the largest quantity a single line item may hold
const MaxQuantity = 999

// ErrQuantityLimit is returned when an add would push a line item past MaxQuantity
var ErrQuantityLimit = shared.NewDomainError("QUANTITY_LIMIT", "Line item quantity cannot exceed 999")

// Cart is the ordered collection of line items selected in one browser session.
// At most one line item exists per VariantID.
type Cart struct {
	shared.BaseAggregateRoot
	SessionID string `json:"session_id"`
	// Currency is the store currency used for the total of an empty cart
	Currency valueobject.Currency `json:"currency"`
	Items    []LineItem           `json:"items"`
}

// NewCart creates an empty cart for a session
func NewCart(sessionID string, currency valueobject.Currency) *Cart {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionID:         sessionID,
		Currency:          currency,
		Items:             make([]LineItem, 0),
	}
}

// NewCartAt creates an empty cart whose version starts at now in microseconds.
// Stores use it for sessions without a live cart so a cart recreated after
// expiry continues above every version its predecessor reached.
func NewCartAt(sessionID string, currency valueobject.Currency, now time.Time) *Cart {
	c := NewCart(sessionID, currency)
	c.Version = uint64(now.UnixMicro())
	return c
}

// AddItem inserts the item, or increases the quantity of the existing entry
// with the same VariantID. Insertion order is preserved.
func (c *Cart) AddItem(item LineItem) error {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if len(c.Items) > 0 && !c.Items[0].UnitPrice.SameCurrency(item.UnitPrice) {
		return ErrMixedCurrency
	}

	idx := c.indexOf(item.VariantID)
	existing := 0
	if idx >= 0 {
		existing = c.Items[idx].Quantity
	}
	if item.Quantity > MaxQuantity-existing {
		return ErrQuantityLimit
	}

	if idx >= 0 {
		c.Items[idx].Quantity += item.Quantity
	} else {
		c.Items = append(c.Items, item)
	}
	c.changed()
	return nil
}

// UpdateQuantity sets the quantity of an item. A quantity below 1 removes the item
// and one above MaxQuantity is capped. Unknown identifiers are ignored.
func (c *Cart) UpdateQuantity(variantID string, quantity int) {
	idx := c.indexOf(variantID)
	if idx < 0 {
		return
	}
	switch {
	case quantity < 1:
		c.removeAt(idx)
	case quantity > MaxQuantity:
		c.Items[idx].Quantity = MaxQuantity
	default:
		c.Items[idx].Quantity = quantity
	}
	c.changed()
}

// RemoveItem deletes the item if present
func (c *Cart) RemoveItem(variantID string) {
	idx := c.indexOf(variantID)
	if idx < 0 {
		return
	}
	c.removeAt(idx)
	c.changed()
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = make([]LineItem, 0)
	c.changed()
}

// ClearSubmitted removes what a checkout took from the cart. When the cart is
// still at version it is emptied. Otherwise only the submitted quantities are
// taken off, so items added while the checkout was in flight stay.
func (c *Cart) ClearSubmitted(version uint64, submitted []LineItem) {
	if c.Version == version {
		c.Clear()
		return
	}

	removed := false
	for _, item := range submitted {
		idx := c.indexOf(item.VariantID)
		if idx < 0 {
			continue
		}
		if remaining := c.Items[idx].Quantity - item.Quantity; remaining < 1 {
			c.removeAt(idx)
		} else {
			c.Items[idx].Quantity = remaining
		}
		removed = true
	}
	if removed {
		c.changed()
	}
}

// Total returns the sum of unit price times quantity over all items.
// An empty cart totals zero in the store currency.
func (c *Cart) Total() valueobject.Money {
	if len(c.Items) == 0 {
		return valueobject.Zero(c.Currency)
	}
	total := valueobject.Zero(c.Items[0].UnitPrice.Currency())
	for _, item := range c.Items {
		// AddItem keeps currencies uniform so Add cannot fail here
		total, _ = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount returns the sum of all quantities
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Item returns the line item with the given identifier
func (c *Cart) Item(variantID string) (LineItem, bool) {
	if idx := c.indexOf(variantID); idx >= 0 {
		return c.Items[idx], true
	}
	return LineItem{}, false
}

// Snapshot returns an immutable copy of the cart state
func (c *Cart) Snapshot() Snapshot {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Snapshot{
		SessionID: c.SessionID,
		Version:   c.Version,
		Items:     items,
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
		UpdatedAt: c.UpdatedAt,
	}
}

// Clone returns a deep copy of the cart without its pending events
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Items = make([]LineItem, len(c.Items))
	copy(cp.Items, c.Items)
	cp.ClearDomainEvents()
	return &cp
}

func (c *Cart) indexOf(variantID string) int {
	for idx := range c.Items {
		if c.Items[idx].VariantID == variantID {
			return idx
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}

func (c *Cart) changed() {
	c.IncrementVersion()
	c.AddDomainEvent(NewCartChangedEvent(c))
}
