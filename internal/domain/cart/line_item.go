package cart

import (
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// LineItem represents one product variant selected for purchase
type LineItem struct {
	// VariantID is the catalog's opaque identifier of the purchasable variant.
	// It is the uniqueness key within a cart.
	VariantID     string            `json:"variant_id"`
	ProductHandle string            `json:"product_handle,omitempty"`
	Title         string            `json:"title,omitempty"`
	ImageURL      string            `json:"image_url,omitempty"`
	UnitPrice     valueobject.Money `json:"unit_price"`
	Quantity      int               `json:"quantity"`
}

// NewLineItem creates a line item. A non-positive quantity defaults to 1.
func NewLineItem(variantID, title string, unitPrice valueobject.Money, quantity int) LineItem {
	if quantity <= 0 {
		quantity = 1
	}
	return LineItem{
		VariantID: variantID,
		Title:     title,
		UnitPrice: unitPrice,
		Quantity:  quantity,
	}
}

// Subtotal returns unit price multiplied by quantity
func (i LineItem) Subtotal() valueobject.Money {
	return i.UnitPrice.MultiplyByInt(int64(i.Quantity))
}
