package cart

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AddItemRequest represents a request to add a variant to the cart
type AddItemRequest struct {
	VariantID     string `json:"variant_id" binding:"required,max=255"`
	ProductHandle string `json:"product_handle" binding:"max=255"`
	Title         string `json:"title" binding:"required,max=255"`
	ImageURL      string `json:"image_url" binding:"omitempty,url,max=2048"`
	Price         string `json:"price" binding:"required,max=32"`
	Currency      string `json:"currency" binding:"omitempty,len=3"`
	// Quantity defaults to 1 when zero or negative
	Quantity int `json:"quantity" binding:"max=999"`
}

// ToLineItem converts the request into a line item priced in the given
// currency unless the request names its own
func (r AddItemRequest) ToLineItem(defaultCurrency valueobject.Currency) (cart.LineItem, error) {
	currency := defaultCurrency
	if r.Currency != "" {
		parsed, err := valueobject.ParseCurrency(r.Currency)
		if err != nil {
			return cart.LineItem{}, shared.NewDomainError("INVALID_CURRENCY", "Currency must be an ISO 4217 code")
		}
		currency = parsed
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil || amount.IsNegative() {
		return cart.LineItem{}, shared.NewDomainError("INVALID_PRICE", "Price must be a non-negative decimal")
	}
	price, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return cart.LineItem{}, shared.NewDomainError("INVALID_PRICE", err.Error())
	}

	item := cart.NewLineItem(strings.TrimSpace(r.VariantID), r.Title, price, r.Quantity)
	item.ProductHandle = r.ProductHandle
	item.ImageURL = r.ImageURL
	return item, nil
}

// UpdateQuantityRequest represents a request to change a line item's quantity.
// A quantity below 1 removes the item.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	VariantID        string            `json:"variant_id"`
	ProductHandle    string            `json:"product_handle,omitempty"`
	Title            string            `json:"title"`
	ImageURL         string            `json:"image_url,omitempty"`
	UnitPrice        valueobject.Money `json:"unit_price"`
	UnitPriceDisplay string            `json:"unit_price_display"`
	Quantity         int               `json:"quantity"`
	Subtotal         valueobject.Money `json:"subtotal"`
	SubtotalDisplay  string            `json:"subtotal_display"`
}

// CartResponse represents the cart in API responses and stream messages
type CartResponse struct {
	Version      uint64             `json:"version"`
	Items        []LineItemResponse `json:"items"`
	Total        valueobject.Money  `json:"total"`
	TotalDisplay string             `json:"total_display"`
	ItemCount    int                `json:"item_count"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// ToCartResponse converts a snapshot into a response with prices formatted for locale
func ToCartResponse(s cart.Snapshot, locale language.Tag) CartResponse {
	items := make([]LineItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		subtotal := item.Subtotal()
		items = append(items, LineItemResponse{
			VariantID:        item.VariantID,
			ProductHandle:    item.ProductHandle,
			Title:            item.Title,
			ImageURL:         item.ImageURL,
			UnitPrice:        item.UnitPrice,
			UnitPriceDisplay: item.UnitPrice.Format(locale),
			Quantity:         item.Quantity,
			Subtotal:         subtotal,
			SubtotalDisplay:  subtotal.Format(locale),
		})
	}
	return CartResponse{
		Version:      s.Version,
		Items:        items,
		Total:        s.Total,
		TotalDisplay: s.Total.Format(locale),
		ItemCount:    s.ItemCount,
		UpdatedAt:    s.UpdatedAt,
	}
}
