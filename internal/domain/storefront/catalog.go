package storefront

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Image is a product image hosted by the platform
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
}

// Variant is a purchasable SKU of a product
type Variant struct {
	// ID is the platform global identifier, e.g. gid://shopify/ProductVariant/123
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	SKU              string            `json:"sku,omitempty"`
	Price            valueobject.Money `json:"price"`
	AvailableForSale bool              `json:"available_for_sale"`
}

// CartID returns the identifier a cart line uses for this variant
func (v Variant) CartID() (string, error) {
	return ParseVariantGID(v.ID)
}

// Product is a catalog product with its variants
type Product struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Images      []Image   `json:"images"`
	Variants    []Variant `json:"variants"`
}

// FirstAvailableVariant returns the first variant that can be purchased
func (p Product) FirstAvailableVariant() (Variant, bool) {
	for _, v := range p.Variants {
		if v.AvailableForSale {
			return v, true
		}
	}
	return Variant{}, false
}

// FeaturedImage returns the first image, if any
func (p Product) FeaturedImage() (Image, bool) {
	if len(p.Images) == 0 {
		return Image{}, false
	}
	return p.Images[0], true
}

// PageInfo is cursor pagination state
type PageInfo struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor,omitempty"`
}

// ProductPage is one page of products
type ProductPage struct {
	Products []Product `json:"products"`
	PageInfo PageInfo  `json:"page_info"`
}

// Catalog reads products from the platform
type Catalog interface {
	// ListProducts returns up to first products after the given cursor
	ListProducts(ctx context.Context, first int, after string) (*ProductPage, error)

	// GetProduct returns the product with the given handle, or ErrProductNotFound
	GetProduct(ctx context.Context, handle string) (*Product, error)
}
