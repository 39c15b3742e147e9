package catalog

import (
	"golang.org/x/text/language"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/storefront"
)

// ListProductsRequest represents a product listing query
type ListProductsRequest struct {
	First int    `form:"first" binding:"omitempty,min=1,max=250"`
	After string `form:"after" binding:"max=512"`
}

// VariantResponse represents a purchasable variant in API responses
type VariantResponse struct {
	ID string `json:"id"`
	// CartID is the identifier to send when adding this variant to the cart
	CartID           string            `json:"cart_id"`
	Title            string            `json:"title"`
	SKU              string            `json:"sku,omitempty"`
	Price            valueobject.Money `json:"price"`
	PriceDisplay     string            `json:"price_display"`
	AvailableForSale bool              `json:"available_for_sale"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            string             `json:"id"`
	Handle        string             `json:"handle"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	ImageURL      string             `json:"image_url,omitempty"`
	Images        []storefront.Image `json:"images"`
	Variants      []VariantResponse  `json:"variants"`
	DefaultCartID string             `json:"default_cart_id,omitempty"`
	Available     bool               `json:"available"`
}

// ProductListResponse represents one page of products
type ProductListResponse struct {
	Products    []ProductResponse `json:"products"`
	HasNextPage bool              `json:"has_next_page"`
	EndCursor   string            `json:"end_cursor,omitempty"`
}

// ToProductResponse converts a catalog product with prices formatted for locale
func ToProductResponse(p storefront.Product, locale language.Tag) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Handle:      p.Handle,
		Title:       p.Title,
		Description: p.Description,
		Images:      p.Images,
		Variants:    make([]VariantResponse, 0, len(p.Variants)),
	}
	if resp.Images == nil {
		resp.Images = make([]storefront.Image, 0)
	}
	if img, ok := p.FeaturedImage(); ok {
		resp.ImageURL = img.URL
	}

	for _, v := range p.Variants {
		// Variants whose id is not a variant global identifier cannot be carted
		cartID, _ := v.CartID()
		resp.Variants = append(resp.Variants, VariantResponse{
			ID:               v.ID,
			CartID:           cartID,
			Title:            v.Title,
			SKU:              v.SKU,
			Price:            v.Price,
			PriceDisplay:     v.Price.Format(locale),
			AvailableForSale: v.AvailableForSale,
		})
	}

	if v, ok := p.FirstAvailableVariant(); ok {
		resp.Available = true
		resp.DefaultCartID, _ = v.CartID()
	}
	return resp
}
