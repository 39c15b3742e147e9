package storefront

import "context"

// Generation selects which checkout mutation the platform is asked to run
type Generation string

const (
	// GenerationCart uses cartCreate and returns cart.checkoutUrl
	GenerationCart Generation = "cart"
	// GenerationCheckout uses the legacy checkoutCreate and returns checkout.webUrl
	GenerationCheckout Generation = "checkout"
)

// IsValid returns true if the generation is known
func (g Generation) IsValid() bool {
	return g == GenerationCart || g == GenerationCheckout
}

// String returns the string representation of Generation
func (g Generation) String() string {
	return string(g)
}

// CheckoutLine is one line of a checkout request
type CheckoutLine struct {
	// MerchandiseID is the encoded variant global identifier
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// CheckoutSession is the hosted checkout created by the platform
type CheckoutSession struct {
	ID         string     `json:"id"`
	WebURL     string     `json:"web_url"`
	Generation Generation `json:"generation"`
}

// CheckoutCreator submits checkout lines to the platform as a single mutation.
// Platform user errors or a missing checkout object yield *CheckoutRejectedError.
type CheckoutCreator interface {
	CreateCheckout(ctx context.Context, lines []CheckoutLine) (*CheckoutSession, error)
}
