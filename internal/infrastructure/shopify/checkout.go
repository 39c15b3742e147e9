package shopify

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/storefront"
)

const cartCreateMutation = `mutation cartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart {
      id
      checkoutUrl
    }
    userErrors {
      field
      message
    }
  }
}`

const checkoutCreateMutation = `mutation checkoutCreate($input: CheckoutCreateInput!) {
  checkoutCreate(input: $input) {
    checkout {
      id
      webUrl
    }
    checkoutUserErrors {
      code
      field
      message
    }
  }
}`

// CheckoutClient creates hosted checkouts with either mutation generation
type CheckoutClient struct {
	client     storefront.GraphQLClient
	generation storefront.Generation
	logger     *zap.Logger
}

// NewCheckoutClient creates a checkout creator. An empty generation means GenerationCart.
func NewCheckoutClient(client storefront.GraphQLClient, generation storefront.Generation, logger *zap.Logger) (*CheckoutClient, error) {
	if generation == "" {
		generation = storefront.GenerationCart
	}
	if !generation.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCheckoutAPI, generation)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutClient{client: client, generation: generation, logger: logger}, nil
}

// Generation returns the mutation generation in use
func (c *CheckoutClient) Generation() storefront.Generation {
	return c.generation
}

// CreateCheckout submits all lines as a single mutation
func (c *CheckoutClient) CreateCheckout(ctx context.Context, lines []storefront.CheckoutLine) (*storefront.CheckoutSession, error) {
	query, variables := c.buildMutation(lines)

	data, err := c.client.Query(ctx, query, variables)
	if err != nil {
		return nil, err
	}

	session, err := ParseCheckoutResponse(data)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Checkout created",
		zap.String("checkout_id", session.ID),
		zap.String("generation", session.Generation.String()),
		zap.Int("line_count", len(lines)),
	)
	return session, nil
}

// buildMutation returns the document and variables for the configured generation
func (c *CheckoutClient) buildMutation(lines []storefront.CheckoutLine) (string, map[string]any) {
	if c.generation == storefront.GenerationCheckout {
		lineItems := make([]map[string]any, 0, len(lines))
		for _, line := range lines {
			lineItems = append(lineItems, map[string]any{
				"variantId": line.MerchandiseID,
				"quantity":  line.Quantity,
			})
		}
		return checkoutCreateMutation, map[string]any{
			"input": map[string]any{
				"lineItems":             lineItems,
				"allowPartialAddresses": true,
			},
		}
	}

	cartLines := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		cartLines = append(cartLines, map[string]any{
			"merchandiseId": line.MerchandiseID,
			"quantity":      line.Quantity,
		})
	}
	return cartCreateMutation, map[string]any{
		"input": map[string]any{"lines": cartLines},
	}
}

// ParseCheckoutResponse reads the data of a cartCreate or checkoutCreate mutation.
// User errors, a missing cart or checkout object, or an empty URL yield *storefront.CheckoutRejectedError.
func ParseCheckoutResponse(data json.RawMessage) (*storefront.CheckoutSession, error) {
	var resp checkoutMutationData
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse checkout: %v", storefront.ErrInvalidResponse, err)
	}

	switch {
	case resp.CartCreate != nil:
		payload := resp.CartCreate
		if len(payload.UserErrors) > 0 {
			return nil, storefront.NewCheckoutRejectedError(toUserErrors(payload.UserErrors))
		}
		if payload.Cart == nil {
			return nil, &storefront.CheckoutRejectedError{Messages: []string{"no cart returned"}}
		}
		if payload.Cart.CheckoutURL == "" {
			return nil, &storefront.CheckoutRejectedError{Messages: []string{"no checkout URL returned"}}
		}
		return &storefront.CheckoutSession{
			ID:         payload.Cart.ID,
			WebURL:     payload.Cart.CheckoutURL,
			Generation: storefront.GenerationCart,
		}, nil

	case resp.CheckoutCreate != nil:
		payload := resp.CheckoutCreate
		userErrors := append(toUserErrors(payload.CheckoutUserErrors), toUserErrors(payload.UserErrors)...)
		if len(userErrors) > 0 {
			return nil, storefront.NewCheckoutRejectedError(userErrors)
		}
		if payload.Checkout == nil {
			return nil, &storefront.CheckoutRejectedError{Messages: []string{"no checkout returned"}}
		}
		if payload.Checkout.WebURL == "" {
			return nil, &storefront.CheckoutRejectedError{Messages: []string{"no checkout URL returned"}}
		}
		return &storefront.CheckoutSession{
			ID:         payload.Checkout.ID,
			WebURL:     payload.Checkout.WebURL,
			Generation: storefront.GenerationCheckout,
		}, nil

	default:
		// A null or missing mutation payload means nothing was created
		return nil, &storefront.CheckoutRejectedError{Messages: []string{"no cart returned"}}
	}
}

// Ensure CheckoutClient implements CheckoutCreator
var _ storefront.CheckoutCreator = (*CheckoutClient)(nil)
