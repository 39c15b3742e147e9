package storefront

import (
	"errors"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrProductNotFound    = errors.New("storefront: product not found")
	ErrNoAvailableVariant = errors.New("storefront: no variant available for sale")
	ErrInvalidVariantGID  = errors.New("storefront: invalid variant global identifier")
	ErrInvalidResponse    = errors.New("storefront: invalid platform response")
)

// ---------------------------------------------------------------------------
// Remote client errors
// ---------------------------------------------------------------------------

// ConfigurationError reports required endpoint or credential settings that are absent.
// It is raised before any network call is attempted.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "storefront: missing required configuration: " + strings.Join(e.Missing, ", ")
}

// TransportError reports an unsuccessful HTTP exchange with the platform.
// StatusCode is 0 when no response was received.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("storefront: request failed: %v", e.Err)
	}
	return fmt.Sprintf("storefront: HTTP error! status: %d, body: %s", e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// GraphQLErrorItem is one entry of a GraphQL response's errors array
type GraphQLErrorItem struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// GraphQLError reports API-level errors returned alongside a successful HTTP status
type GraphQLError struct {
	Errors []GraphQLErrorItem
}

func (e *GraphQLError) Error() string {
	return "storefront: graphql errors: " + strings.Join(e.Messages(), "; ")
}

// Messages returns the message of every error entry
func (e *GraphQLError) Messages() []string {
	msgs := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		msgs = append(msgs, item.Message)
	}
	return msgs
}

// ---------------------------------------------------------------------------
// Checkout errors
// ---------------------------------------------------------------------------

// EmptyCartError is returned when checkout is requested for a cart without items
type EmptyCartError struct{}

func (e *EmptyCartError) Error() string {
	return "storefront: cart is empty"
}

// InvalidLineItem describes one line item that cannot be submitted
type InvalidLineItem struct {
	Index     int    `json:"index"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// InvalidLineItemError enumerates every line item that failed validation
type InvalidLineItemError struct {
	Items []InvalidLineItem
}

func (e *InvalidLineItemError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		parts = append(parts, fmt.Sprintf("item %d (%q): %s", item.Index, item.VariantID, item.Reason))
	}
	return "storefront: invalid line items: " + strings.Join(parts, "; ")
}

// UserError is a platform-reported validation error on a checkout mutation
type UserError struct {
	Code    string   `json:"code,omitempty"`
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
}

// CheckoutRejectedError is returned when the platform reports user errors or
// returns no checkout object. Messages holds the platform's text verbatim.
type CheckoutRejectedError struct {
	Messages   []string
	UserErrors []UserError
}

// NewCheckoutRejectedError builds a CheckoutRejectedError from platform user errors
func NewCheckoutRejectedError(userErrors []UserError) *CheckoutRejectedError {
	msgs := make([]string, 0, len(userErrors))
	for _, ue := range userErrors {
		msgs = append(msgs, ue.Message)
	}
	return &CheckoutRejectedError{Messages: msgs, UserErrors: userErrors}
}

func (e *CheckoutRejectedError) Error() string {
	if len(e.Messages) == 0 {
		return "storefront: checkout rejected"
	}
	return "storefront: checkout rejected: " + strings.Join(e.Messages, "; ")
}
