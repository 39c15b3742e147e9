package shopify

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/storefront"
)

const (
	// DefaultAPIVersion is the Storefront API version used when none is configured
	DefaultAPIVersion = "2024-01"
	// DefaultMaxResponseBytes caps how much of a response body is read (10MB)
	DefaultMaxResponseBytes = 10 * 1024 * 1024
	// AccessTokenHeader carries the storefront access token
	AccessTokenHeader = "X-Shopify-Storefront-Access-Token"
)

// ErrInvalidCheckoutAPI is returned when the checkout generation is not cart or checkout
var ErrInvalidCheckoutAPI = errors.New("shopify: checkout api must be 'cart' or 'checkout'")

// Config holds configuration for the Shopify Storefront API
type Config struct {
	// StoreDomain is the shop's host name, e.g. example.myshopify.com
	StoreDomain string
	// StorefrontToken is the public Storefront API access token
	StorefrontToken string
	// APIVersion is the dated API version in the endpoint path
	APIVersion string
	// RequestTimeout bounds each request; zero means no timeout beyond the caller's context
	RequestTimeout time.Duration
	// MaxResponseBytes caps how much of a response body is read
	MaxResponseBytes int64
	// CheckoutAPI selects the checkout mutation generation
	CheckoutAPI storefront.Generation
	// BaseURL overrides the https://{StoreDomain} origin, for tests and proxies
	BaseURL string
}

// NewConfig creates a new Shopify configuration with defaults
func NewConfig(storeDomain, storefrontToken string) *Config {
	return &Config{
		StoreDomain:      storeDomain,
		StorefrontToken:  storefrontToken,
		APIVersion:       DefaultAPIVersion,
		MaxResponseBytes: DefaultMaxResponseBytes,
		CheckoutAPI:      storefront.GenerationCart,
	}
}

// Validate validates the configuration and fills in defaults.
// Missing credentials are reported together in a *storefront.ConfigurationError.
func (c *Config) Validate() error {
	if missing := c.missing(); len(missing) > 0 {
		return &storefront.ConfigurationError{Missing: missing}
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = DefaultMaxResponseBytes
	}
	if c.CheckoutAPI == "" {
		c.CheckoutAPI = storefront.GenerationCart
	}
	if !c.CheckoutAPI.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCheckoutAPI, c.CheckoutAPI)
	}
	if c.RequestTimeout < 0 {
		return errors.New("shopify: request timeout cannot be negative")
	}
	return nil
}

// missing lists required settings that are empty. It does not modify c.
func (c *Config) missing() []string {
	var missing []string
	if strings.TrimSpace(c.StoreDomain) == "" {
		missing = append(missing, "shopify.store_domain")
	}
	if strings.TrimSpace(c.StorefrontToken) == "" {
		missing = append(missing, "shopify.storefront_token")
	}
	return missing
}

// Endpoint returns the GraphQL endpoint URL
func (c *Config) Endpoint() string {
	origin := "https://" + c.StoreDomain
	if c.BaseURL != "" {
		origin = strings.TrimRight(c.BaseURL, "/")
	}
	version := c.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	return fmt.Sprintf("%s/api/%s/graphql.json", origin, version)
}
