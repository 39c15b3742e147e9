package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/infrastructure/config"
)

// StorefrontConfigResponse holds the public settings the front end needs to
// start its payment SDKs and format prices. Nothing in it is secret.
type StorefrontConfigResponse struct {
	StripePublicKey string `json:"stripe_public_key" example:"pk_live_xxx"`
	CoinbaseAppID   string `json:"coinbase_app_id" example:"b5e1c0de-0000-4000-8000-000000000000"`
	Currency        string `json:"currency" example:"USD"`
	Locale          string `json:"locale" example:"en-US"`
	CheckoutAPI     string `json:"checkout_api" example:"cart"`
}

// StorefrontHandler serves public storefront settings
type StorefrontHandler struct {
	BaseHandler
	settings StorefrontConfigResponse
}

// NewStorefrontHandler creates a StorefrontHandler from the loaded configuration
func NewStorefrontHandler(cfg *config.Config) *StorefrontHandler {
	return &StorefrontHandler{
		settings: StorefrontConfigResponse{
			StripePublicKey: cfg.Payments.StripePublicKey,
			CoinbaseAppID:   cfg.Payments.CoinbaseAppID,
			Currency:        cfg.Store.Currency,
			Locale:          cfg.Store.Locale,
			CheckoutAPI:     cfg.Shopify.CheckoutAPI,
		},
	}
}

// GetConfig godoc
// @Summary      Get storefront settings
// @Description  Returns public payment provider keys, the store currency and locale
// @Tags         storefront
// @Produce      json
// @Success      200 {object} APIResponse[StorefrontConfigResponse]
// @Router       /storefront/config [get]
func (h *StorefrontHandler) GetConfig(c *gin.Context) {
	h.Success(c, h.settings)
}
