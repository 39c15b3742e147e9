package handler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CartHandler handles the session cart endpoints, including the cart stream
type CartHandler struct {
	BaseHandler
	carts    cartapp.Store
	watcher  *cartapp.Watcher
	locale   language.Tag
	currency valueobject.Currency
	logger   *zap.Logger
	metrics  *telemetry.StorefrontMetrics

	heartbeat  time.Duration
	maxStreams int
	streams    atomic.Int64
	done       chan struct{}
	closeOnce  sync.Once
}

// CartHandlerOption is a functional option for configuring the handler
type CartHandlerOption func(*CartHandler)

// WithCartLogger sets the logger for the handler
func WithCartLogger(logger *zap.Logger) CartHandlerOption {
	return func(h *CartHandler) {
		h.logger = logger
	}
}

// WithCartLocale sets the locale used for display prices
func WithCartLocale(locale language.Tag) CartHandlerOption {
	return func(h *CartHandler) {
		h.locale = locale
	}
}

// WithCartCurrency sets the currency for items that do not name one
func WithCartCurrency(currency valueobject.Currency) CartHandlerOption {
	return func(h *CartHandler) {
		h.currency = currency
	}
}

// WithStreamHeartbeat sets the interval between keep-alive comments on the cart stream
func WithStreamHeartbeat(interval time.Duration) CartHandlerOption {
	return func(h *CartHandler) {
		h.heartbeat = interval
	}
}

// WithMaxStreams limits the number of concurrently open cart streams (0 = unlimited)
func WithMaxStreams(max int) CartHandlerOption {
	return func(h *CartHandler) {
		h.maxStreams = max
	}
}

// WithCartMetrics sets the recorder for open stream counts
func WithCartMetrics(m *telemetry.StorefrontMetrics) CartHandlerOption {
	return func(h *CartHandler) {
		h.metrics = m
	}
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts cartapp.Store, watcher *cartapp.Watcher, opts ...CartHandlerOption) *CartHandler {
	h := &CartHandler{
		carts:      carts,
		watcher:    watcher,
		locale:     language.AmericanEnglish,
		currency:   valueobject.DefaultCurrency,
		logger:     zap.NewNop(),
		heartbeat:  30 * time.Second,
		maxStreams: 10000,
		done:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Close ends every open cart stream. It is safe to call more than once.
func (h *CartHandler) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// GetCart godoc
// @Summary      Get cart
// @Description  Returns the session's cart with formatted prices, total and item count
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	current, err := h.carts.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, h.toResponse(current))
}

// AddItem godoc
// @Summary      Add item to cart
// @Description  Adds a variant to the cart. Adding a variant already in the cart increases its quantity.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.AddItemRequest true "Item to add"
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	item, err := req.ToLineItem(h.currency)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	updated, err := h.carts.AddItem(c.Request.Context(), middleware.GetSessionID(c), item)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, h.toResponse(updated))
}

// UpdateQuantity godoc
// @Summary      Update item quantity
// @Description  Sets the quantity of a cart item. A quantity below 1 removes the item; an unknown variant is ignored.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        id path string true "Variant ID"
// @Param        request body cartapp.UpdateQuantityRequest true "New quantity"
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /cart/items/{id} [put]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req cartapp.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	updated, err := h.carts.UpdateQuantity(c.Request.Context(), middleware.GetSessionID(c), c.Param("id"), *req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, h.toResponse(updated))
}

// RemoveItem godoc
// @Summary      Remove item from cart
// @Description  Removes a variant from the cart. Removing an absent variant is not an error.
// @Tags         cart
// @Produce      json
// @Param        id path string true "Variant ID"
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Router       /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	updated, err := h.carts.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, h.toResponse(updated))
}

// ClearCart godoc
// @Summary      Clear cart
// @Description  Removes every item from the session's cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Router       /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	updated, err := h.carts.Clear(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, h.toResponse(updated))
}

func (h *CartHandler) toResponse(c *cart.Cart) cartapp.CartResponse {
	return cartapp.ToCartResponse(c.Snapshot(), h.locale)
}
