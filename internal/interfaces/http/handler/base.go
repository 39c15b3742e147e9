package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string, details any) {
	code = dto.NormalizeErrorCode(code)
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithDetails(code, message, middleware.GetRequestID(c), details))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts domain, storefront and checkout errors to HTTP responses.
// Platform messages are passed through verbatim.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var (
		domainErr    *shared.DomainError
		emptyErr     *storefront.EmptyCartError
		invalidErr   *storefront.InvalidLineItemError
		rejectedErr  *storefront.CheckoutRejectedError
		transportErr *storefront.TransportError
		graphQLErr   *storefront.GraphQLError
		configErr    *storefront.ConfigurationError
	)

	switch {
	case errors.As(err, &domainErr):
		h.ErrorWithCode(c, domainErr.Code, domainErr.Message, nil)
	case errors.As(err, &emptyErr):
		h.ErrorWithCode(c, dto.ErrCodeEmptyCart, "Your cart is empty", nil)
	case errors.As(err, &invalidErr):
		h.ErrorWithCode(c, dto.ErrCodeInvalidLineItem, "Some cart items cannot be checked out", invalidErr.Items)
	case errors.As(err, &rejectedErr):
		h.ErrorWithCode(c, dto.ErrCodeCheckoutRejected, rejectedMessage(rejectedErr), rejectedErr.Messages)
	case errors.As(err, &graphQLErr):
		h.ErrorWithCode(c, dto.ErrCodeUpstream, strings.Join(graphQLErr.Messages(), "; "), nil)
	case errors.As(err, &transportErr), errors.Is(err, storefront.ErrInvalidResponse):
		h.ErrorWithCode(c, dto.ErrCodeUpstream, "The store is unavailable right now", nil)
	case errors.As(err, &configErr):
		h.ErrorWithCode(c, dto.ErrCodeConfiguration, configErr.Error(), nil)
	case errors.Is(err, checkoutapp.ErrCheckoutInProgress):
		h.ErrorWithCode(c, dto.ErrCodeCheckoutInProgress, "A checkout is already in progress for this cart", nil)
	case errors.Is(err, storefront.ErrProductNotFound):
		h.NotFound(c, "Product not found")
	case errors.Is(err, storefront.ErrNoAvailableVariant):
		h.ErrorWithCode(c, dto.ErrCodeNoAvailableVariant, "No variant of this product is available for sale", nil)
	case errors.Is(err, cart.ErrConcurrentModification):
		h.ErrorWithCode(c, dto.ErrCodeConcurrencyConflict, "The cart changed while updating, please retry", nil)
	default:
		h.InternalError(c, "An unexpected error occurred")
	}
}

func rejectedMessage(err *storefront.CheckoutRejectedError) string {
	if len(err.Messages) == 0 {
		return "Checkout was rejected"
	}
	return strings.Join(err.Messages, "; ")
}
