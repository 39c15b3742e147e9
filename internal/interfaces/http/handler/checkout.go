package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout submission
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// CheckoutRequest holds the checkout query options
type CheckoutRequest struct {
	Redirect bool `form:"redirect"`
}

// CheckoutResponse is returned when the client follows the checkout URL itself
type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url" example:"https://shop.example.com/checkouts/abc"`
}

// Checkout godoc
// @Summary      Check out
// @Description  Submits the session's cart to the commerce platform and hands back the hosted checkout URL.
// @Description  With redirect=true the response is a 303 to the checkout page. The cart is cleared only once
// @Description  the response has been written; a failed or rejected checkout leaves it untouched.
// @Tags         checkout
// @Produce      json
// @Param        redirect query bool false "Respond with 303 See Other instead of JSON"
// @Success      200 {object} APIResponse[CheckoutResponse]
// @Success      303 "Redirect to the hosted checkout"
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	navigate := func(ctx context.Context, url string) error {
		// A client that went away never reaches the checkout page
		if err := ctx.Err(); err != nil {
			return err
		}
		if req.Redirect {
			c.Redirect(http.StatusSeeOther, url)
		} else {
			h.Success(c, CheckoutResponse{CheckoutURL: url})
		}
		c.Writer.Flush()
		return nil
	}

	if _, err := h.checkoutService.Checkout(c.Request.Context(), middleware.GetSessionID(c), navigate); err != nil {
		if c.Writer.Written() {
			return
		}
		h.HandleError(c, err)
	}
}
