package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CatalogHandler handles product listing and detail endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.Service) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ListProducts godoc
// @Summary      List products
// @Description  Returns one page of the store's products with their variants
// @Tags         catalog
// @Produce      json
// @Param        first query int false "Page size (1-250)" default(20)
// @Param        after query string false "Cursor returned as end_cursor by the previous page"
// @Success      200 {object} APIResponse[catalogapp.ProductListResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /catalog/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var req catalogapp.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.catalogService.ListProducts(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, page)
}

// GetProduct godoc
// @Summary      Get product
// @Description  Returns a product and its variants by handle
// @Tags         catalog
// @Produce      json
// @Param        handle path string true "Product handle"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /catalog/products/{handle} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("handle"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}
