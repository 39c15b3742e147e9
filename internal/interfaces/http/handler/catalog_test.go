package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// MockCatalog is a mock implementation of storefront.Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListProducts(ctx context.Context, first int, after string) (*storefront.ProductPage, error) {
	args := m.Called(ctx, first, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.ProductPage), args.Error(1)
}

func (m *MockCatalog) GetProduct(ctx context.Context, handle string) (*storefront.Product, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Product), args.Error(1)
}

func newCatalogEngine(catalog storefront.Catalog) *gin.Engine {
	h := NewCatalogHandler(catalogapp.NewService(catalog, language.AmericanEnglish, nil))
	engine := gin.New()
	engine.GET("/catalog/products", h.ListProducts)
	engine.GET("/catalog/products/:handle", h.GetProduct)
	return engine
}

func sampleProduct() storefront.Product {
	return storefront.Product{
		ID:     "gid://shopify/Product/1",
		Handle: "classic-tee",
		Title:  "Classic Tee",
		Variants: []storefront.Variant{
			{
				ID:               "gid://shopify/ProductVariant/44713213640",
				Title:            "Small",
				AvailableForSale: true,
			},
		},
	}
}

func withPrice(p storefront.Product, amount string) storefront.Product {
	price, _ := valueobject.NewMoney(decimal.RequireFromString(amount), valueobject.USD)
	p.Variants[0].Price = price
	return p
}

func TestCatalogHandler_ListProducts(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("ListProducts", mock.Anything, 10, "cursor-1").Return(&storefront.ProductPage{
		Products: []storefront.Product{withPrice(sampleProduct(), "21.00")},
		PageInfo: storefront.PageInfo{HasNextPage: true, EndCursor: "cursor-2"},
	}, nil)

	w := httptest.NewRecorder()
	newCatalogEngine(catalog).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/products?first=10&after=cursor-1", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Success bool                           `json:"success"`
		Data    catalogapp.ProductListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.HasNextPage)
	assert.Equal(t, "cursor-2", resp.Data.EndCursor)
	require.Len(t, resp.Data.Products, 1)
	assert.Equal(t, "classic-tee", resp.Data.Products[0].Handle)
	assert.Equal(t, "44713213640", resp.Data.Products[0].Variants[0].CartID)
	catalog.AssertExpectations(t)
}

func TestCatalogHandler_ListProducts_InvalidPageSize(t *testing.T) {
	catalog := new(MockCatalog)

	w := httptest.NewRecorder()
	newCatalogEngine(catalog).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/products?first=1000", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
	catalog.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogHandler_ListProducts_Upstream(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("ListProducts", mock.Anything, mock.Anything, "").
		Return(nil, &storefront.TransportError{StatusCode: http.StatusUnauthorized, Body: "Unauthorized"})

	w := httptest.NewRecorder()
	newCatalogEngine(catalog).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/products", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, dto.ErrCodeUpstream, decodeResponse(t, w).Error.Code)
}

func TestCatalogHandler_GetProduct(t *testing.T) {
	catalog := new(MockCatalog)
	product := withPrice(sampleProduct(), "21.00")
	catalog.On("GetProduct", mock.Anything, "classic-tee").Return(&product, nil)

	w := httptest.NewRecorder()
	newCatalogEngine(catalog).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/products/classic-tee", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data catalogapp.ProductResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Classic Tee", resp.Data.Title)
	assert.True(t, resp.Data.Available)
}

func TestCatalogHandler_GetProduct_NotFound(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("GetProduct", mock.Anything, "missing").Return(nil, storefront.ErrProductNotFound)

	w := httptest.NewRecorder()
	newCatalogEngine(catalog).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/products/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
}
