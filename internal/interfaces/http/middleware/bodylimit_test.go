package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addItemBody struct {
	VariantID string `json:"variant_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
}

// cartItemsRouter binds add-item payloads behind a body cap and reports
// whether the cap tripped while decoding
func cartItemsRouter(limit int64) *gin.Engine {
	router := gin.New()
	router.Use(BodyLimit(limit))
	router.POST("/api/v1/cart/items", func(c *gin.Context) {
		var req addItemBody
		if err := c.ShouldBindJSON(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.String(http.StatusRequestEntityTooLarge, "capped at %d", tooLarge.Limit)
				return
			}
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.JSON(http.StatusOK, req)
	})
	router.GET("/api/v1/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": []string{}})
	})
	return router
}

func addItemPayload(titleLen int) string {
	return `{"variant_id":"gid://shopify/ProductVariant/1","title":"` +
		strings.Repeat("t", titleLen) + `","quantity":2}`
}

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("add item within limit reaches the handler", func(t *testing.T) {
		router := cartItemsRouter(1024)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(addItemPayload(20)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"quantity":2`)
	})

	t.Run("declared length over the limit is rejected before binding", func(t *testing.T) {
		router := cartItemsRouter(128)

		payload := addItemPayload(500)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", "req-oversized")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_REQUEST_TOO_LARGE")
		assert.NotContains(t, w.Body.String(), "capped at", "handler must not run")
	})

	t.Run("chunked body is capped while decoding", func(t *testing.T) {
		router := cartItemsRouter(128)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(addItemPayload(500)))
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "capped at 128", w.Body.String())
	})

	t.Run("cart reads without a body pass", func(t *testing.T) {
		router := cartItemsRouter(16)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
