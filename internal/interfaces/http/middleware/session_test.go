package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

func newSessionRouter(cfg SessionConfig) *gin.Engine {
	router := gin.New()
	router.Use(Session(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"session_id": GetSessionID(c),
			"ctx":        logger.GetSessionID(c.Request.Context()),
		})
	})
	return router
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSession_IssuesCookie(t *testing.T) {
	router := newSessionRouter(DefaultSessionConfig())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	cookie := findCookie(w, DefaultSessionCookie)
	require.NotNil(t, cookie)
	_, err := uuid.Parse(cookie.Value)
	assert.NoError(t, err)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Contains(t, w.Body.String(), cookie.Value)
}

func TestSession_KeepsValidCookie(t *testing.T) {
	router := newSessionRouter(DefaultSessionConfig())
	existing := uuid.NewString()

	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: existing})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	cookie := findCookie(w, DefaultSessionCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, existing, cookie.Value)
	assert.JSONEq(t, `{"session_id":"`+existing+`","ctx":"`+existing+`"}`, w.Body.String())
}

func TestSession_ReplacesMalformedCookie(t *testing.T) {
	router := newSessionRouter(DefaultSessionConfig())

	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: "../../etc/passwd"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	cookie := findCookie(w, DefaultSessionCookie)
	require.NotNil(t, cookie)
	assert.NotEqual(t, "../../etc/passwd", cookie.Value)
	_, err := uuid.Parse(cookie.Value)
	assert.NoError(t, err)
}

func TestSessionConfigFrom(t *testing.T) {
	cfg := SessionConfigFrom(config.CookieConfig{
		Name:     "cart_sid",
		Domain:   "shop.example.com",
		Secure:   true,
		SameSite: "strict",
	}, time.Hour)

	assert.Equal(t, "cart_sid", cfg.CookieName)
	assert.Equal(t, "/", cfg.Path)
	assert.Equal(t, "shop.example.com", cfg.Domain)
	assert.True(t, cfg.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cfg.SameSite)
	assert.Equal(t, time.Hour, cfg.MaxAge)

	defaults := SessionConfigFrom(config.CookieConfig{}, 0)
	assert.Equal(t, DefaultSessionCookie, defaults.CookieName)
	assert.Equal(t, http.SameSiteLaxMode, defaults.SameSite)
	assert.Equal(t, DefaultSessionConfig().MaxAge, defaults.MaxAge)
}
