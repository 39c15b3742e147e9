package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// DefaultSessionCookie is the cookie that identifies a browser session
const DefaultSessionCookie = "sf_session"

// SessionConfig holds configuration for the session cookie middleware
type SessionConfig struct {
	CookieName string
	Domain     string
	Path       string
	Secure     bool
	SameSite   http.SameSite
	// MaxAge is the cookie lifetime; it is refreshed on every request
	MaxAge time.Duration
}

// DefaultSessionConfig returns default session cookie settings
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		CookieName: DefaultSessionCookie,
		Path:       "/",
		SameSite:   http.SameSiteLaxMode,
		MaxAge:     7 * 24 * time.Hour,
	}
}

// SessionConfigFrom builds a SessionConfig from the cookie and cart settings
func SessionConfigFrom(cookie config.CookieConfig, ttl time.Duration) SessionConfig {
	cfg := DefaultSessionConfig()
	if cookie.Name != "" {
		cfg.CookieName = cookie.Name
	}
	if cookie.Path != "" {
		cfg.Path = cookie.Path
	}
	cfg.Domain = cookie.Domain
	cfg.Secure = cookie.Secure
	cfg.SameSite = parseSameSite(cookie.SameSite)
	if ttl > 0 {
		cfg.MaxAge = ttl
	}
	return cfg
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Session assigns every browser a session ID kept in a cookie.
// Missing or malformed cookies get a fresh random UUID.
func Session(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cfg.CookieName)
		if err != nil || !isValidSessionID(sessionID) {
			sessionID = uuid.NewString()
		}

		c.SetSameSite(cfg.SameSite)
		c.SetCookie(cfg.CookieName, sessionID, int(cfg.MaxAge.Seconds()), cfg.Path, cfg.Domain, cfg.Secure, true)

		c.Set(logger.GinSessionIDKey, sessionID)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), sessionID))
		c.Next()
	}
}

// GetSessionID returns the session ID assigned by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(logger.GinSessionIDKey)
}

func isValidSessionID(id string) bool {
	if id == "" || len(id) > 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
