package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Shopify   ShopifyConfig
	Payments  PaymentsConfig
	Store     StoreConfig
	Cart      CartConfig
	Checkout  CheckoutConfig
	Redis     RedisConfig
	Cookie    CookieConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Version string
}

// ShopifyConfig holds commerce platform Storefront API settings
type ShopifyConfig struct {
	StoreDomain     string        // e.g. my-shop.myshopify.com
	StorefrontToken string        // public Storefront API access token
	APIVersion      string        // e.g. 2024-01
	RequestTimeout  time.Duration // 0 disables the client-side timeout
	CheckoutAPI     string        // cart or checkout
}

// PaymentsConfig holds public identifiers handed to front-end payment SDKs
type PaymentsConfig struct {
	StripePublicKey string
	CoinbaseAppID   string
}

// StoreConfig holds storefront presentation settings
type StoreConfig struct {
	Currency string // ISO 4217 code used for empty cart totals
	Locale   string // BCP 47 tag used for display prices
}

// CartConfig holds cart storage settings
type CartConfig struct {
	Backend    string        // memory or redis
	SessionTTL time.Duration // lifetime of an idle cart
	KeyPrefix  string        // redis key prefix
}

// CheckoutConfig holds checkout submission settings
type CheckoutConfig struct {
	GuardTTL time.Duration // upper bound on how long a submission keeps its session busy
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// CookieConfig holds settings for the storefront session cookie
type CookieConfig struct {
	Name     string
	Domain   string // empty = current domain
	Path     string
	Secure   bool   // should be true in production (HTTPS)
	SameSite string // strict, lax, or none
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	StreamHeartbeat  time.Duration
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
	ShutdownTimeout  time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled               bool    // Whether to enable tracing
	MetricsEnabled        bool    // Whether to export metrics
	LogsEnabled           bool    // Whether to ship logs to the collector as well as the local output
	CollectorEndpoint     string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio         float64 // 0.0-1.0
	ServiceName           string
	Insecure              bool // Use insecure (non-TLS) connection (development only)
	MetricsExportInterval time.Duration
}

// Supported values
const (
	CartBackendMemory = "memory"
	CartBackendRedis  = "redis"

	CheckoutAPICart     = "cart"
	CheckoutAPICheckout = "checkout"
)

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SF_ prefix (e.g., SF_SHOPIFY_STOREFRONT_TOKEN)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	return load(v)
}

// LoadFile loads configuration from an explicit TOML file plus environment variables.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("SF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			Version: v.GetString("app.version"),
		},
		Shopify: ShopifyConfig{
			StoreDomain:     v.GetString("shopify.store_domain"),
			StorefrontToken: v.GetString("shopify.storefront_token"),
			APIVersion:      v.GetString("shopify.api_version"),
			RequestTimeout:  v.GetDuration("shopify.request_timeout"),
			CheckoutAPI:     v.GetString("shopify.checkout_api"),
		},
		Payments: PaymentsConfig{
			StripePublicKey: v.GetString("payments.stripe_public_key"),
			CoinbaseAppID:   v.GetString("payments.coinbase_app_id"),
		},
		Store: StoreConfig{
			Currency: v.GetString("store.currency"),
			Locale:   v.GetString("store.locale"),
		},
		Cart: CartConfig{
			Backend:    v.GetString("cart.backend"),
			SessionTTL: v.GetDuration("cart.session_ttl"),
			KeyPrefix:  v.GetString("cart.key_prefix"),
		},
		Checkout: CheckoutConfig{
			GuardTTL: v.GetDuration("checkout.guard_ttl"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cookie: CookieConfig{
			Name:     v.GetString("cookie.name"),
			Domain:   v.GetString("cookie.domain"),
			Path:     v.GetString("cookie.path"),
			Secure:   v.GetBool("cookie.secure"),
			SameSite: v.GetString("cookie.same_site"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			StreamHeartbeat:  v.GetDuration("http.stream_heartbeat"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
		},
		Telemetry: TelemetryConfig{
			Enabled:               v.GetBool("telemetry.enabled"),
			MetricsEnabled:        v.GetBool("telemetry.metrics_enabled"),
			LogsEnabled:           v.GetBool("telemetry.logs_enabled"),
			CollectorEndpoint:     v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:         v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:           v.GetString("telemetry.service_name"),
			Insecure:              v.GetBool("telemetry.insecure"),
			MetricsExportInterval: v.GetDuration("telemetry.metrics_export_interval"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "dev"
	}
	if cfg.Shopify.APIVersion == "" {
		cfg.Shopify.APIVersion = "2024-01"
	}
	if cfg.Shopify.CheckoutAPI == "" {
		cfg.Shopify.CheckoutAPI = CheckoutAPICart
	}
	if cfg.Store.Currency == "" {
		cfg.Store.Currency = "USD"
	}
	if cfg.Store.Locale == "" {
		cfg.Store.Locale = "en-US"
	}
	if cfg.Cart.Backend == "" {
		cfg.Cart.Backend = CartBackendMemory
	}
	if cfg.Cart.SessionTTL == 0 {
		cfg.Cart.SessionTTL = 24 * time.Hour
	}
	if cfg.Cart.KeyPrefix == "" {
		cfg.Cart.KeyPrefix = "storefront:"
	}
	if cfg.Checkout.GuardTTL == 0 {
		cfg.Checkout.GuardTTL = 2 * time.Minute
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cookie.Name == "" {
		cfg.Cookie.Name = "sf_session"
	}
	if cfg.Cookie.Path == "" {
		cfg.Cookie.Path = "/"
	}
	if cfg.Cookie.SameSite == "" {
		cfg.Cookie.SameSite = "lax"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.HTTP.StreamHeartbeat == 0 {
		cfg.HTTP.StreamHeartbeat = 30 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	// CORS origins get no wildcard fallback: cross-origin requests stay blocked until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsExportInterval == 0 {
		cfg.Telemetry.MetricsExportInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	var missing []string
	required := []struct {
		key   string
		value string
	}{
		{"shopify.store_domain", c.Shopify.StoreDomain},
		{"shopify.storefront_token", c.Shopify.StorefrontToken},
		{"payments.stripe_public_key", c.Payments.StripePublicKey},
		{"payments.coinbase_app_id", c.Payments.CoinbaseAppID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if strings.Contains(c.Shopify.StoreDomain, "/") {
		return fmt.Errorf("shopify.store_domain must be a bare host name, got %q", c.Shopify.StoreDomain)
	}
	if c.Shopify.RequestTimeout < 0 {
		return fmt.Errorf("shopify.request_timeout cannot be negative")
	}
	switch c.Shopify.CheckoutAPI {
	case CheckoutAPICart, CheckoutAPICheckout:
	default:
		return fmt.Errorf("shopify.checkout_api must be %q or %q, got %q", CheckoutAPICart, CheckoutAPICheckout, c.Shopify.CheckoutAPI)
	}
	switch c.Cart.Backend {
	case CartBackendMemory, CartBackendRedis:
	default:
		return fmt.Errorf("cart.backend must be %q or %q, got %q", CartBackendMemory, CartBackendRedis, c.Cart.Backend)
	}
	switch strings.ToLower(c.Cookie.SameSite) {
	case "strict", "lax", "none":
	default:
		return fmt.Errorf("cookie.same_site must be strict, lax or none, got %q", c.Cookie.SameSite)
	}
	if strings.EqualFold(c.Cookie.SameSite, "none") && !c.Cookie.Secure {
		return fmt.Errorf("cookie.same_site=none requires cookie.secure=true")
	}

	if c.App.Env == "production" {
		if !c.Cookie.Secure {
			return fmt.Errorf("cookie.secure must be true in production (HTTPS required for secure cookies)")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}
