package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	_ "github.com/storefront/backend/docs"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/shopify"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

// checkoutsPerMinute bounds checkout submissions per session
const checkoutsPerMinute = 10

//	@title			Storefront Backend API
//	@version		1.0
//	@description	Cart, catalog and checkout API in front of a hosted commerce platform

//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Storefront Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("checkout_api", cfg.Shopify.CheckoutAPI),
	)

	locale, err := language.Parse(cfg.Store.Locale)
	if err != nil {
		log.Fatal("Invalid store locale", zap.String("locale", cfg.Store.Locale), zap.Error(err))
	}
	currency, err := valueobject.ParseCurrency(cfg.Store.Currency)
	if err != nil {
		log.Fatal("Invalid store currency", zap.String("currency", cfg.Store.Currency), zap.Error(err))
	}

	// Telemetry
	providers, err := telemetry.Setup(context.Background(), telemetry.Config{
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Traces:            cfg.Telemetry.Enabled,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		Metrics:           cfg.Telemetry.MetricsEnabled,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		Logs:              cfg.Telemetry.LogsEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	log = providers.WithLogExport(log, logger.ParseLevel(cfg.Log.Level))

	storefrontMetrics, err := telemetry.NewStorefrontMetrics(telemetry.StorefrontMetricsConfig{
		Meter:  providers.Meter("storefront"),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to initialize storefront metrics", zap.Error(err))
	}

	// Cart and submission guard storage
	stores, err := cache.NewStoreFactory(cfg.Redis, cfg.Cart, currency, cache.WithLogger(log)).
		CreateStores(context.Background())
	if err != nil {
		log.Fatal("Failed to initialize cart storage", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cart storage", zap.Error(err))
		}
	}()
	log.Info("Cart storage ready", zap.String("backend", cfg.Cart.Backend))

	// Commerce platform clients
	shopifyCfg := shopify.NewConfig(cfg.Shopify.StoreDomain, cfg.Shopify.StorefrontToken)
	shopifyCfg.APIVersion = cfg.Shopify.APIVersion
	shopifyCfg.RequestTimeout = cfg.Shopify.RequestTimeout
	shopifyCfg.CheckoutAPI = storefront.Generation(cfg.Shopify.CheckoutAPI)

	shopifyClient, err := shopify.NewClient(shopifyCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize Shopify client", zap.Error(err))
	}
	shopifyClient.SetStorefrontMetrics(storefrontMetrics)

	catalogClient := shopify.NewCatalogClient(shopifyClient, log)
	checkoutClient, err := shopify.NewCheckoutClient(shopifyClient, shopifyCfg.CheckoutAPI, log)
	if err != nil {
		log.Fatal("Failed to initialize checkout client", zap.Error(err))
	}

	// Event bus carries cart changes to stream subscribers
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	cartService := cartapp.NewService(stores.Carts, eventBus, log)
	cartService.SetStorefrontMetrics(storefrontMetrics)
	cartWatcher := cartapp.NewWatcher(eventBus)

	catalogService := catalogapp.NewService(catalogClient, locale, log)

	checkoutService := checkoutapp.NewService(
		cartService,
		checkoutapp.NewAssembler(checkoutClient, log),
		stores.Guard,
		shared.SubmissionGuardConfig{TTL: cfg.Checkout.GuardTTL},
		log,
	)
	checkoutService.SetStorefrontMetrics(storefrontMetrics)

	// Initialize HTTP handlers
	cartHandler := handler.NewCartHandler(cartService, cartWatcher,
		handler.WithCartLogger(log),
		handler.WithCartLocale(locale),
		handler.WithCartCurrency(currency),
		handler.WithStreamHeartbeat(cfg.HTTP.StreamHeartbeat),
		handler.WithCartMetrics(storefrontMetrics),
	)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, stores)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. Tracing - Start the server span
	// 2. RequestID - Generate/propagate request ID
	// 3. Recovery - Recover from panics
	// 4. Logger - Log requests
	// 5. Secure - Security headers
	// 6. CORS - Cross-origin requests from the front end
	// 7. BodyLimit - Reject oversized bodies
	// 8. HTTPMetrics - Request counters and latency
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     providers.TracingEnabled(),
	}))
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	var apiMeter metric.Meter
	if providers.MetricsEnabled() {
		apiMeter = providers.Meter("http.server")
	}
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		Meter:  apiMeter,
		Logger: log,
	}))
	engine.Use(middleware.SpanErrorMarker())

	engine.GET("/health", systemHandler.Health)

	checkoutLimiter := middleware.NewRateLimiter(checkoutsPerMinute, time.Minute)
	defer checkoutLimiter.Close()

	// API routes carry the session cookie so cart and checkout share it
	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithDocs(cfg.App.Env != "production"),
	).
		Use(
			middleware.Session(middleware.SessionConfigFrom(cfg.Cookie, cfg.Cart.SessionTTL)),
			middleware.TracingAttributeInjector(),
		)
	r.Register(router.StorefrontGroups(router.Handlers{
		Catalog:       handler.NewCatalogHandler(catalogService),
		Cart:          cartHandler,
		Checkout:      handler.NewCheckoutHandler(checkoutService),
		Storefront:    handler.NewStorefrontHandler(cfg),
		System:        systemHandler,
		CheckoutLimit: middleware.RateLimitBySession(checkoutLimiter),
	})...)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}
	// Open cart streams would otherwise hold Shutdown until its deadline
	srv.RegisterOnShutdown(cartHandler.Close)

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...", zap.Int("open_streams", cartHandler.StreamCount()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
