// Command checkoutsmoke runs the live checkout flow once against the configured shop:
// it takes the first catalog product, picks an available variant and prints the
// checkout URL created for one unit of it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/shopify"
)

func main() {
	var (
		configPath string
		logLevel   string
		timeout    time.Duration
	)

	flag.StringVar(&configPath, "config", "", "Path to config file (default: search ./config.toml)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall deadline for the run")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	url, err := run(ctx, cfg, log)
	if err != nil {
		log.Error("Checkout smoke test failed", zap.Error(err))
		os.Exit(1)
	}
	fmt.Println(url)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) (string, error) {
	shopifyCfg := shopify.NewConfig(cfg.Shopify.StoreDomain, cfg.Shopify.StorefrontToken)
	shopifyCfg.APIVersion = cfg.Shopify.APIVersion
	shopifyCfg.RequestTimeout = cfg.Shopify.RequestTimeout
	shopifyCfg.CheckoutAPI = storefront.Generation(cfg.Shopify.CheckoutAPI)

	client, err := shopify.NewClient(shopifyCfg, log)
	if err != nil {
		return "", err
	}
	checkoutClient, err := shopify.NewCheckoutClient(client, shopifyCfg.CheckoutAPI, log)
	if err != nil {
		return "", err
	}

	page, err := shopify.NewCatalogClient(client, log).ListProducts(ctx, 1, "")
	if err != nil {
		return "", fmt.Errorf("list products: %w", err)
	}
	if len(page.Products) == 0 {
		return "", storefront.ErrProductNotFound
	}
	product := page.Products[0]

	variant, ok := product.FirstAvailableVariant()
	if !ok {
		return "", fmt.Errorf("%s: %w", product.Handle, storefront.ErrNoAvailableVariant)
	}
	variantID, err := variant.CartID()
	if err != nil {
		return "", err
	}
	log.Info("Creating checkout",
		zap.String("product", product.Handle),
		zap.String("variant_id", variantID),
		zap.String("generation", shopifyCfg.CheckoutAPI.String()),
	)

	item := cart.NewLineItem(variantID, product.Title, variant.Price, 1)

	session, err := checkoutapp.NewAssembler(checkoutClient, log).Assemble(ctx, []cart.LineItem{item})
	if err != nil {
		return "", fmt.Errorf("create checkout: %w", err)
	}
	return session.WebURL, nil
}
