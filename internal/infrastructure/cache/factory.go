package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// Stores is the session state used by the cart and checkout services
type Stores struct {
	Carts  cart.Repository
	Guard  shared.SubmissionGuard
	closer func() error
	ping   func(ctx context.Context) error
}

// Ping checks that the backing store is reachable. In-memory stores always are.
func (s *Stores) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the stores and any shared Redis client
func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// StoreFactory creates session stores based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	cartConfig            config.CartConfig
	currency              valueobject.Currency
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable
// Default is false: a configured Redis backend must be reachable
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(redisCfg config.RedisConfig, cartCfg config.CartConfig, currency valueobject.Currency, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig: redisCfg,
		cartConfig:  cartCfg,
		currency:    currency,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateInMemoryStores creates process-local stores
// WARNING: In-memory stores do not share state across process instances,
// so a session must stick to one instance
func (f *StoreFactory) CreateInMemoryStores() *Stores {
	carts := NewInMemoryCartRepository(f.currency, f.cartConfig.SessionTTL)
	guard := NewInMemorySubmissionGuard()
	return &Stores{
		Carts: carts,
		Guard: guard,
		closer: func() error {
			_ = guard.Close()
			return carts.Close()
		},
	}
}

// CreateRedisStores connects to Redis and creates stores sharing one client
func (f *StoreFactory) CreateRedisStores(ctx context.Context) (*Stores, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Stores{
		Carts:  NewRedisCartRepository(client, f.cartConfig.KeyPrefix, f.currency, f.cartConfig.SessionTTL),
		Guard:  NewRedisSubmissionGuard(client, f.cartConfig.KeyPrefix),
		closer: client.Close,
		ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}, nil
}

// CreateStores creates stores for the configured cart backend
// A Redis backend falls back to in-memory stores only when fallback is allowed
func (f *StoreFactory) CreateStores(ctx context.Context) (*Stores, error) {
	if f.cartConfig.Backend != config.CartBackendRedis {
		f.logger.Info("Using in-memory cart store")
		return f.CreateInMemoryStores(), nil
	}

	stores, err := f.CreateRedisStores(ctx)
	if err == nil {
		f.logger.Info("Using Redis cart store", zap.String("addr", f.redisConfig.Addr()))
		return stores, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis cart store unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cart store. "+
		"Carts will not be shared across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryStores(), nil
}
