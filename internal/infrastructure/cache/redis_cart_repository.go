package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// DefaultUpdateRetries is how many optimistic transactions Update attempts before giving up
const DefaultUpdateRetries = 10

// RedisCartRepository implements cart.Repository using Redis.
// Each cart is a JSON value whose TTL is the session lifetime, refreshed on every write.
// Update runs as a WATCH/MULTI optimistic transaction so concurrent writers
// from several instances never lose each other's changes.
type RedisCartRepository struct {
	client     *redis.Client
	keyPrefix  string
	currency   valueobject.Currency
	ttl        time.Duration
	maxRetries int
}

// NewRedisCartRepository creates a cart repository on an existing Redis client
func NewRedisCartRepository(client *redis.Client, keyPrefix string, currency valueobject.Currency, ttl time.Duration) *RedisCartRepository {
	if keyPrefix == "" {
		keyPrefix = "storefront:"
	}
	return &RedisCartRepository{
		client:     client,
		keyPrefix:  keyPrefix,
		currency:   currency,
		ttl:        ttl,
		maxRetries: DefaultUpdateRetries,
	}
}

// Get returns the session's cart, or an empty cart if none exists
func (r *RedisCartRepository) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	return r.decode(sessionID, data, err)
}

// Update applies fn inside an optimistic transaction, retrying when the key
// changed between read and write
func (r *RedisCartRepository) Update(ctx context.Context, sessionID string, fn cart.MutateFunc) (*cart.Cart, error) {
	key := r.key(sessionID)

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		var updated *cart.Cart

		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			c, err := r.decode(sessionID, data, err)
			if err != nil {
				return err
			}
			if err := fn(c); err != nil {
				return err
			}

			payload, err := json.Marshal(c)
			if err != nil {
				return fmt.Errorf("cache: failed to encode cart: %w", err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, r.ttl)
				return nil
			})
			if err == nil {
				updated = c
			}
			return err
		}, key)

		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, cart.ErrConcurrentModification
}

func (r *RedisCartRepository) key(sessionID string) string {
	return r.keyPrefix + "cart:" + sessionID
}

// decode turns a GET result into a cart; a missing key yields an empty cart
func (r *RedisCartRepository) decode(sessionID string, data []byte, err error) (*cart.Cart, error) {
	if errors.Is(err, redis.Nil) {
		return cart.NewCartAt(sessionID, r.currency, time.Now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: failed to load cart: %w", err)
	}

	c := cart.NewCart(sessionID, r.currency)
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("cache: failed to decode cart: %w", err)
	}
	if c.Items == nil {
		c.Items = make([]cart.LineItem, 0)
	}
	return c, nil
}

// Ensure RedisCartRepository implements cart.Repository
var _ cart.Repository = (*RedisCartRepository)(nil)
