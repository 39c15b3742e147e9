package cart

import (
	"context"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// Cart mutation names recorded on spans and storefront_cart_mutations_total
const (
	OpAddItem        = "add_item"
	OpUpdateQuantity = "update_quantity"
	OpRemoveItem     = "remove_item"
	OpClear          = "clear"
	OpClearSubmitted = "clear_submitted"
)

// Store is the session-scoped cart state container
type Store interface {
	// Get returns the session's current cart
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	// AddItem merges the item into the session's cart
	AddItem(ctx context.Context, sessionID string, item cart.LineItem) (*cart.Cart, error)
	// UpdateQuantity sets an item's quantity; below 1 removes it
	UpdateQuantity(ctx context.Context, sessionID, variantID string, quantity int) (*cart.Cart, error)
	// RemoveItem deletes an item if present
	RemoveItem(ctx context.Context, sessionID, variantID string) (*cart.Cart, error)
	// Clear empties the session's cart
	Clear(ctx context.Context, sessionID string) (*cart.Cart, error)
	// ClearSubmitted takes a checked-out snapshot's items off the cart
	ClearSubmitted(ctx context.Context, sessionID string, submitted cart.Snapshot) (*cart.Cart, error)
	// Total returns the cart total without modifying the cart
	Total(ctx context.Context, sessionID string) (valueobject.Money, error)
}

// Service implements Store on a cart repository. Every completed mutation
// publishes its cart.changed events before returning.
type Service struct {
	repo      cart.Repository
	publisher shared.EventPublisher
	logger    *zap.Logger
	metrics   *telemetry.StorefrontMetrics
}

// NewService creates a new cart Service
func NewService(repo cart.Repository, publisher shared.EventPublisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// SetStorefrontMetrics sets the metrics recorder for cart mutations
func (s *Service) SetStorefrontMetrics(m *telemetry.StorefrontMetrics) {
	s.metrics = m
}

// Get returns the session's current cart
func (s *Service) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return s.repo.Get(ctx, sessionID)
}

// AddItem merges the item into the session's cart
func (s *Service) AddItem(ctx context.Context, sessionID string, item cart.LineItem) (*cart.Cart, error) {
	if item.VariantID == "" {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant identifier is required")
	}
	return s.mutate(ctx, sessionID, OpAddItem, func(c *cart.Cart) error {
		return c.AddItem(item)
	}, telemetry.SpanAttrVariantID, item.VariantID, telemetry.SpanAttrQuantity, item.Quantity)
}

// UpdateQuantity sets an item's quantity; a quantity below 1 removes it
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, variantID string, quantity int) (*cart.Cart, error) {
	return s.mutate(ctx, sessionID, OpUpdateQuantity, func(c *cart.Cart) error {
		c.UpdateQuantity(variantID, quantity)
		return nil
	}, telemetry.SpanAttrVariantID, variantID, telemetry.SpanAttrQuantity, quantity)
}

// RemoveItem deletes an item if present
func (s *Service) RemoveItem(ctx context.Context, sessionID, variantID string) (*cart.Cart, error) {
	return s.mutate(ctx, sessionID, OpRemoveItem, func(c *cart.Cart) error {
		c.RemoveItem(variantID)
		return nil
	}, telemetry.SpanAttrVariantID, variantID)
}

// Clear empties the session's cart
func (s *Service) Clear(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return s.mutate(ctx, sessionID, OpClear, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// ClearSubmitted empties the cart if it is still at the submitted version,
// otherwise it removes only the submitted quantities
func (s *Service) ClearSubmitted(ctx context.Context, sessionID string, submitted cart.Snapshot) (*cart.Cart, error) {
	return s.mutate(ctx, sessionID, OpClearSubmitted, func(c *cart.Cart) error {
		c.ClearSubmitted(submitted.Version, submitted.Items)
		return nil
	}, telemetry.SpanAttrCartVersion, submitted.Version)
}

// Total returns the cart total
func (s *Service) Total(ctx context.Context, sessionID string) (valueobject.Money, error) {
	c, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return valueobject.Money{}, err
	}
	return c.Total(), nil
}

// mutate runs fn atomically, then publishes the resulting events
func (s *Service) mutate(ctx context.Context, sessionID, op string, fn cart.MutateFunc, attrs ...interface{}) (*cart.Cart, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", op,
		telemetry.WithAttribute(telemetry.SpanAttrSessionID, sessionID),
	)
	defer span.End()
	telemetry.SetAttributes(span, attrs...)

	c, err := s.repo.Update(ctx, sessionID, fn)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	events := c.GetDomainEvents()
	c.ClearDomainEvents()
	if len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish cart events",
				zap.String("session_id", sessionID),
				zap.String("operation", op),
				zap.Error(err),
			)
		}
		if s.metrics != nil {
			s.metrics.RecordCartMutation(ctx, op)
		}
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrCartVersion, c.Version)
	telemetry.SetOK(span)
	return c, nil
}

// Ensure Service implements Store
var _ Store = (*Service)(nil)
