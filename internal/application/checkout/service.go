package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

var (
	// ErrCheckoutInProgress is returned when the session already has a submission in flight
	ErrCheckoutInProgress = errors.New("checkout: a submission is already in progress for this cart")
	// ErrNavigationFailed is returned when the redirect to the hosted checkout could not be started
	ErrNavigationFailed = errors.New("checkout: navigation to checkout failed")
)

// Navigator starts sending the browser to the hosted checkout URL.
// The cart is cleared only when it returns nil.
type Navigator func(ctx context.Context, url string) error

// Service runs one checkout submission per session at a time
type Service struct {
	carts     cartapp.Store
	assembler *Assembler
	guard     shared.SubmissionGuard
	guardTTL  time.Duration
	logger    *zap.Logger
	metrics   *telemetry.StorefrontMetrics
}

// NewService creates a new checkout Service
func NewService(carts cartapp.Store, assembler *Assembler, guard shared.SubmissionGuard, cfg shared.SubmissionGuardConfig, logger *zap.Logger) *Service {
	if cfg.TTL <= 0 {
		cfg = shared.DefaultSubmissionGuardConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		carts:     carts,
		assembler: assembler,
		guard:     guard,
		guardTTL:  cfg.TTL,
		logger:    logger,
	}
}

// SetStorefrontMetrics sets the metrics recorder for checkout outcomes
func (s *Service) SetStorefrontMetrics(m *telemetry.StorefrontMetrics) {
	s.metrics = m
}

// Checkout submits the session's cart and hands the checkout URL to navigate.
// A failed checkout or navigation leaves the cart untouched.
func (s *Service) Checkout(ctx context.Context, sessionID string, navigate Navigator) (string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "submit",
		telemetry.WithAttribute(telemetry.SpanAttrSessionID, sessionID),
	)
	defer span.End()

	url, outcome, err := s.submit(ctx, sessionID, navigate)

	telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, outcome)
	if s.metrics != nil {
		s.metrics.RecordCheckout(ctx, outcome)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("Checkout failed",
			zap.String("session_id", sessionID),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		return "", err
	}

	telemetry.SetOK(span)
	s.logger.Info("Checkout submitted", zap.String("session_id", sessionID))
	return url, nil
}

func (s *Service) submit(ctx context.Context, sessionID string, navigate Navigator) (string, string, error) {
	acquired, err := s.guard.Acquire(ctx, sessionID, s.guardTTL)
	if err != nil {
		return "", telemetry.CheckoutOutcomeError, err
	}
	if !acquired {
		return "", telemetry.CheckoutOutcomeInProgress, ErrCheckoutInProgress
	}
	// The guard and cart outlive a client that disconnects mid-request
	detached := context.WithoutCancel(ctx)
	defer func() {
		if err := s.guard.Release(detached, sessionID); err != nil {
			s.logger.Error("Failed to release checkout guard", zap.String("session_id", sessionID), zap.Error(err))
		}
	}()

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return "", telemetry.CheckoutOutcomeError, err
	}
	submitted := c.Snapshot()

	session, err := s.assembler.Assemble(ctx, submitted.Items)
	if err != nil {
		return "", Outcome(err), err
	}

	if err := navigate(ctx, session.WebURL); err != nil {
		return "", telemetry.CheckoutOutcomeNavigationFailed, fmt.Errorf("%w: %v", ErrNavigationFailed, err)
	}

	// Items added while the checkout was in flight stay in the cart
	cleared, err := s.carts.ClearSubmitted(detached, sessionID, submitted)
	if err != nil {
		s.logger.Error("Failed to clear cart after checkout",
			zap.String("session_id", sessionID),
			zap.String("checkout_id", session.ID),
			zap.Error(err),
		)
	} else {
		telemetry.AddEvent(trace.SpanFromContext(ctx), "cart_cleared",
			telemetry.SpanAttrCartVersion, cleared.Version,
		)
	}
	return session.WebURL, telemetry.CheckoutOutcomeSuccess, nil
}

// Outcome classifies a checkout error for metrics and logs
func Outcome(err error) string {
	var (
		emptyErr     *storefront.EmptyCartError
		invalidErr   *storefront.InvalidLineItemError
		rejectedErr  *storefront.CheckoutRejectedError
		transportErr *storefront.TransportError
		graphQLErr   *storefront.GraphQLError
		configErr    *storefront.ConfigurationError
	)
	switch {
	case err == nil:
		return telemetry.CheckoutOutcomeSuccess
	case errors.As(err, &emptyErr):
		return telemetry.CheckoutOutcomeEmptyCart
	case errors.As(err, &invalidErr):
		return telemetry.CheckoutOutcomeInvalidItems
	case errors.As(err, &rejectedErr):
		return telemetry.CheckoutOutcomeRejected
	case errors.As(err, &transportErr), errors.As(err, &graphQLErr), errors.As(err, &configErr),
		errors.Is(err, storefront.ErrInvalidResponse):
		return telemetry.CheckoutOutcomeUpstreamError
	case errors.Is(err, ErrCheckoutInProgress):
		return telemetry.CheckoutOutcomeInProgress
	case errors.Is(err, ErrNavigationFailed):
		return telemetry.CheckoutOutcomeNavigationFailed
	default:
		return telemetry.CheckoutOutcomeError
	}
}
