package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

type checkoutFixture struct {
	carts   *cartapp.Service
	creator *MockCheckoutCreator
	guard   *cache.InMemorySubmissionGuard
	service *Service
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	repo := cache.NewInMemoryCartRepository(valueobject.USD, 0)
	guard := cache.NewInMemorySubmissionGuard()
	t.Cleanup(func() {
		_ = repo.Close()
		_ = guard.Close()
	})

	carts := cartapp.NewService(repo, event.NewInMemoryEventBus(zap.NewNop()), zap.NewNop())
	creator := new(MockCheckoutCreator)
	service := NewService(carts, NewAssembler(creator, nil), guard, shared.DefaultSubmissionGuardConfig(), zap.NewNop())

	return &checkoutFixture{carts: carts, creator: creator, guard: guard, service: service}
}

func (f *checkoutFixture) addItems(t *testing.T, sessionID string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, sessionID, lineItem("1", 1))
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, sessionID, lineItem("2", 2))
	require.NoError(t, err)
}

func TestService_Checkout_ClearsAfterNavigation(t *testing.T) {
	f := newCheckoutFixture(t)
	f.addItems(t, "s1")
	f.creator.On("CreateCheckout", mock.Anything, mock.Anything).
		Return(&storefront.CheckoutSession{ID: "c1", WebURL: "https://x/y", Generation: storefront.GenerationCart}, nil)

	var navigatedTo string
	url, err := f.service.Checkout(context.Background(), "s1", func(ctx context.Context, url string) error {
		navigatedTo = url
		c, err := f.carts.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Len(t, c.Items, 2, "cart must still hold its items while navigating")
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "https://x/y", url)
	assert.Equal(t, "https://x/y", navigatedTo)

	c, _ := f.carts.Get(context.Background(), "s1")
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, f.guard.Size(), "guard is released")
}

func TestService_Checkout_KeepsItemsAddedDuringSubmission(t *testing.T) {
	f := newCheckoutFixture(t)
	f.addItems(t, "s1")
	f.creator.On("CreateCheckout", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_, err := f.carts.AddItem(context.Background(), "s1", lineItem("3", 1))
			require.NoError(t, err)
		}).
		Return(&storefront.CheckoutSession{ID: "c1", WebURL: "https://x/y"}, nil)

	_, err := f.service.Checkout(context.Background(), "s1", func(ctx context.Context, url string) error {
		return nil
	})
	require.NoError(t, err)

	c, err := f.carts.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, c.Items, 1, "item added mid-flight must survive the clear")
	assert.Equal(t, "3", c.Items[0].VariantID)
}

func TestService_Checkout_FailedNavigationKeepsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.addItems(t, "s1")
	f.creator.On("CreateCheckout", mock.Anything, mock.Anything).
		Return(&storefront.CheckoutSession{ID: "c1", WebURL: "https://x/y"}, nil)

	_, err := f.service.Checkout(context.Background(), "s1", func(ctx context.Context, url string) error {
		return errors.New("client went away")
	})

	assert.ErrorIs(t, err, ErrNavigationFailed)
	c, _ := f.carts.Get(context.Background(), "s1")
	assert.Len(t, c.Items, 2)
}

func TestService_Checkout_RejectedKeepsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.addItems(t, "s1")
	f.creator.On("CreateCheckout", mock.Anything, mock.Anything).Return(nil, storefront.NewCheckoutRejectedError([]storefront.UserError{
		{Message: "Variant 1 is sold out"},
	}))

	navigated := false
	_, err := f.service.Checkout(context.Background(), "s1", func(ctx context.Context, url string) error {
		navigated = true
		return nil
	})

	var rejected *storefront.CheckoutRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, []string{"Variant 1 is sold out"}, rejected.Messages)
	assert.False(t, navigated)

	c, _ := f.carts.Get(context.Background(), "s1")
	assert.Len(t, c.Items, 2)
	assert.Equal(t, 0, f.guard.Size())
}

func TestService_Checkout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.service.Checkout(context.Background(), "s1", func(ctx context.Context, url string) error {
		return nil
	})

	var emptyErr *storefront.EmptyCartError
	assert.ErrorAs(t, err, &emptyErr)
	f.creator.AssertNotCalled(t, "CreateCheckout", mock.Anything, mock.Anything)
}

func TestService_Checkout_ConcurrentSubmissionRejected(t *testing.T) {
	f := newCheckoutFixture(t)
	f.addItems(t, "s1")

	release := make(chan struct{})
	started := make(chan struct{})
	f.creator.On("CreateCheckout", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&storefront.CheckoutSession{ID: "c1", WebURL: "https://x/y"}, nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.service.Checkout(context.Background(), "s1", func(ctx context.Context, url string) error { return nil })
		assert.NoError(t, err)
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first submission did not start")
	}

	_, err := f.service.Checkout(context.Background(), "s1", func(ctx context.Context, url string) error { return nil })
	assert.ErrorIs(t, err, ErrCheckoutInProgress)

	close(release)
	wg.Wait()
	f.creator.AssertNumberOfCalls(t, "CreateCheckout", 1)
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, telemetry.CheckoutOutcomeSuccess},
		{&storefront.EmptyCartError{}, telemetry.CheckoutOutcomeEmptyCart},
		{&storefront.InvalidLineItemError{}, telemetry.CheckoutOutcomeInvalidItems},
		{&storefront.CheckoutRejectedError{}, telemetry.CheckoutOutcomeRejected},
		{&storefront.TransportError{StatusCode: 500}, telemetry.CheckoutOutcomeUpstreamError},
		{&storefront.GraphQLError{}, telemetry.CheckoutOutcomeUpstreamError},
		{&storefront.ConfigurationError{}, telemetry.CheckoutOutcomeUpstreamError},
		{ErrCheckoutInProgress, telemetry.CheckoutOutcomeInProgress},
		{errors.New("other"), telemetry.CheckoutOutcomeError},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}
