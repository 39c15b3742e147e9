package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/storefront"
)

// MockCheckoutCreator is a mock implementation of storefront.CheckoutCreator
type MockCheckoutCreator struct {
	mock.Mock
}

func (m *MockCheckoutCreator) CreateCheckout(ctx context.Context, lines []storefront.CheckoutLine) (*storefront.CheckoutSession, error) {
	args := m.Called(ctx, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.CheckoutSession), args.Error(1)
}

func lineItem(id string, quantity int) cart.LineItem {
	price, _ := valueobject.NewMoneyFromString("10.00", valueobject.USD)
	item := cart.NewLineItem(id, "Item "+id, price, 1)
	item.Quantity = quantity
	return item
}

func TestAssembler_EmptyCartMakesNoCall(t *testing.T) {
	creator := new(MockCheckoutCreator)
	assembler := NewAssembler(creator, nil)

	_, err := assembler.Assemble(context.Background(), nil)

	var emptyErr *storefront.EmptyCartError
	assert.ErrorAs(t, err, &emptyErr)
	creator.AssertNotCalled(t, "CreateCheckout", mock.Anything, mock.Anything)
}

func TestAssembler_InvalidItemsMakeNoCall(t *testing.T) {
	creator := new(MockCheckoutCreator)
	assembler := NewAssembler(creator, nil)

	items := []cart.LineItem{
		lineItem("1", 1),
		lineItem("2", 0),
		lineItem("", 3),
		lineItem("4", -2),
	}
	_, err := assembler.Assemble(context.Background(), items)

	var invalidErr *storefront.InvalidLineItemError
	require.ErrorAs(t, err, &invalidErr)
	require.Len(t, invalidErr.Items, 3)
	assert.Equal(t, 1, invalidErr.Items[0].Index)
	assert.Equal(t, "2", invalidErr.Items[0].VariantID)
	assert.Equal(t, 2, invalidErr.Items[1].Index)
	assert.Equal(t, "missing variant identifier", invalidErr.Items[1].Reason)
	assert.Equal(t, -2, invalidErr.Items[2].Quantity)
	creator.AssertNotCalled(t, "CreateCheckout", mock.Anything, mock.Anything)
}

func TestAssembler_EncodesVariantReferences(t *testing.T) {
	creator := new(MockCheckoutCreator)
	creator.On("CreateCheckout", mock.Anything, []storefront.CheckoutLine{
		{MerchandiseID: "Z2lkOi8vc2hvcGlmeS9Qcm9kdWN0VmFyaWFudC80NDcxMzIxMzY0MA==", Quantity: 2},
		{MerchandiseID: storefront.EncodeVariantGID("gid://shopify/ProductVariant/7"), Quantity: 1},
	}).Return(&storefront.CheckoutSession{ID: "c1", WebURL: "https://x/y", Generation: storefront.GenerationCart}, nil)

	assembler := NewAssembler(creator, nil)
	session, err := assembler.Assemble(context.Background(), []cart.LineItem{
		lineItem("44713213640", 2),
		lineItem("gid://shopify/ProductVariant/7", 1),
	})

	require.NoError(t, err)
	assert.Equal(t, "https://x/y", session.WebURL)
	creator.AssertExpectations(t)
}

func TestAssembler_RejectedCheckoutCarriesMessages(t *testing.T) {
	creator := new(MockCheckoutCreator)
	rejected := storefront.NewCheckoutRejectedError([]storefront.UserError{
		{Field: []string{"input", "lines"}, Message: "The merchandise with id 1 does not exist."},
	})
	creator.On("CreateCheckout", mock.Anything, mock.Anything).Return(nil, rejected)

	assembler := NewAssembler(creator, nil)
	_, err := assembler.Assemble(context.Background(), []cart.LineItem{lineItem("1", 1)})

	var rejectedErr *storefront.CheckoutRejectedError
	require.ErrorAs(t, err, &rejectedErr)
	assert.Equal(t, []string{"The merchandise with id 1 does not exist."}, rejectedErr.Messages)
}

func TestAssembler_EmptyURLIsRejected(t *testing.T) {
	creator := new(MockCheckoutCreator)
	creator.On("CreateCheckout", mock.Anything, mock.Anything).Return(&storefront.CheckoutSession{ID: "c1"}, nil)

	assembler := NewAssembler(creator, nil)
	_, err := assembler.Assemble(context.Background(), []cart.LineItem{lineItem("1", 1)})

	var rejectedErr *storefront.CheckoutRejectedError
	assert.ErrorAs(t, err, &rejectedErr)
}

func TestBuildLines_IsDeterministic(t *testing.T) {
	items := []cart.LineItem{lineItem("1", 1), lineItem("2", 5)}

	first, err := BuildLines(items)
	require.NoError(t, err)
	second, err := BuildLines(items)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 5, first[1].Quantity)
}
