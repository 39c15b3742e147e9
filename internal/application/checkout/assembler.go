package checkout

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// Assembler turns cart line items into a single checkout creation request
type Assembler struct {
	creator storefront.CheckoutCreator
	logger  *zap.Logger
}

// NewAssembler creates a new Assembler
func NewAssembler(creator storefront.CheckoutCreator, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{creator: creator, logger: logger}
}

// Assemble validates items, maps them to checkout lines and creates the checkout.
// Nothing is sent to the platform unless every item is valid.
func (a *Assembler) Assemble(ctx context.Context, items []cart.LineItem) (*storefront.CheckoutSession, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "assemble",
		telemetry.WithAttribute(telemetry.SpanAttrLineCount, len(items)),
	)
	defer span.End()

	lines, err := BuildLines(items)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	session, err := a.creator.CreateCheckout(ctx, lines)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if session == nil || session.WebURL == "" {
		err := &storefront.CheckoutRejectedError{Messages: []string{"no checkout URL returned"}}
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrGeneration, session.Generation.String())
	telemetry.SetOK(span)
	return session, nil
}

// BuildLines validates items and maps each to a checkout line with an encoded
// variant reference. It fails with *storefront.EmptyCartError or
// *storefront.InvalidLineItemError listing every offending item.
func BuildLines(items []cart.LineItem) ([]storefront.CheckoutLine, error) {
	if len(items) == 0 {
		return nil, &storefront.EmptyCartError{}
	}

	var invalid []storefront.InvalidLineItem
	for i, item := range items {
		var reason string
		switch {
		case strings.TrimSpace(item.VariantID) == "":
			reason = "missing variant identifier"
		case item.Quantity <= 0:
			reason = "quantity must be greater than zero"
		default:
			continue
		}
		invalid = append(invalid, storefront.InvalidLineItem{
			Index:     i,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			Reason:    reason,
		})
	}
	if len(invalid) > 0 {
		return nil, &storefront.InvalidLineItemError{Items: invalid}
	}

	lines := make([]storefront.CheckoutLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, storefront.CheckoutLine{
			MerchandiseID: storefront.EncodeVariantGID(item.VariantID),
			Quantity:      item.Quantity,
		})
	}
	return lines, nil
}

