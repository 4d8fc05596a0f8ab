package serializer

import (
	"context"
	"fmt"

	"github.com/sanket-jethava/saleor/domain"
)

// resolveBasePrice asks the pricing collaborator for the line's undiscounted
// unit price. The returned amount is not quantized here; quantization happens
// where the amount crosses into the payload, against the checkout currency.
func (s *CheckoutLinesSerializer) resolveBasePrice(
	ctx context.Context,
	channel domain.Channel,
	lineInfo domain.CheckoutLineInfo,
	discounts []domain.DiscountInfo,
) (domain.Money, error) {
	price, err := s.prices.GetVariantPrice(ctx, VariantPriceRequest{
		Variant:        lineInfo.Variant,
		Collections:    lineInfo.Collections,
		Channel:        channel,
		ChannelListing: lineInfo.ChannelListing,
		Discounts:      discounts,
		PriceOverride:  lineInfo.Line.PriceOverride,
	})
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to quote variant %d price: %w", lineInfo.Variant.ID, err)
	}
	return price, nil
}

// resolveUnitPrice asks the tax/discount collaborator for the line's
// tax-applied unit prices. This call may block on remote I/O; its failures
// surface unchanged to the serialize caller.
func (s *CheckoutLinesSerializer) resolveUnitPrice(
	ctx context.Context,
	checkoutInfo domain.CheckoutInfo,
	lines []domain.CheckoutLineInfo,
	lineInfo domain.CheckoutLineInfo,
	discounts []domain.DiscountInfo,
) (domain.LineUnitPrice, error) {
	unitPrice, err := s.unitPrices.GetCheckoutLineUnitPrice(ctx, checkoutInfo, lines, lineInfo, discounts)
	if err != nil {
		return domain.LineUnitPrice{}, fmt.Errorf("failed to quote line %d unit price: %w", lineInfo.Line.ID, err)
	}
	return unitPrice, nil
}
