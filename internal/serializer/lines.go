package serializer

import (
	"context"
	"fmt"

	"github.com/sanket-jethava/saleor/domain"
	"github.com/sanket-jethava/saleor/internal/money"
)

// buildLinePayload assembles the canonical per-line record shared by both
// payload flavors. All monetary fields are quantized to the channel currency.
func (s *CheckoutLinesSerializer) buildLinePayload(
	ctx context.Context,
	channel domain.Channel,
	lineInfo domain.CheckoutLineInfo,
	discounts []domain.DiscountInfo,
) (domain.LinePayload, error) {
	currency := channel.CurrencyCode
	variant := lineInfo.Variant
	product := variant.Product

	basePrice, err := s.resolveBasePrice(ctx, channel, lineInfo, discounts)
	if err != nil {
		return domain.LinePayload{}, err
	}

	basePriceStr, err := money.QuantizeToString(basePrice.Amount, currency)
	if err != nil {
		return domain.LinePayload{}, fmt.Errorf("failed to quantize base price of line %d: %w", lineInfo.Line.ID, err)
	}

	var priceOverride *string
	if lineInfo.Line.PriceOverride != nil {
		quantized, err := money.QuantizeToString(*lineInfo.Line.PriceOverride, currency)
		if err != nil {
			return domain.LinePayload{}, fmt.Errorf("failed to quantize price override of line %d: %w", lineInfo.Line.ID, err)
		}
		priceOverride = &quantized
	}

	return domain.LinePayload{
		ID:                  s.ids.Encode("CheckoutLine", lineInfo.Line.ID),
		SKU:                 variant.SKU,
		VariantID:           s.ids.Encode("ProductVariant", variant.ID),
		Quantity:            lineInfo.Line.Quantity,
		ChargeTaxes:         product.ChargeTaxes,
		BasePrice:           basePriceStr,
		Currency:            currency,
		FullName:            variant.DisplayName(),
		ProductName:         product.Name,
		VariantName:         variant.Name,
		Attributes:          SerializeAttributes(variant.Attributes, s.ids),
		ProductMetadata:     product.Metadata,
		ProductTypeMetadata: product.ProductType.Metadata,
		PriceOverride:       priceOverride,
	}, nil
}

// SerializeWithTaxes produces one tax-inclusive record per checkout line, in
// input order. The first failing line aborts the whole batch.
func (s *CheckoutLinesSerializer) SerializeWithTaxes(
	ctx context.Context,
	checkoutInfo domain.CheckoutInfo,
	lines []domain.CheckoutLineInfo,
	discounts []domain.DiscountInfo,
) ([]domain.TaxedLinePayload, error) {
	channel := checkoutInfo.Channel
	currency := channel.CurrencyCode
	data := make([]domain.TaxedLinePayload, 0, len(lines))

	for _, lineInfo := range lines {
		unitPrice, err := s.resolveUnitPrice(ctx, checkoutInfo, lines, lineInfo, discounts)
		if err != nil {
			return nil, err
		}

		base, err := s.buildLinePayload(ctx, channel, lineInfo, discounts)
		if err != nil {
			return nil, err
		}

		// The quoter already returns currency-correct precision, so these
		// four amounts are formatted, not re-quantized.
		record := domain.TaxedLinePayload{LinePayload: base}
		record.PriceNetAmount, err = money.FormatAmount(unitPrice.PriceWithSale.Net.Amount, currency)
		if err != nil {
			return nil, fmt.Errorf("failed to format unit price of line %d: %w", lineInfo.Line.ID, err)
		}
		record.PriceGrossAmount, err = money.FormatAmount(unitPrice.PriceWithSale.Gross.Amount, currency)
		if err != nil {
			return nil, fmt.Errorf("failed to format unit price of line %d: %w", lineInfo.Line.ID, err)
		}
		record.PriceWithDiscountsNetAmount, err = money.FormatAmount(unitPrice.PriceWithDiscounts.Net.Amount, currency)
		if err != nil {
			return nil, fmt.Errorf("failed to format unit price of line %d: %w", lineInfo.Line.ID, err)
		}
		record.PriceWithDiscountsGrossAmount, err = money.FormatAmount(unitPrice.PriceWithDiscounts.Gross.Amount, currency)
		if err != nil {
			return nil, fmt.Errorf("failed to format unit price of line %d: %w", lineInfo.Line.ID, err)
		}

		data = append(data, record)
	}

	return data, nil
}

// SerializeWithoutTaxes produces one tax-exclusive record per checkout line,
// in input order. The discount context comes from the injected provider and
// the line's precomputed discounted unit price is reported under the caller's
// gross-vs-net convention.
func (s *CheckoutLinesSerializer) SerializeWithoutTaxes(
	ctx context.Context,
	checkout domain.Checkout,
	lines []domain.CheckoutLineInfo,
	useGrossAsBase bool,
) ([]domain.UntaxedLinePayload, error) {
	discounts, err := s.discounts.CurrentDiscounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active discounts: %w", err)
	}

	data := make([]domain.UntaxedLinePayload, 0, len(lines))
	for _, lineInfo := range lines {
		base, err := s.buildLinePayload(ctx, checkout.Channel, lineInfo, discounts)
		if err != nil {
			return nil, err
		}

		amount := domain.BasePrice(lineInfo.Line.UnitPriceWithDiscounts, useGrossAsBase)
		discounted, err := money.QuantizeToString(amount, checkout.Currency)
		if err != nil {
			return nil, fmt.Errorf("failed to quantize discounted price of line %d: %w", lineInfo.Line.ID, err)
		}

		data = append(data, domain.UntaxedLinePayload{
			LinePayload:            base,
			BasePriceWithDiscounts: discounted,
		})
	}

	return data, nil
}
