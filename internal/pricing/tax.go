package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sanket-jethava/saleor/domain"
	"github.com/sanket-jethava/saleor/internal/money"
)

// FlatRateTaxQuoter is a LineUnitPriceQuoter applying one tax rate to every
// line. Deployments with a real tax engine inject their own quoter instead.
type FlatRateTaxQuoter struct {
	Rate decimal.Decimal // e.g. 0.20 for 20%
}

func (q FlatRateTaxQuoter) GetCheckoutLineUnitPrice(
	_ context.Context,
	checkoutInfo domain.CheckoutInfo,
	_ []domain.CheckoutLineInfo,
	line domain.CheckoutLineInfo,
	_ []domain.DiscountInfo,
) (domain.LineUnitPrice, error) {
	currency := checkoutInfo.Checkout.Currency

	saleNet := line.ChannelListing.DiscountedPrice
	if line.Line.PriceOverride != nil {
		saleNet = *line.Line.PriceOverride
	}

	priceWithSale, err := q.taxedPair(saleNet, currency)
	if err != nil {
		return domain.LineUnitPrice{}, fmt.Errorf("failed to price line %d: %w", line.Line.ID, err)
	}

	priceWithDiscounts, err := q.taxedPair(line.Line.UnitPriceWithDiscounts.Net.Amount, currency)
	if err != nil {
		return domain.LineUnitPrice{}, fmt.Errorf("failed to price line %d: %w", line.Line.ID, err)
	}

	return domain.LineUnitPrice{
		PriceWithSale:      priceWithSale,
		PriceWithDiscounts: priceWithDiscounts,
	}, nil
}

func (q FlatRateTaxQuoter) taxedPair(net decimal.Decimal, currency string) (domain.TaxedMoney, error) {
	quantizedNet, err := money.Quantize(net, currency)
	if err != nil {
		return domain.TaxedMoney{}, err
	}
	gross, err := money.Quantize(net.Mul(decimal.NewFromInt(1).Add(q.Rate)), currency)
	if err != nil {
		return domain.TaxedMoney{}, err
	}
	return domain.TaxedMoney{
		Net:   domain.Money{Amount: quantizedNet, Currency: currency},
		Gross: domain.Money{Amount: gross, Currency: currency},
	}, nil
}

// StaticDiscountProvider serves a fixed discount context. An empty provider
// means no promotions are active.
type StaticDiscountProvider struct {
	Discounts []domain.DiscountInfo
}

func (p StaticDiscountProvider) CurrentDiscounts(context.Context) ([]domain.DiscountInfo, error) {
	return p.Discounts, nil
}
