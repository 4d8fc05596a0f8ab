// Package serializer builds the outbound per-line payload records of a
// checkout, for delivery to webhook subscribers.
package serializer

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sanket-jethava/saleor/domain"
)

// IDEncoder turns internal raw ids into opaque, type-scoped global ids.
type IDEncoder interface {
	Encode(typeName string, rawID any) string
}

// VariantPriceRequest carries the pricing inputs of one variant. When
// PriceOverride is set it takes precedence over the catalog listing.
type VariantPriceRequest struct {
	Variant        domain.ProductVariant
	Collections    []domain.Collection
	Channel        domain.Channel
	ChannelListing domain.ChannelListing
	Discounts      []domain.DiscountInfo
	PriceOverride  *decimal.Decimal
}

// PriceQuoter computes a variant's undiscounted unit price in the channel's
// currency. Implementations may cache; this package never does.
type PriceQuoter interface {
	GetVariantPrice(ctx context.Context, req VariantPriceRequest) (domain.Money, error)
}

// LineUnitPriceQuoter returns the tax-applied unit prices of one checkout
// line. May perform remote I/O (tax service, plugin hooks); failures are
// propagated unchanged by this package.
type LineUnitPriceQuoter interface {
	GetCheckoutLineUnitPrice(
		ctx context.Context,
		checkoutInfo domain.CheckoutInfo,
		lines []domain.CheckoutLineInfo,
		line domain.CheckoutLineInfo,
		discounts []domain.DiscountInfo,
	) (domain.LineUnitPrice, error)
}

// DiscountProvider supplies the currently active discount context. Only the
// tax-exclusive serialization flavor uses it; the tax-inclusive flavor takes
// the caller's discounts as a parameter.
type DiscountProvider interface {
	CurrentDiscounts(ctx context.Context) ([]domain.DiscountInfo, error)
}

type CheckoutLinesSerializer struct {
	ids        IDEncoder
	prices     PriceQuoter
	unitPrices LineUnitPriceQuoter
	discounts  DiscountProvider
}

func NewCheckoutLinesSerializer(
	ids IDEncoder,
	prices PriceQuoter,
	unitPrices LineUnitPriceQuoter,
	discounts DiscountProvider,
) *CheckoutLinesSerializer {
	return &CheckoutLinesSerializer{
		ids:        ids,
		prices:     prices,
		unitPrices: unitPrices,
		discounts:  discounts,
	}
}
