package domain

import "github.com/shopspring/decimal"

type Channel struct {
	ID           int64
	Slug         string
	CurrencyCode string
}

type Checkout struct {
	ID       string // uuid
	Currency string
	Channel  Channel
}

// CheckoutLine is one quantity of one variant in a checkout.
// UnitPriceWithDiscounts is precomputed upstream (pre-tax).
type CheckoutLine struct {
	ID                     int64
	Quantity               int
	PriceOverride          *decimal.Decimal
	UnitPriceWithDiscounts TaxedMoney
}

// CheckoutLineInfo bundles a line with the catalog state needed to price and
// serialize it. All fields are read-only inputs.
type CheckoutLineInfo struct {
	Line           CheckoutLine
	Variant        ProductVariant
	ChannelListing ChannelListing
	Collections    []Collection
}

type CheckoutInfo struct {
	Checkout Checkout
	Channel  Channel
}

// DiscountInfo describes one active promotional rule. The serializer passes
// these through to the pricing collaborators untouched.
type DiscountInfo struct {
	SaleID       int64
	Type         string
	Value        decimal.Decimal
	CollectionID *int64
	ProductIDs   []int64
}
