package domain

import "github.com/shopspring/decimal"

type ProductType struct {
	ID       int64
	Name     string
	Metadata map[string]string
}

type Product struct {
	ID          int64
	Name        string
	ChargeTaxes bool
	Metadata    map[string]string
	ProductType ProductType
}

type Collection struct {
	ID   int64
	Slug string
}

// ChannelListing is the per-channel pricing input of a variant.
type ChannelListing struct {
	ChannelID       int64
	Currency        string
	Price           decimal.Decimal
	DiscountedPrice decimal.Decimal
}

type ProductVariant struct {
	ID         int64
	SKU        string
	Name       string
	Product    Product
	Attributes []AttributeAssignment
}

// DisplayName is the customer-facing variant name: the product name,
// suffixed with the variant name when one is set.
func (v ProductVariant) DisplayName() string {
	if v.Name == "" {
		return v.Product.Name
	}
	return v.Product.Name + " (" + v.Name + ")"
}
