package domain

import "github.com/shopspring/decimal"

// Money is a decimal amount in a single currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// TaxedMoney pairs the pre-tax (net) and post-tax (gross) value of the same
// amount, both in the same currency.
type TaxedMoney struct {
	Net   Money `json:"net"`
	Gross Money `json:"gross"`
}

// LineUnitPrice is what the tax/discount quoting collaborator returns for one
// checkout line: the unit price reflecting active sales, and the unit price
// additionally reflecting checkout-level discounts.
type LineUnitPrice struct {
	PriceWithSale      TaxedMoney
	PriceWithDiscounts TaxedMoney
}

// BasePrice selects the gross or net component of a taxed price as the
// reporting convention. It never re-invokes pricing.
func BasePrice(price TaxedMoney, useGrossAsBase bool) decimal.Decimal {
	if useGrossAsBase {
		return price.Gross.Amount
	}
	return price.Net.Amount
}
