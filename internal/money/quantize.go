// Package money quantizes decimal amounts to the minor-unit precision of
// their currency. Every monetary amount crossing into an outbound payload
// goes through here first.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrUnknownCurrency = errors.New("unknown currency code")

// Exponent returns the minor-unit decimal places of an ISO 4217 currency.
func Exponent(currency string) (int32, error) {
	exp, ok := minorUnits[currency]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, currency)
	}
	return exp, nil
}

// Quantize rounds amount to the minor-unit precision of currency, half away
// from zero. It is deterministic and idempotent.
func Quantize(amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	exp, err := Exponent(currency)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return amount.Round(exp), nil
}

// QuantizeToString quantizes amount and renders it with exactly the
// currency's minor-unit places, keeping trailing zeros ("10.00", not "10").
func QuantizeToString(amount decimal.Decimal, currency string) (string, error) {
	exp, err := Exponent(currency)
	if err != nil {
		return "", err
	}
	return amount.Round(exp).StringFixed(exp), nil
}

// FormatAmount renders an amount that is already at currency-correct
// precision, at the currency's fixed width. Used for collaborator-returned
// prices which must not be re-quantized here.
func FormatAmount(amount decimal.Decimal, currency string) (string, error) {
	exp, err := Exponent(currency)
	if err != nil {
		return "", err
	}
	return amount.StringFixed(exp), nil
}
