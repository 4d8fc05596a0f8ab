package serializer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sanket-jethava/saleor/domain"
)

// testEncoder produces readable "Type:id" ids so assertions can state the
// expected encoding directly.
type testEncoder struct{}

func (testEncoder) Encode(typeName string, rawID any) string {
	return fmt.Sprintf("%s:%v", typeName, rawID)
}

type mockPriceQuoter struct {
	price    decimal.Decimal
	currency string
	err      error
	requests []VariantPriceRequest
}

func (m *mockPriceQuoter) GetVariantPrice(_ context.Context, req VariantPriceRequest) (domain.Money, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return domain.Money{}, m.err
	}
	// Honors the override the way the real pricing collaborator must.
	if req.PriceOverride != nil {
		return domain.Money{Amount: *req.PriceOverride, Currency: m.currency}, nil
	}
	return domain.Money{Amount: m.price, Currency: m.currency}, nil
}

type mockUnitPriceQuoter struct {
	prices     map[int64]domain.LineUnitPrice
	failLineID int64
	failErr    error
	calls      int
}

func (m *mockUnitPriceQuoter) GetCheckoutLineUnitPrice(
	_ context.Context,
	_ domain.CheckoutInfo,
	_ []domain.CheckoutLineInfo,
	line domain.CheckoutLineInfo,
	_ []domain.DiscountInfo,
) (domain.LineUnitPrice, error) {
	m.calls++
	if m.failErr != nil && line.Line.ID == m.failLineID {
		return domain.LineUnitPrice{}, m.failErr
	}
	return m.prices[line.Line.ID], nil
}

type mockDiscountProvider struct {
	discounts []domain.DiscountInfo
	err       error
	calls     int
}

func (m *mockDiscountProvider) CurrentDiscounts(context.Context) ([]domain.DiscountInfo, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.discounts, nil
}

func taxedPair(net, gross, currency string) domain.TaxedMoney {
	return domain.TaxedMoney{
		Net:   domain.Money{Amount: decimal.RequireFromString(net), Currency: currency},
		Gross: domain.Money{Amount: decimal.RequireFromString(gross), Currency: currency},
	}
}
