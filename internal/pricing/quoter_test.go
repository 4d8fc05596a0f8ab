package pricing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanket-jethava/saleor/domain"
	"github.com/sanket-jethava/saleor/internal/serializer"
)

type mockQuoter struct {
	m     sync.Mutex
	price domain.Money
	err   error
	calls int
}

func (m *mockQuoter) GetVariantPrice(context.Context, serializer.VariantPriceRequest) (domain.Money, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.calls++
	if m.err != nil {
		return domain.Money{}, m.err
	}
	return m.price, nil
}

type mockCache struct {
	m      sync.RWMutex
	quotes map[string]*domain.Money
	getErr error
	setErr error
}

func newMockCache() *mockCache {
	return &mockCache{quotes: map[string]*domain.Money{}}
}

func (m *mockCache) Get(_ context.Context, key string) (*domain.Money, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	price, ok := m.quotes[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return price, nil
}

func (m *mockCache) Set(_ context.Context, key string, price *domain.Money) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.quotes[key] = price
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.quotes, key)
	return nil
}

func usd(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: "USD"}
}

func priceRequest(variantID, channelID int64) serializer.VariantPriceRequest {
	return serializer.VariantPriceRequest{
		Variant: domain.ProductVariant{ID: variantID},
		Channel: domain.Channel{ID: channelID, Slug: "web", CurrencyCode: "USD"},
		ChannelListing: domain.ChannelListing{
			ChannelID: channelID,
			Currency:  "USD",
			Price:     decimal.RequireFromString("20.00"),
		},
	}
}

func TestListingQuoter_ListingPrice(t *testing.T) {
	price, err := ListingQuoter{}.GetVariantPrice(context.Background(), priceRequest(1, 1))

	require.NoError(t, err)
	assert.True(t, price.Amount.Equal(decimal.RequireFromString("20.00")))
	assert.Equal(t, "USD", price.Currency)
}

func TestListingQuoter_OverrideWins(t *testing.T) {
	override := decimal.RequireFromString("5.00")
	req := priceRequest(1, 1)
	req.PriceOverride = &override

	price, err := ListingQuoter{}.GetVariantPrice(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, price.Amount.Equal(override))
}

func TestListingQuoter_MissingListing(t *testing.T) {
	req := priceRequest(1, 1)
	req.ChannelListing.ChannelID = 99

	_, err := ListingQuoter{}.GetVariantPrice(context.Background(), req)

	assert.Error(t, err)
}

func TestCachedQuoter_HitSkipsInner(t *testing.T) {
	inner := &mockQuoter{price: usd("20.00")}
	cache := newMockCache()
	quoter := NewCachedQuoter(inner, cache)

	first, err := quoter.GetVariantPrice(context.Background(), priceRequest(1, 1))
	require.NoError(t, err)
	second, err := quoter.GetVariantPrice(context.Background(), priceRequest(1, 1))
	require.NoError(t, err)

	assert.True(t, first.Amount.Equal(second.Amount))
	assert.Equal(t, 1, inner.calls)
}

func TestCachedQuoter_DistinctInputsDistinctKeys(t *testing.T) {
	inner := &mockQuoter{price: usd("20.00")}
	quoter := NewCachedQuoter(inner, newMockCache())

	_, err := quoter.GetVariantPrice(context.Background(), priceRequest(1, 1))
	require.NoError(t, err)
	_, err = quoter.GetVariantPrice(context.Background(), priceRequest(2, 1))
	require.NoError(t, err)

	override := decimal.RequireFromString("5.00")
	req := priceRequest(1, 1)
	req.PriceOverride = &override
	_, err = quoter.GetVariantPrice(context.Background(), req)
	require.NoError(t, err)

	repriced := priceRequest(1, 1)
	repriced.ChannelListing.Price = decimal.RequireFromString("22.50")
	_, err = quoter.GetVariantPrice(context.Background(), repriced)
	require.NoError(t, err)

	discounted := priceRequest(1, 1)
	discounted.ChannelListing.DiscountedPrice = decimal.RequireFromString("15.00")
	_, err = quoter.GetVariantPrice(context.Background(), discounted)
	require.NoError(t, err)

	assert.Equal(t, 5, inner.calls)
}

func TestCachedQuoter_ListingPriceChangeMissesOldEntry(t *testing.T) {
	quoter := NewCachedQuoter(ListingQuoter{}, newMockCache())

	req := priceRequest(1, 1)
	req.ChannelListing.Price = decimal.RequireFromString("10.00")
	price, err := quoter.GetVariantPrice(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, price.Amount.Equal(decimal.RequireFromString("10.00")))

	// a listing update must never be answered from the old entry
	req.ChannelListing.Price = decimal.RequireFromString("12.00")
	price, err = quoter.GetVariantPrice(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, price.Amount.Equal(decimal.RequireFromString("12.00")))
}

func TestCachedQuoter_CacheErrorsAreNotFatal(t *testing.T) {
	inner := &mockQuoter{price: usd("20.00")}
	cache := newMockCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	quoter := NewCachedQuoter(inner, cache)

	price, err := quoter.GetVariantPrice(context.Background(), priceRequest(1, 1))

	require.NoError(t, err)
	assert.True(t, price.Amount.Equal(decimal.RequireFromString("20.00")))
}

func TestCachedQuoter_InnerErrorPropagates(t *testing.T) {
	quoterErr := errors.New("pricing backend unavailable")
	inner := &mockQuoter{err: quoterErr}
	quoter := NewCachedQuoter(inner, newMockCache())

	_, err := quoter.GetVariantPrice(context.Background(), priceRequest(1, 1))

	assert.ErrorIs(t, err, quoterErr)
}
