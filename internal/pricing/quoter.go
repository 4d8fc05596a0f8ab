// Package pricing implements the price-quoting collaborator side of the
// serializer: quote computation from channel listings, with a cache decorator.
// Caching lives here, never in the serializer.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/sanket-jethava/saleor/domain"
	"github.com/sanket-jethava/saleor/internal/serializer"
)

// ListingQuoter prices a variant from its channel listing. A price override
// on the request takes precedence over the catalog listing entirely.
type ListingQuoter struct{}

func (ListingQuoter) GetVariantPrice(_ context.Context, req serializer.VariantPriceRequest) (domain.Money, error) {
	currency := req.Channel.CurrencyCode
	if req.PriceOverride != nil {
		return domain.Money{Amount: *req.PriceOverride, Currency: currency}, nil
	}
	if req.ChannelListing.ChannelID != req.Channel.ID {
		return domain.Money{}, fmt.Errorf("variant %d has no listing for channel %q", req.Variant.ID, req.Channel.Slug)
	}
	return domain.Money{Amount: req.ChannelListing.Price, Currency: currency}, nil
}

// CachedQuoter wraps a PriceQuoter with a quote cache and a singleflight
// group so concurrent misses for the same inputs hit the inner quoter once.
type CachedQuoter struct {
	inner serializer.PriceQuoter
	cache QuoteCache
	sfg   singleflight.Group
}

func NewCachedQuoter(inner serializer.PriceQuoter, cache QuoteCache) *CachedQuoter {
	return &CachedQuoter{
		inner: inner,
		cache: cache,
	}
}

func (q *CachedQuoter) GetVariantPrice(ctx context.Context, req serializer.VariantPriceRequest) (domain.Money, error) {
	key := quoteKey(req)

	v, err, _ := q.sfg.Do(key, func() (interface{}, error) {
		price, err := q.cache.Get(ctx, key)
		if err == nil {
			return price, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("quote cache get error: %v", err) // log cache error but continue
		}

		quoted, errQuote := q.inner.GetVariantPrice(ctx, req)
		if errQuote != nil {
			return nil, errQuote
		}

		if errSet := q.cache.Set(ctx, key, &quoted); errSet != nil {
			log.Printf("quote cache set error: %v", errSet)
		}

		return &quoted, nil
	})

	if err != nil {
		return domain.Money{}, err
	}

	return *v.(*domain.Money), nil
}

// quoteKey folds every pricing input into the cache key: a stale hit must be
// impossible when the channel, listing prices, override or discount context
// change. An updated listing lands under a fresh key instead of waiting out
// the TTL of the old one.
func quoteKey(req serializer.VariantPriceRequest) string {
	parts := []string{
		fmt.Sprintf("v%d", req.Variant.ID),
		fmt.Sprintf("c%d", req.Channel.ID),
		"p" + req.ChannelListing.Price.String(),
		"dp" + req.ChannelListing.DiscountedPrice.String(),
	}
	if req.PriceOverride != nil {
		parts = append(parts, "o"+req.PriceOverride.String())
	}
	saleIDs := make([]string, 0, len(req.Discounts))
	for _, d := range req.Discounts {
		saleIDs = append(saleIDs, fmt.Sprintf("s%d", d.SaleID))
	}
	sort.Strings(saleIDs)
	parts = append(parts, saleIDs...)
	return strings.Join(parts, ":")
}
