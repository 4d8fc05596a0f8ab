package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanket-jethava/saleor/domain"
)

// QuoteCache stores variant price quotes keyed by their pricing inputs.
type QuoteCache interface {
	Get(ctx context.Context, key string) (*domain.Money, error)
	Set(ctx context.Context, key string, price *domain.Money) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 5 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, key string) (*domain.Money, error) {
	data, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var price domain.Money
	if err2 := json.Unmarshal(data, &price); err2 != nil {
		return nil, fmt.Errorf("unmarshal price failed: %w", err2)
	}

	return &price, nil
}

func (r RedisCache) Set(ctx context.Context, key string, price *domain.Money) error {
	data, err := json.Marshal(price)
	if err != nil {
		return fmt.Errorf("marshal price failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(30)) * time.Second
	ttl := r.baseTTL + jitter
	if ret := r.client.Set(ctx, cacheKey(key), string(data), ttl); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return fmt.Sprintf("price-quote:%s", key)
}
