package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
)

const generationKey = "marketplace:generation"

// MarketplaceCache stores marketplace query results.
// Key format: marketplace:<generation>:<filter key>
//
// Every crop mutation bumps the generation, which orphans all earlier entries;
// they expire through their TTL.
type MarketplaceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMarketplaceCache creates a MarketplaceCache wrapping the given Redis client.
func NewMarketplaceCache(client *redis.Client, ttl time.Duration) *MarketplaceCache {
	return &MarketplaceCache{client: client, ttl: ttl}
}

// Generation returns the current cache generation. A missing counter is
// generation 0.
func (c *MarketplaceCache) Generation(ctx context.Context) (int64, error) {
	n, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("marketplace generation: %w", err)
	}
	return n, nil
}

// Get returns the cached listings for filterKey under gen. ok is false on a miss.
func (c *MarketplaceCache) Get(ctx context.Context, gen int64, filterKey string) ([]domain.MarketplaceListing, bool, error) {
	raw, err := c.client.Get(ctx, entryKey(gen, filterKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("marketplace get: %w", err)
	}

	listings, err := decodeListings(raw)
	if err != nil {
		return nil, false, err
	}
	return listings, true, nil
}

// Set stores listings for filterKey under gen (expires after ttl).
func (c *MarketplaceCache) Set(ctx context.Context, gen int64, filterKey string, listings []domain.MarketplaceListing) error {
	raw, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("marketplace encode: %w", err)
	}
	if err := c.client.Set(ctx, entryKey(gen, filterKey), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("marketplace set: %w", err)
	}
	return nil
}

// Invalidate moves the cache to a new generation.
func (c *MarketplaceCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("marketplace invalidate: %w", err)
	}
	return nil
}

func entryKey(gen int64, filterKey string) string {
	return "marketplace:" + strconv.FormatInt(gen, 10) + ":" + filterKey
}

func decodeListings(raw []byte) ([]domain.MarketplaceListing, error) {
	listings := []domain.MarketplaceListing{}
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, fmt.Errorf("marketplace decode: %w", err)
	}
	return listings, nil
}
