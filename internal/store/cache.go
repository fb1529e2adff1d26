// internal/store/cache.go
package store

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopping-assistant/internal/models"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "shop:search:"

// ListingCache keeps search results in Redis.
type ListingCache struct {
	client *redis.Client
}

func NewListingCache(client *redis.Client) *ListingCache {
	return &ListingCache{client: client}
}

// Key normalizes the query and preferences into a cache key.
func (c *ListingCache) Key(query string, prefs *models.Preferences) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	prefsJSON, _ := json.Marshal(prefs)
	sum := sha1.Sum(append([]byte(normalized+"|"), prefsJSON...))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached listings. A miss is (nil, false, nil).
func (c *ListingCache) Get(ctx context.Context, key string) ([]models.Listing, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var listings []models.Listing
	if err := json.Unmarshal([]byte(val), &listings); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return listings, true, nil
}

func (c *ListingCache) Set(ctx context.Context, key string, listings []models.Listing, ttl time.Duration) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
