package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"listings/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ImportCache stores successful listing extractions in Redis so repeated
// imports of the same URL skip the outbound fetch.
type ImportCache struct {
	client *redis.Client
}

func NewImportCache(addr string) *ImportCache {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &ImportCache{client: rdb}
}

func (c *ImportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func importKey(url string) string {
	return fmt.Sprintf("import:%s", url)
}

// SetListing caches an extraction result under the normalized URL.
func (c *ImportCache) SetListing(ctx context.Context, url string, listing *domain.Listing, ttl time.Duration) error {
	payload, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, importKey(url), payload, ttl).Err()
}

// GetListing returns a cached extraction result, if any.
func (c *ImportCache) GetListing(ctx context.Context, url string) (*domain.Listing, bool, error) {
	payload, err := c.client.Get(ctx, importKey(url)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var listing domain.Listing
	if err := json.Unmarshal(payload, &listing); err != nil {
		return nil, false, err
	}
	return &listing, true, nil
}
