package report

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps fetched row sets in Redis for a short TTL so repeated page
// loads and the warmup job do not hammer the upstream API. A nil cache is
// valid and always misses.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Key composes the cache key for a report query.
func (c *Cache) Key(schema Schema, query Query) string {
	return strings.Join([]string{
		"report", schema.Slug,
		strconv.FormatInt(query.BranchID, 10),
		string(query.Kind),
		query.StartDate(), query.EndDate(),
	}, ":")
}

// FetchRows loads cached rows or populates them using the loader. Loader
// errors pass through untouched; cache transport errors fall back to the
// loader so Redis being down never breaks a report page.
func (c *Cache) FetchRows(ctx context.Context, key string, loader func(context.Context) ([]Row, error)) ([]Row, error) {
	if loader == nil {
		return nil, errors.New("report: cache loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var rows []Row
		if err := json.Unmarshal(payload, &rows); err == nil {
			return rows, nil
		}
	}
	rows, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(rows); err == nil {
		_ = c.client.Set(ctx, key, raw, c.ttl).Err()
	}
	return rows, nil
}

// Invalidate drops one cached row set.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}
