// Package cache provides a Redis-backed store for generated schedule
// proposals, replacing the teacher's in-process proposalStore
// (internal/service/schedule_generator_service.go) with the teacher's
// own pkg/cache.NewRedis / internal/repository.CacheRepository idiom
// (get/set JSON blobs with a TTL), since a proposal now has to survive
// across the generate/export request pair rather than one request's
// lifetime.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vishwaksen/campus-scheduler/internal/export"
)

// ErrMiss is returned when a proposal ID has no cached entry, either
// because it never existed or its TTL expired.
var ErrMiss = errors.New("cache: proposal not found")

const keyPrefix = "schedule:proposal:"

// ProposalCache stores generated export.Document values by proposal ID.
type ProposalCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New constructs a ProposalCache. client may be nil, in which case every
// Set is a no-op and every Get returns ErrMiss — this lets the HTTP
// surface run (generate, but not re-fetch/export by ID) even without a
// reachable Redis instance, matching the teacher's nil-client tolerance
// in CacheRepository.
func New(client *redis.Client, ttl time.Duration) *ProposalCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ProposalCache{client: client, ttl: ttl}
}

// Put stores doc under id with the cache's configured TTL.
func (c *ProposalCache) Put(ctx context.Context, id string, doc export.Document) error {
	if c.client == nil {
		return nil
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal proposal %s: %w", id, err)
	}
	if err := c.client.Set(ctx, keyPrefix+id, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set proposal %s: %w", id, err)
	}
	return nil
}

// Get retrieves and unmarshals the document stored under id.
func (c *ProposalCache) Get(ctx context.Context, id string) (export.Document, error) {
	var doc export.Document
	if c.client == nil {
		return doc, ErrMiss
	}
	raw, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return doc, ErrMiss
		}
		return doc, fmt.Errorf("redis get proposal %s: %w", id, err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("unmarshal proposal %s: %w", id, err)
	}
	return doc, nil
}
