package content

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/platform/cache"
)

const defaultCacheTTL = 5 * time.Minute

// CachedRepository caches catalog listings in Redis/Dragonfly in front of
// another Repository. Cache failures are logged and fall through to the
// underlying repository.
//
// Listing keys carry a catalog generation that Upsert bumps, so a listing
// loaded before a concurrent Upsert is written under a generation no reader
// asks for again.
type CachedRepository struct {
	next  Repository
	cache *cache.Cache
	ttl   time.Duration
}

// NewCachedRepository wraps next with a read-through listing cache.
func NewCachedRepository(next Repository, c *cache.Cache, ttl time.Duration) *CachedRepository {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedRepository{next: next, cache: c, ttl: ttl}
}

func (r *CachedRepository) List(ctx context.Context) ([]Item, error) {
	return r.cached(ctx, "all", r.next.List)
}

func (r *CachedRepository) ListByAgeGroup(ctx context.Context, ageGroup string) ([]Item, error) {
	suffix := "age:" + strings.ToLower(strings.TrimSpace(ageGroup))
	return r.cached(ctx, suffix, func(ctx context.Context) ([]Item, error) {
		return r.next.ListByAgeGroup(ctx, ageGroup)
	})
}

func (r *CachedRepository) Get(ctx context.Context, id string) (Item, error) {
	return r.next.Get(ctx, id)
}

// Upsert writes through, moves readers to a new generation and drops every
// cached listing.
func (r *CachedRepository) Upsert(ctx context.Context, items ...Item) error {
	if err := r.next.Upsert(ctx, items...); err != nil {
		return err
	}
	if _, err := r.cache.BumpGeneration(ctx, r.generationKey()); err != nil {
		slog.Warn("catalog cache generation bump failed", "error", err)
	}
	if err := r.cache.DropTracked(ctx, r.keysSet()); err != nil {
		slog.Warn("catalog cache invalidation failed", "error", err)
	}
	return nil
}

// HealthCheck checks the cache and, when supported, the underlying repository.
func (r *CachedRepository) HealthCheck(ctx context.Context) error {
	if err := r.cache.HealthCheck(ctx); err != nil {
		return err
	}
	if hc, ok := r.next.(interface{ HealthCheck(context.Context) error }); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (r *CachedRepository) keysSet() string {
	return r.cache.Key("catalog", "keys")
}

func (r *CachedRepository) generationKey() string {
	return r.cache.Key("catalog", "gen")
}

func (r *CachedRepository) listingKey(gen int64, suffix string) string {
	return r.cache.Key("catalog", "v"+strconv.FormatInt(gen, 10), suffix)
}

func (r *CachedRepository) cached(ctx context.Context, suffix string, load func(context.Context) ([]Item, error)) ([]Item, error) {
	gen, err := r.cache.Generation(ctx, r.generationKey())
	if err != nil {
		slog.Warn("catalog cache generation read failed", "error", err)
		return load(ctx)
	}
	key := r.listingKey(gen, suffix)

	data, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var items []Item
		jsonErr := json.Unmarshal(data, &items)
		if jsonErr == nil {
			return items, nil
		}
		slog.Warn("discarding corrupt catalog cache entry", "key", key, "error", jsonErr)
	case !errors.Is(err, cache.ErrMiss):
		slog.Warn("catalog cache read failed", "key", key, "error", err)
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(items)
	if err != nil {
		slog.Warn("catalog cache encode failed", "key", key, "error", err)
		return items, nil
	}
	if err := r.cache.SetTracked(ctx, r.keysSet(), key, data, r.ttl); err != nil {
		slog.Warn("catalog cache write failed", "key", key, "error", err)
	}
	return items, nil
}
