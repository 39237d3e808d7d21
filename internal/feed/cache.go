// Copyright (c) 2026 Editaliza. All rights reserved.

package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/editaliza/editaliza/internal/platform/constants"
	"github.com/editaliza/editaliza/internal/platform/ctxutil"
)

// ErrCacheMiss is returned by [Cache.Get] when the key is absent.
var ErrCacheMiss = errors.New("feed: cache miss")

// Cache stores encoded listings for a bounded time.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// # Redis Adapter

// RedisCache implements [Cache] over go-redis, namespacing keys under "feed:".
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached bytes or [ErrCacheMiss].
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, constants.RedisPrefixFeed+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis_feed_cache_get_failed: %w", err)
	}
	return value, nil
}

// Set stores value for ttl.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, constants.RedisPrefixFeed+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis_feed_cache_set_failed: %w", err)
	}
	return nil
}

// # Decorator

// CachedRepository serves listings from a [Cache], falling through to the
// wrapped [Repository] on a miss or any cache error.
//
// Cache failures are logged and never surface to callers.
type CachedRepository struct {
	next  Repository
	cache Cache
	ttl   time.Duration
}

// NewCachedRepository decorates next with cache entries living for ttl.
func NewCachedRepository(next Repository, cache Cache, ttl time.Duration) *CachedRepository {
	return &CachedRepository{next: next, cache: cache, ttl: ttl}
}

// editalPage is the cached form of a ListEditals result.
type editalPage struct {
	Items []Edital `json:"items"`
	Total int      `json:"total"`
}

func (repository *CachedRepository) ListEditals(ctx context.Context, filter EditalFilter) ([]Edital, int, error) {
	key := fmt.Sprintf("editals:%s:%d:%d", filter.Status, filter.Limit, filter.Offset)

	page, err := cached(ctx, repository, key, func() (editalPage, error) {
		items, total, err := repository.next.ListEditals(ctx, filter)
		return editalPage{Items: items, Total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func (repository *CachedRepository) ListProposers(ctx context.Context) ([]Proposer, error) {
	return cached(ctx, repository, "proposers", func() ([]Proposer, error) {
		return repository.next.ListProposers(ctx)
	})
}

func (repository *CachedRepository) ListArtists(ctx context.Context) ([]Artist, error) {
	return cached(ctx, repository, "artists", func() ([]Artist, error) {
		return repository.next.ListArtists(ctx)
	})
}

func (repository *CachedRepository) ListProfiles(ctx context.Context) ([]Profile, error) {
	return cached(ctx, repository, "profiles", func() ([]Profile, error) {
		return repository.next.ListProfiles(ctx)
	})
}

func (repository *CachedRepository) ListTags(ctx context.Context) ([]Tag, error) {
	return cached(ctx, repository, "tags", func() ([]Tag, error) {
		return repository.next.ListTags(ctx)
	})
}

func (repository *CachedRepository) ListComments(ctx context.Context, filter CommentFilter) ([]Comment, error) {
	key := "comments:all"
	if filter.EditalID != nil {
		key = "comments:" + strconv.FormatInt(*filter.EditalID, 10)
	}

	return cached(ctx, repository, key, func() ([]Comment, error) {
		return repository.next.ListComments(ctx, filter)
	})
}

// cached returns the decoded entry for key, or loads, stores and returns it.
func cached[T any](ctx context.Context, repository *CachedRepository, key string, load func() (T, error)) (T, error) {
	logger := ctxutil.GetLogger(ctx)

	raw, err := repository.cache.Get(ctx, key)
	switch {
	case err == nil:
		var value T
		decodeErr := json.Unmarshal(raw, &value)
		if decodeErr == nil {
			return value, nil
		}
		logger.WarnContext(ctx, "feed_cache_decode_failed", slog.String("key", key), slog.String("error", decodeErr.Error()))
	case !errors.Is(err, ErrCacheMiss):
		logger.WarnContext(ctx, "feed_cache_get_failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		logger.WarnContext(ctx, "feed_cache_encode_failed", slog.String("key", key), slog.String("error", err.Error()))
		return value, nil
	}
	if err := repository.cache.Set(ctx, key, encoded, repository.ttl); err != nil {
		logger.WarnContext(ctx, "feed_cache_set_failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return value, nil
}
