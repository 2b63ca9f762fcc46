// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/recipebox/internal/platform/constants"
)

// CachedRepository is a read-through Redis cache in front of a [Repository].
//
// Only FindByID is cached. Update and Delete drop the key after the write
// succeeds. Cache failures are logged and never fail the request: Postgres
// stays the source of truth.
//
// A reader that missed the cache and loaded the row before a concurrent write
// committed can still Set that older row after the invalidation. It then lives
// until the TTL expires, so keep the TTL short. OwnerID never changes, so
// authorization decisions are unaffected.
type CachedRepository struct {
	next   Repository
	client CacheClient
	ttl    time.Duration
	logger *slog.Logger
}

// CacheClient is the subset of [*redis.Client] the cache uses.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// NewCachedRepository wraps next with a cache backed by client.
func NewCachedRepository(next Repository, client CacheClient, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func cacheKey(id int64) string {
	return constants.RedisPrefixRecipe + strconv.FormatInt(id, 10)
}

func (repository *CachedRepository) FindByID(context context.Context, id int64) (*Recipe, error) {
	key := cacheKey(id)

	raw, err := repository.client.Get(context, key).Bytes()
	switch {
	case err == nil:
		cached := &Recipe{}
		if jsonErr := json.Unmarshal(raw, cached); jsonErr == nil {
			return cached, nil
		}
		repository.logger.WarnContext(context, "recipe_cache_corrupt", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		repository.logger.WarnContext(context, "recipe_cache_get_failed", slog.String("key", key), slog.Any("error", err))
	}

	found, err := repository.next.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(found); jsonErr == nil {
		if setErr := repository.client.Set(context, key, payload, repository.ttl).Err(); setErr != nil {
			repository.logger.WarnContext(context, "recipe_cache_set_failed", slog.String("key", key), slog.Any("error", setErr))
		}
	}

	return found, nil
}

func (repository *CachedRepository) List(context context.Context, limit, offset int) ([]*Recipe, int, error) {
	return repository.next.List(context, limit, offset)
}

func (repository *CachedRepository) Create(context context.Context, r *Recipe) error {
	return repository.next.Create(context, r)
}

func (repository *CachedRepository) Update(context context.Context, r *Recipe) error {
	if err := repository.next.Update(context, r); err != nil {
		return err
	}
	repository.invalidate(context, r.ID)
	return nil
}

func (repository *CachedRepository) Delete(context context.Context, id int64) error {
	if err := repository.next.Delete(context, id); err != nil {
		return err
	}
	repository.invalidate(context, id)
	return nil
}

func (repository *CachedRepository) invalidate(context context.Context, id int64) {
	if err := repository.client.Del(context, cacheKey(id)).Err(); err != nil {
		repository.logger.WarnContext(context, "recipe_cache_del_failed", slog.Int64("id", id), slog.Any("error", err))
	}
}
