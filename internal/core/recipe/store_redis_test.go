// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/recipebox/internal/core/recipe"
	"github.com/taibuivan/recipebox/internal/platform/dberr"
)

// fakeCache is an in-memory CacheClient.
type fakeCache struct {
	values  map[string]string
	ttls    map[string]time.Duration
	deleted []string
	down    bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	if f.down {
		return redis.NewStringResult("", errors.New("dial tcp: connection refused"))
	}
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.down {
		return redis.NewStatusResult("", errors.New("dial tcp: connection refused"))
	}
	f.values[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.values, key)
		f.deleted = append(f.deleted, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func newCached(cache *fakeCache) (*recipe.CachedRepository, *memoryRecipes) {
	recipes := newMemoryRecipes()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return recipe.NewCachedRepository(recipes, cache, time.Minute, logger), recipes
}

/*
TestCachedRepository_ReadThrough verifies a second read is served from the cache.
*/
func TestCachedRepository_ReadThrough(t *testing.T) {
	cache := newFakeCache()
	repository, recipes := newCached(cache)
	seeded := recipes.seed(1, "Soup", nil)

	first, err := repository.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soup", first.Title)
	assert.Equal(t, time.Minute, cache.ttls["recipe:by_id:1"])

	second, err := repository.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, 1, recipes.lookups)

	_, err = repository.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, dberr.ErrNotFound)
	assert.NotContains(t, cache.values, "recipe:by_id:99")
}

/*
TestCachedRepository_Invalidation verifies writes drop the cached entry.
*/
func TestCachedRepository_Invalidation(t *testing.T) {
	cache := newFakeCache()
	repository, recipes := newCached(cache)
	seeded := recipes.seed(1, "Soup", nil)

	_, err := repository.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)

	seeded.Title = "Stew"
	require.NoError(t, repository.Update(context.Background(), seeded))
	assert.NotContains(t, cache.values, "recipe:by_id:1")

	found, err := repository.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stew", found.Title)

	require.NoError(t, repository.Delete(context.Background(), seeded.ID))
	assert.NotContains(t, cache.values, "recipe:by_id:1")

	_, err = repository.FindByID(context.Background(), seeded.ID)
	assert.ErrorIs(t, err, dberr.ErrNotFound)
}

/*
TestCachedRepository_CacheDown verifies Postgres still answers when Redis fails.
*/
func TestCachedRepository_CacheDown(t *testing.T) {
	cache := newFakeCache()
	cache.down = true
	repository, recipes := newCached(cache)
	seeded := recipes.seed(1, "Soup", nil)

	for range 2 {
		found, err := repository.FindByID(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "Soup", found.Title)
	}
	assert.Equal(t, 2, recipes.lookups)
}
