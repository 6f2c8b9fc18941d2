package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipechef/backend/internal/testhelpers"
)

type memCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	gets   int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func TestCatalogListsAreSortedAndCached(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	cache := newMemCache()
	svc := NewCatalogService(db, cache, time.Minute)
	ctx := context.Background()
	testhelpers.CreateTestCategory(t, db, "Soups")
	testhelpers.CreateTestCategory(t, db, "Breakfast")
	testhelpers.CreateTestTag(t, db, "Vegan")

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Breakfast", categories[0].Name)
	assert.Contains(t, cache.data, CategoriesCacheKey)
	assert.Equal(t, time.Minute, cache.ttls[CategoriesCacheKey])

	// rows added behind the cache stay invisible until invalidated
	testhelpers.CreateTestCategory(t, db, "Desserts")
	categories, err = svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	require.NoError(t, svc.Invalidate(ctx))
	categories, err = svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 3)

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Contains(t, cache.data, TagsCacheKey)
}

func TestCatalogFallsThroughOnCacheError(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	cache := newMemCache()
	cache.getErr = errors.New("connection refused")
	svc := NewCatalogService(db, cache, 0)
	testhelpers.CreateTestTag(t, db, "Quick")

	tags, err := svc.ListTags(context.Background())
	require.NoError(t, err)
	assert.Len(t, tags, 1)
	assert.Equal(t, 1, cache.gets)
}

func TestCatalogWithoutCache(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := NewCatalogService(db, nil, 0)
	ctx := context.Background()
	cat := testhelpers.CreateTestCategory(t, db, "Mains")
	tag := testhelpers.CreateTestTag(t, db, "Spicy")

	got, err := svc.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "mains", got.Slug)
	_, err = svc.GetCategory(ctx, cat.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)

	gotTag, err := svc.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spicy", gotTag.Name)
	_, err = svc.GetTag(ctx, tag.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, svc.Invalidate(ctx))
}

func TestRedisCache(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	cache := NewRedisCache(client)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
	v, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, cache.Delete(ctx, "k"))
	require.NoError(t, cache.Delete(ctx))
	_, ok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
