package services

import (
	"catalog_server/lib"
	"catalog_server/structs"
	"catalog_server/structs/tables"
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableCacheError(t *testing.T) {
	assert.False(t, isRetryableCacheError(nil))
	assert.False(t, isRetryableCacheError(redis.Nil))
	assert.False(t, isRetryableCacheError(errors.New("WRONGTYPE Operation against a key")))
	assert.True(t, isRetryableCacheError(errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")))
	assert.True(t, isRetryableCacheError(errors.New("i/o timeout")))
}

func TestCacheWithRetryStopsOnPermanentError(t *testing.T) {
	cs := NewCacheService(testLogger(), &structs.CacheConfig{Address: "127.0.0.1:0"})
	t.Cleanup(func() { _ = cs.Close() })

	calls := 0
	err := cs.withRetry(context.Background(), func() error {
		calls++
		return errors.New("WRONGTYPE")
	}, 3)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestCacheWithRetryHonorsContext(t *testing.T) {
	cs := NewCacheService(testLogger(), &structs.CacheConfig{Address: "127.0.0.1:0"})
	t.Cleanup(func() { _ = cs.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := cs.withRetry(ctx, func() error {
		return errors.New("connection reset by peer")
	}, 10)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// memoryCache is a ProductCache backed by maps
type memoryCache struct {
	products    map[int64]*tables.Product
	pages       map[int]*CachedProductPage
	invalidated []int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		products: map[int64]*tables.Product{},
		pages:    map[int]*CachedProductPage{},
	}
}

func (mc *memoryCache) GetProduct(ctx context.Context, id int64) (*tables.Product, error) {
	return mc.products[id], nil
}

func (mc *memoryCache) SetProduct(ctx context.Context, product *tables.Product) error {
	mc.products[product.ID] = product
	return nil
}

func (mc *memoryCache) GetProductPage(ctx context.Context, page int) (*CachedProductPage, error) {
	return mc.pages[page], nil
}

func (mc *memoryCache) SetProductPage(ctx context.Context, page int, items []tables.Product, total int) error {
	mc.pages[page] = &CachedProductPage{Items: items, Total: total}
	return nil
}

func (mc *memoryCache) InvalidateProduct(ctx context.Context, id int64) error {
	delete(mc.products, id)
	clear(mc.pages)
	mc.invalidated = append(mc.invalidated, id)
	return nil
}

func TestProductServiceUsesCache(t *testing.T) {
	fx := newServiceFixture(t)
	cache := newMemoryCache()
	fx.service.cache = cache
	ctx := context.Background()

	product := mustCreate(t, fx, "a.png")
	assert.Contains(t, cache.invalidated, product.ID)

	_, err := fx.service.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Contains(t, cache.products, product.ID)

	// served from cache, even though the row changed underneath
	require.NoError(t, fx.repo.UpdateProduct(ctx, product.ID, map[string]any{"name": "Changed"}))
	cached, err := fx.service.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", cached.Name)

	_, err = fx.service.ListProducts(ctx, 1, "/products")
	require.NoError(t, err)
	require.Contains(t, cache.pages, 1)

	// a workflow mutation drops both entries
	_, err = fx.service.UpdateProduct(ctx, product.ID, withValues(validForm(), "name", "Updated"))
	require.NoError(t, err)
	assert.NotContains(t, cache.pages, 1)

	fresh, err := fx.service.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", fresh.Name)
}

func TestFailedUpdateStillInvalidatesCache(t *testing.T) {
	fx := newServiceFixture(t)
	cache := newMemoryCache()
	fx.service.cache = cache
	ctx := context.Background()

	product := mustCreate(t, fx, "a.png", "b.png")
	warm, err := fx.service.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, warm.Galleries, 2)
	require.Contains(t, cache.products, product.ID)

	fx.storage.failOn = "store"
	form := withValues(validForm(), "remove_gallery_ids", strconv.FormatInt(product.Galleries[0].ID, 10))
	withFiles(form, "gallery_images", pngFile("c.png"))

	_, err = fx.service.UpdateProduct(ctx, product.ID, form)
	require.Error(t, err)
	assert.NotContains(t, cache.products, product.ID)

	stored, err := fx.repo.FindProduct(ctx, product.ID)
	require.NoError(t, err)
	served, err := fx.service.GetProduct(ctx, product.ID)
	require.NoError(t, err)

	require.Len(t, stored.Galleries, 1)
	assert.Len(t, served.Galleries, 1)
	assert.Equal(t, stored.Galleries[0].ID, served.Galleries[0].ID)
}

func TestFailedDeleteStillInvalidatesCache(t *testing.T) {
	fx := newServiceFixture(t)
	cache := newMemoryCache()
	fx.service.cache = cache
	ctx := context.Background()

	product := mustCreate(t, fx, "a.png", "b.png")
	_, err := fx.service.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	_, err = fx.service.ListProducts(ctx, 1, "/products")
	require.NoError(t, err)
	cache.invalidated = nil

	fx.storage.failOn = "delete"
	fx.storage.allowDeletes = 1

	_, err = fx.service.DeleteProduct(ctx, product.ID)
	require.Error(t, err)
	assert.Len(t, fx.storage.deleted, 1)

	assert.Equal(t, []int64{product.ID}, cache.invalidated)
	assert.NotContains(t, cache.products, product.ID)
	assert.Empty(t, cache.pages)
}

func TestValidationFailureKeepsCache(t *testing.T) {
	fx := newServiceFixture(t)
	cache := newMemoryCache()
	fx.service.cache = cache
	ctx := context.Background()

	product := mustCreate(t, fx)
	_, err := fx.service.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	cache.invalidated = nil

	_, err = fx.service.UpdateProduct(ctx, product.ID, withValues(validForm(), "stock", "05"))
	var validationErr *lib.ValidationError
	require.ErrorAs(t, err, &validationErr)

	assert.Empty(t, cache.invalidated)
	assert.Contains(t, cache.products, product.ID)
}
