package services

import (
	"catalog_server/structs"
	"catalog_server/structs/tables"
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

// ProductCache keeps read-through copies of products and list pages
type ProductCache interface {
	GetProduct(ctx context.Context, id int64) (*tables.Product, error) // nil on miss
	SetProduct(ctx context.Context, product *tables.Product) error
	GetProductPage(ctx context.Context, page int) (*CachedProductPage, error) // nil on miss
	SetProductPage(ctx context.Context, page int, items []tables.Product, total int) error
	// InvalidateProduct drops the product and every cached list page
	InvalidateProduct(ctx context.Context, id int64) error
}

// CachedProductPage is one cached page of the product list
type CachedProductPage struct {
	Items []tables.Product `json:"items"`
	Total int              `json:"total"`
}

const (
	productKeyFormat     = "product:id:%d"
	productPageKeyFormat = "products:page:%d"
	productPagePattern   = "products:page:*"
)

// CacheService provides Redis caching functionality with connection pooling and retry logic
type CacheService struct {
	logger *gecho.Logger
	config *structs.CacheConfig
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.CacheConfig) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: newRedisClient(cfg),
	}
}

func newRedisClient(cfg *structs.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,

		// Connection pool settings
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,

		// Timeouts
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,

		// Retry settings
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
	})
}

// Close closes the Redis connection pool
func (cs *CacheService) Close() error {
	return cs.client.Close()
}

// withRetry executes a Redis operation with exponential backoff and ±50% jitter
func (cs *CacheService) withRetry(ctx context.Context, operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt == maxRetries || !isRetryableCacheError(err) {
			break
		}

		backoff := min(100*time.Millisecond<<attempt, 2*time.Second)
		wait := backoff/2 + jitter(backoff/2)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("redis operation failed: %w", lastErr)
}

func jitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0
	}
	return time.Duration(binary.BigEndian.Uint64(b[:]) % uint64(limit))
}

// isRetryableCacheError retries only network and connection failures
func isRetryableCacheError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}

	errStr := err.Error()
	for _, retryableErr := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	} {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}

// Ping checks connectivity to Redis
func (cs *CacheService) Ping(ctx context.Context) error {
	return cs.client.Ping(ctx).Err()
}

func (cs *CacheService) GetProduct(ctx context.Context, id int64) (*tables.Product, error) {
	return getJSON[tables.Product](ctx, cs, fmt.Sprintf(productKeyFormat, id))
}

func (cs *CacheService) SetProduct(ctx context.Context, product *tables.Product) error {
	return cs.setJSON(ctx, fmt.Sprintf(productKeyFormat, product.ID), product)
}

func (cs *CacheService) GetProductPage(ctx context.Context, page int) (*CachedProductPage, error) {
	return getJSON[CachedProductPage](ctx, cs, fmt.Sprintf(productPageKeyFormat, page))
}

func (cs *CacheService) SetProductPage(ctx context.Context, page int, items []tables.Product, total int) error {
	return cs.setJSON(ctx, fmt.Sprintf(productPageKeyFormat, page), &CachedProductPage{Items: items, Total: total})
}

func (cs *CacheService) InvalidateProduct(ctx context.Context, id int64) error {
	if err := cs.withRetry(ctx, func() error {
		return cs.client.Del(ctx, fmt.Sprintf(productKeyFormat, id)).Err()
	}, 3); err != nil {
		return err
	}
	return cs.DeletePattern(ctx, productPagePattern)
}

// DeletePattern removes every key matching pattern using SCAN
func (cs *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	return cs.withRetry(ctx, func() error {
		var cursor uint64
		for {
			keys, nextCursor, err := cs.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if len(keys) > 0 {
				if err := cs.client.Del(ctx, keys...).Err(); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
			}

			cursor = nextCursor
			if cursor == 0 {
				return nil
			}
		}
	}, 3)
}

func getJSON[T any](ctx context.Context, cs *CacheService, key string) (*T, error) {
	var val string

	err := cs.withRetry(ctx, func() error {
		var err error
		val, err = cs.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			val = ""
			return nil // Don't retry on key not found
		}
		return err
	}, 3)
	if err != nil || val == "" {
		return nil, err
	}

	var out T
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		// A stale shape is a miss, not a failure
		cs.logger.Warn("Discarding undecodable cache entry", gecho.Field("key", key), gecho.Field("error", err))
		return nil, nil
	}
	return &out, nil
}

func (cs *CacheService) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	return cs.withRetry(ctx, func() error {
		return cs.client.Set(ctx, key, data, cs.config.ProductTTL).Err()
	}, 3)
}
