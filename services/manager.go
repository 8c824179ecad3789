package services

import (
	"catalog_server/database"
	"catalog_server/structs"
	"context"
	"fmt"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	CacheService   *CacheService // nil when caching is disabled
	HealthService  *HealthService
	ProductService *ProductService
	Storage        FileStorage
}

func NewServiceManager(ctx context.Context, logger *gecho.Logger, cfg *structs.Config, db *database.DB) (*ServiceManager, error) {
	storage, err := NewFileStorage(ctx, logger, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to set up file storage: %w", err)
	}

	var cacheService *CacheService
	var productCache ProductCache
	if cfg.Cache.Enabled {
		cacheService = NewCacheService(logger, cfg.Cache)
		productCache = cacheService
	}

	repository := NewProductRepository(db)
	productService := NewProductService(logger, repository, storage, productCache, cfg.Upload.MaxImageKB)
	healthService := NewHealthService(logger, db, cacheService)

	return &ServiceManager{
		CacheService:   cacheService,
		HealthService:  healthService,
		ProductService: productService,
		Storage:        storage,
	}, nil
}

// Close releases the cache connection pool
func (sm *ServiceManager) Close() error {
	if sm.CacheService != nil {
		return sm.CacheService.Close()
	}
	return nil
}
