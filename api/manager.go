package api

import (
	"catalog_server/api/health"
	"catalog_server/api/products"

	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	productRoutes *products.ProductRoutesManager
	healthRoutes  *health.HealthRoutesManager
	storageRoutes *storageRoutesManager // nil unless files are served from local disk
}

func NewRouterManager(
	productRoutes *products.ProductRoutesManager,
	healthRoutes *health.HealthRoutesManager,
	storageRoutes *storageRoutesManager,
) *routerManager {
	return &routerManager{
		productRoutes: productRoutes,
		healthRoutes:  healthRoutes,
		storageRoutes: storageRoutes,
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.productRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	if rm.storageRoutes != nil {
		rm.storageRoutes.RegisterRoutes(r)
	}
}
