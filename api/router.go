package api

import (
	"catalog_server/api/health"
	"catalog_server/api/middleware"
	"catalog_server/api/products"
	"catalog_server/config"
	"catalog_server/services"
	"catalog_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

func App(cfg *structs.Config, sm *services.ServiceManager) chi.Router {
	r := chi.NewRouter()

	// create loggers
	mwLogger := config.NewLogger(false)
	standardLogger := config.NewLogger(true)

	// Initialize middleware
	mw := middleware.NewMiddleware(cfg, mwLogger)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security
	r.Use(mw.BodyLimit(cfg.Upload.MaxBodyBytes))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(mw.SetupLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware)

	// CORS (must be before the method override so preflights are answered as sent)
	r.Use(mw.SetupCORS().Handler)
	r.Use(mw.MethodOverride())

	var storageRoutes *storageRoutesManager
	if local, ok := sm.Storage.(*services.LocalStorage); ok {
		storageRoutes = newStorageRoutesManager(cfg.Storage.PublicURL, local.Root())
	}

	// Register all routes
	NewRouterManager(
		products.NewProductRoutesManager(standardLogger, sm.ProductService, cfg),
		health.NewHealthRoutesManager(sm.HealthService),
		storageRoutes,
	).RegisterRoutes(r)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gecho.Success(w,
			gecho.WithMessage("Welcome to the "+cfg.Server.AppName+" API"),
			gecho.Send(),
		)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.Send(),
		)
	})

	return r
}
