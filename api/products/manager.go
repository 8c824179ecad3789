package products

import (
	"catalog_server/lib"
	"catalog_server/services"
	"catalog_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ProductRoutesManager struct {
	logger         *gecho.Logger
	productService *services.ProductService
	baseURL        string // absolute prefix for paginator links, derived from the request when empty
	maxMemory      int64
	limits         structs.UploadLimits
}

func NewProductRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
	cfg *structs.Config,
) *ProductRoutesManager {
	return &ProductRoutesManager{
		logger:         logger,
		productService: productService,
		baseURL:        cfg.Server.BaseURL,
		maxMemory:      cfg.Upload.MaxMultipartMemory,
		limits: structs.UploadLimits{
			MaxImageKB:   cfg.Upload.MaxImageKB,
			AllowedTypes: lib.AllowedImageTypes(),
		},
	}
}

func (prm *ProductRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", prm.ListProducts)
		r.Post("/", prm.StoreProduct)
		r.Get("/create", prm.CreateForm)

		r.Get("/{id}", prm.ShowProduct)
		r.Put("/{id}", prm.UpdateProduct)
		r.Patch("/{id}", prm.UpdateProduct)
		r.Delete("/{id}", prm.DeleteProduct)
		r.Get("/{id}/edit", prm.EditForm)
	})
}
