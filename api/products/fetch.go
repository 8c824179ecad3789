package products

import (
	"catalog_server/handling"
	"catalog_server/structs"
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
)

// ListProducts handles GET /products with the length-aware paginator payload
func (prm *ProductRoutesManager) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := handling.ParsePage(r)

	paginator, err := prm.productService.ListProducts(r.Context(), page, prm.pagePath(r))
	if err != nil {
		handling.HandleError(err, "Failed to list products", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(paginator),
		gecho.Send(),
	)
}

// ShowProduct handles GET /products/{id}
func (prm *ProductRoutesManager) ShowProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := prm.loadProduct(w, r)
	if !ok {
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"product":       product,
			"primary_image": product.PrimaryImage(),
		}),
		gecho.Send(),
	)
}

// CreateForm handles GET /products/create with the defaults of an empty product
func (prm *ProductRoutesManager) CreateForm(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(structs.ProductFormContext{
			Product: map[string]any{
				"name":           "",
				"description":    nil,
				"price":          nil,
				"stock":          nil,
				"sku":            nil,
				"is_active":      true,
				"feature_image":  nil,
				"gallery_images": []any{},
			},
			Limits: prm.limits,
		}),
		gecho.Send(),
	)
}

// EditForm handles GET /products/{id}/edit
func (prm *ProductRoutesManager) EditForm(w http.ResponseWriter, r *http.Request) {
	product, ok := prm.loadProduct(w, r)
	if !ok {
		return
	}

	gecho.Success(w,
		gecho.WithData(structs.ProductFormContext{
			Product:      product,
			PrimaryImage: product.PrimaryImage(),
			Limits:       prm.limits,
		}),
		gecho.Send(),
	)
}

// pagePath is the absolute url of the current route without its query
func (prm *ProductRoutesManager) pagePath(r *http.Request) string {
	if prm.baseURL != "" {
		return strings.TrimRight(prm.baseURL, "/") + r.URL.Path
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.Path
}
