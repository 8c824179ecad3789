package products

import (
	"catalog_server/handling"
	"catalog_server/lib"
	"catalog_server/structs"
	"catalog_server/structs/tables"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// StoreProduct handles POST /products
func (prm *ProductRoutesManager) StoreProduct(w http.ResponseWriter, r *http.Request) {
	form, ok := prm.parseForm(w, r)
	if !ok {
		return
	}

	result, err := prm.productService.CreateProduct(r.Context(), form)
	prm.respond(w, result, err, "Failed to create product")
}

// UpdateProduct handles PUT /products/{id}, also reached by POST with _method=PUT
func (prm *ProductRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseProductID(r)
	if err != nil {
		prm.notFound(w)
		return
	}

	form, ok := prm.parseForm(w, r)
	if !ok {
		return
	}

	result, err := prm.productService.UpdateProduct(r.Context(), id, form)
	prm.respond(w, result, err, "Failed to update product")
}

// DeleteProduct handles DELETE /products/{id}
func (prm *ProductRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseProductID(r)
	if err != nil {
		prm.notFound(w)
		return
	}

	result, err := prm.productService.DeleteProduct(r.Context(), id)
	prm.respond(w, result, err, "Failed to delete product")
}

func (prm *ProductRoutesManager) parseForm(w http.ResponseWriter, r *http.Request) (*structs.ProductForm, bool) {
	form, err := handling.ParseProductForm(r, prm.maxMemory)
	if err != nil {
		prm.logger.Debug("Failed to parse product form", gecho.Field("error", err))

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			gecho.BadRequest(w, gecho.WithMessage("The request body is too large."), gecho.Send())
			return nil, false
		}

		gecho.BadRequest(w, gecho.WithMessage("The product form could not be read."), gecho.Send())
		return nil, false
	}
	return form, true
}

// loadProduct resolves {id} to a product, answering 404 for bad or unknown ids
func (prm *ProductRoutesManager) loadProduct(w http.ResponseWriter, r *http.Request) (*tables.Product, bool) {
	id, err := handling.ParseProductID(r)
	if err != nil {
		prm.notFound(w)
		return nil, false
	}

	product, err := prm.productService.GetProduct(r.Context(), id)
	if errors.Is(err, lib.ErrNotFound) {
		prm.notFound(w)
		return nil, false
	}
	if err != nil {
		handling.HandleError(err, "Failed to fetch product", prm.logger, w)
		return nil, false
	}
	return product, true
}

// respond maps a workflow outcome onto the response
func (prm *ProductRoutesManager) respond(w http.ResponseWriter, result *structs.ProductResult, err error, failure string) {
	var validationErr *lib.ValidationError
	switch {
	case err == nil && result.Product == nil:
		gecho.Success(w, gecho.WithMessage(result.Message), gecho.Send())
	case err == nil:
		gecho.Success(w,
			gecho.WithMessage(result.Message),
			gecho.WithData(map[string]any{
				"product":       result.Product,
				"primary_image": result.Product.PrimaryImage(),
			}),
			gecho.Send(),
		)
	case errors.As(err, &validationErr):
		gecho.BadRequest(w,
			gecho.WithStatus(http.StatusUnprocessableEntity),
			gecho.WithMessage("The given data was invalid."),
			gecho.WithData(validationErr),
			gecho.Send(),
		)
	case errors.Is(err, lib.ErrNotFound):
		prm.notFound(w)
	case errors.Is(err, lib.ErrConflict):
		gecho.Conflict(w, gecho.WithMessage("This SKU is already in use."), gecho.Send())
	default:
		handling.HandleError(err, failure, prm.logger, w)
	}
}

func (prm *ProductRoutesManager) notFound(w http.ResponseWriter) {
	gecho.NotFound(w, gecho.WithMessage("Product not found"), gecho.Send())
}
