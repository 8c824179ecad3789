package services

import (
	"catalog_server/lib"
	"catalog_server/structs"
	"catalog_server/structs/tables"
	"context"
	"fmt"
	"time"

	"github.com/MonkyMars/gecho"
)

// ProductsPerPage is the fixed page size of the product list
const ProductsPerPage = 10

const (
	MessageProductCreated = "Product created successfully."
	MessageProductUpdated = "Product updated successfully."
	MessageProductDeleted = "Product deleted successfully."
)

// ProductService runs the product workflows: validation, image storage,
// gallery reconciliation and row mutation, one request at a time.
// File writes and row writes are not atomic together; a failure part way
// through can leave an orphaned file behind.
type ProductService struct {
	logger    *gecho.Logger
	store     ProductStore
	files     FileStorage
	cache     ProductCache // optional
	validator *ProductValidator
}

func NewProductService(logger *gecho.Logger, store ProductStore, files FileStorage, cache ProductCache, maxImageKB int64) *ProductService {
	return &ProductService{
		logger:    logger,
		store:     store,
		files:     files,
		cache:     cache,
		validator: NewProductValidator(store, maxImageKB),
	}
}

// ListProducts returns one page of products, newest first, with their galleries
func (ps *ProductService) ListProducts(ctx context.Context, page int, path string) (*structs.Paginator[tables.Product], error) {
	startTime := time.Now()
	if page < 1 {
		page = 1
	}

	if ps.cache != nil {
		cached, err := ps.cache.GetProductPage(ctx, page)
		if err != nil {
			ps.logger.Warn("Failed to get product page from cache", gecho.Field("error", err), gecho.Field("page", page))
		} else if cached != nil {
			ps.logger.Debug("Product page retrieved from cache", gecho.Field("page", page), gecho.Field("duration", time.Since(startTime)))
			return lib.BuildPaginator(cached.Items, cached.Total, page, ProductsPerPage, path), nil
		}
	}

	items, total, err := ps.store.ListProducts(ctx, page, ProductsPerPage)
	if err != nil {
		ps.logger.Error("Failed to fetch products", gecho.Field("error", err), gecho.Field("page", page))
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if ps.cache != nil {
		if err := ps.cache.SetProductPage(ctx, page, items, total); err != nil {
			ps.logger.Warn("Failed to cache product page", gecho.Field("error", err), gecho.Field("page", page))
		}
	}

	ps.logger.Debug("Products fetched successfully",
		gecho.Field("page", page),
		gecho.Field("count", len(items)),
		gecho.Field("total", total),
		gecho.Field("duration", time.Since(startTime)),
	)

	return lib.BuildPaginator(items, total, page, ProductsPerPage, path), nil
}

// GetProduct returns a product with its ordered galleries, or lib.ErrNotFound
func (ps *ProductService) GetProduct(ctx context.Context, id int64) (*tables.Product, error) {
	startTime := time.Now()

	if ps.cache != nil {
		cached, err := ps.cache.GetProduct(ctx, id)
		if err != nil {
			ps.logger.Warn("Failed to get product from cache", gecho.Field("error", err), gecho.Field("id", id))
		} else if cached != nil {
			ps.logger.Debug("Product retrieved from cache", gecho.Field("id", id), gecho.Field("duration", time.Since(startTime)))
			return withGalleries(cached), nil
		}
	}

	product, err := ps.store.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if ps.cache != nil {
		if err := ps.cache.SetProduct(ctx, product); err != nil {
			ps.logger.Warn("Failed to cache product", gecho.Field("error", err), gecho.Field("id", id))
		}
	}

	return product, nil
}

// CreateProduct validates form and creates the product with its feature image
// and gallery. The first gallery image becomes the primary one.
func (ps *ProductService) CreateProduct(ctx context.Context, form *structs.ProductForm) (*structs.ProductResult, error) {
	startTime := time.Now()

	input, err := ps.validator.Validate(ctx, form, 0)
	if err != nil {
		return nil, err
	}

	product := &tables.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		SKU:         input.SKU,
		IsActive:    true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if input.FeatureImage != nil {
		stored, err := ps.files.Store(ctx, FeatureImageDir, input.FeatureImage)
		if err != nil {
			return nil, fmt.Errorf("failed to store feature image: %w", err)
		}
		product.FeatureImage = &stored
	}

	if err := ps.store.InsertProduct(ctx, product); err != nil {
		ps.logger.Error("Failed to create product", gecho.Field("error", err), gecho.Field("name", product.Name))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	defer ps.invalidate(ctx, product.ID)

	if err := ps.addGalleryImages(ctx, product.ID, input.GalleryImages, 0, true); err != nil {
		return nil, err
	}

	created, err := ps.store.FindProduct(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload product %d: %w", product.ID, err)
	}

	ps.logger.Info("Product created successfully",
		gecho.Field("id", created.ID),
		gecho.Field("galleries", len(created.Galleries)),
		gecho.Field("duration", time.Since(startTime)),
	)

	return &structs.ProductResult{Product: created, Message: MessageProductCreated}, nil
}

// UpdateProduct validates form and applies it to the product. Submitted
// removals are scoped to this product; new gallery images are appended after
// the current last one and never become primary.
func (ps *ProductService) UpdateProduct(ctx context.Context, id int64, form *structs.ProductForm) (*structs.ProductResult, error) {
	startTime := time.Now()

	product, err := ps.store.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	input, err := ps.validator.Validate(ctx, form, id)
	if err != nil {
		return nil, err
	}

	// Files and rows may change from here on, even if a later step fails
	defer ps.invalidate(ctx, id)

	values := map[string]any{
		"name":  input.Name,
		"price": input.Price,
		"stock": input.Stock,
	}
	if input.HasDescription {
		values["description"] = input.Description
	}
	if input.HasSKU {
		values["sku"] = input.SKU
	}
	if input.IsActive != nil {
		values["is_active"] = *input.IsActive
	}

	if input.FeatureImage != nil {
		if product.FeatureImage != nil {
			if err := ps.files.Delete(ctx, *product.FeatureImage); err != nil {
				return nil, fmt.Errorf("failed to delete old feature image: %w", err)
			}
		}

		stored, err := ps.files.Store(ctx, FeatureImageDir, input.FeatureImage)
		if err != nil {
			return nil, fmt.Errorf("failed to store feature image: %w", err)
		}
		values["feature_image"] = stored
	}

	removed, err := ps.removeGalleryImages(ctx, id, input.RemoveGalleryIDs)
	if err != nil {
		return nil, err
	}

	if err := ps.store.UpdateProduct(ctx, id, values); err != nil {
		ps.logger.Error("Failed to update product", gecho.Field("error", err), gecho.Field("id", id))
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if len(input.GalleryImages) > 0 {
		next := 0
		maxOrder, ok, err := ps.store.MaxGallerySortOrder(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to read gallery order: %w", err)
		}
		if ok {
			next = maxOrder + 1
		}

		if err := ps.addGalleryImages(ctx, id, input.GalleryImages, next, false); err != nil {
			return nil, err
		}
	}

	updated, err := ps.store.FindProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload product %d: %w", id, err)
	}

	ps.logger.Info("Product updated successfully",
		gecho.Field("id", id),
		gecho.Field("removed_galleries", removed),
		gecho.Field("added_galleries", len(input.GalleryImages)),
		gecho.Field("duration", time.Since(startTime)),
	)

	return &structs.ProductResult{Product: updated, Message: MessageProductUpdated}, nil
}

// DeleteProduct removes the product's files, then the product and its gallery rows
func (ps *ProductService) DeleteProduct(ctx context.Context, id int64) (*structs.ProductResult, error) {
	startTime := time.Now()

	product, err := ps.store.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	defer ps.invalidate(ctx, id)

	if product.FeatureImage != nil {
		if err := ps.files.Delete(ctx, *product.FeatureImage); err != nil {
			return nil, fmt.Errorf("failed to delete feature image: %w", err)
		}
	}

	for _, gallery := range product.Galleries {
		if err := ps.files.Delete(ctx, gallery.ImagePath); err != nil {
			return nil, fmt.Errorf("failed to delete gallery image %d: %w", gallery.ID, err)
		}
	}

	if err := ps.store.DeleteProduct(ctx, id); err != nil {
		ps.logger.Error("Failed to delete product", gecho.Field("error", err), gecho.Field("id", id))
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	ps.logger.Info("Product deleted successfully",
		gecho.Field("id", id),
		gecho.Field("galleries", len(product.Galleries)),
		gecho.Field("duration", time.Since(startTime)),
	)

	return &structs.ProductResult{Message: MessageProductDeleted}, nil
}

// addGalleryImages stores files and inserts their rows with consecutive sort
// orders starting at first. Only the first row of a primary batch is primary.
func (ps *ProductService) addGalleryImages(ctx context.Context, productID int64, files []*structs.UploadedFile, first int, primaryBatch bool) error {
	for i, file := range files {
		stored, err := ps.files.Store(ctx, GalleryImageDir, file)
		if err != nil {
			return fmt.Errorf("failed to store gallery image %d: %w", i, err)
		}

		gallery := &tables.ProductGallery{
			ProductID: productID,
			ImagePath: stored,
			ImageName: nullable(file.Name),
			SortOrder: first + i,
			IsPrimary: primaryBatch && i == 0,
		}
		if err := ps.store.InsertGallery(ctx, gallery); err != nil {
			ps.logger.Error("Failed to insert gallery row", gecho.Field("error", err), gecho.Field("product_id", productID))
			return fmt.Errorf("failed to insert gallery image %d: %w", i, err)
		}
	}
	return nil
}

// removeGalleryImages deletes the files and rows of ids that belong to productID.
// Ids owned by other products are ignored.
func (ps *ProductService) removeGalleryImages(ctx context.Context, productID int64, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	galleries, err := ps.store.FindGalleries(ctx, productID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to load galleries for removal: %w", err)
	}

	if skipped := len(ids) - len(galleries); skipped > 0 {
		ps.logger.Debug("Ignoring gallery ids not owned by product",
			gecho.Field("product_id", productID),
			gecho.Field("skipped", skipped),
		)
	}

	for _, gallery := range galleries {
		if err := ps.files.Delete(ctx, gallery.ImagePath); err != nil {
			return 0, fmt.Errorf("failed to delete gallery image %d: %w", gallery.ID, err)
		}
		if err := ps.store.DeleteGallery(ctx, gallery.ID); err != nil {
			return 0, err
		}
	}

	return len(galleries), nil
}

// invalidate drops the product and every cached list page
func (ps *ProductService) invalidate(ctx context.Context, id int64) {
	if ps.cache == nil {
		return
	}
	if err := ps.cache.InvalidateProduct(ctx, id); err != nil {
		ps.logger.Warn("Failed to invalidate product caches", gecho.Field("error", err), gecho.Field("id", id))
	}
}
