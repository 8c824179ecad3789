package services

import (
	"catalog_server/database"
	"catalog_server/lib"
	"catalog_server/structs/tables"
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// ProductLookup answers the cross-row questions asked during validation
type ProductLookup interface {
	// SKUTaken reports whether another product (id != exceptID) already uses sku
	SKUTaken(ctx context.Context, sku string, exceptID int64) (bool, error)
	// ExistingGalleryIDs returns which of ids exist as gallery rows, for any product
	ExistingGalleryIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// ProductStore persists products and their gallery rows
type ProductStore interface {
	ProductLookup

	// ListProducts returns one page, newest first, with galleries, and the total count
	ListProducts(ctx context.Context, page, perPage int) ([]tables.Product, int, error)
	// FindProduct returns the product with its ordered galleries or lib.ErrNotFound
	FindProduct(ctx context.Context, id int64) (*tables.Product, error)
	InsertProduct(ctx context.Context, product *tables.Product) error
	UpdateProduct(ctx context.Context, id int64, values map[string]any) error
	// DeleteProduct removes the product and its gallery rows
	DeleteProduct(ctx context.Context, id int64) error

	InsertGallery(ctx context.Context, gallery *tables.ProductGallery) error
	// FindGalleries returns the rows among ids that belong to productID
	FindGalleries(ctx context.Context, productID int64, ids []int64) ([]tables.ProductGallery, error)
	DeleteGallery(ctx context.Context, id int64) error
	// MaxGallerySortOrder reports the highest sort_order of the product's galleries, ok=false when it has none
	MaxGallerySortOrder(ctx context.Context, productID int64) (int, bool, error)
}

var galleryOrder = []*database.OrderClause{
	database.By("g.sort_order", database.ASC),
	database.By("g.id", database.ASC),
}

// ProductRepository is the bun-backed ProductStore
type ProductRepository struct {
	db      *database.DB
	timeout time.Duration
}

func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{
		db:      db,
		timeout: 10 * time.Second,
	}
}

func (pr *ProductRepository) ListProducts(ctx context.Context, page, perPage int) ([]tables.Product, int, error) {
	query := database.Query[tables.Product](pr.db).
		Relation("Galleries", galleryOrder...).
		OrderBy("p.created_at", database.DESC).
		OrderBy("p.id", database.DESC).
		Timeout(pr.timeout)

	result, err := database.Paginate(query, ctx, page, perPage)
	if err != nil {
		return nil, 0, err
	}

	for i := range result.Data {
		withGalleries(&result.Data[i])
	}

	return result.Data, result.Pagination.Total, nil
}

func (pr *ProductRepository) FindProduct(ctx context.Context, id int64) (*tables.Product, error) {
	product, err := database.Query[tables.Product](pr.db).
		Where("p.id", id).
		Relation("Galleries", galleryOrder...).
		Timeout(pr.timeout).
		First(ctx)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}

	return withGalleries(product), nil
}

func (pr *ProductRepository) InsertProduct(ctx context.Context, product *tables.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := database.Query[tables.Product](pr.db).Insert(ctx, product); err != nil {
		return lib.MapPgError(err)
	}

	withGalleries(product)
	return nil
}

func (pr *ProductRepository) UpdateProduct(ctx context.Context, id int64, values map[string]any) error {
	values["updated_at"] = time.Now().UTC()

	affected, err := database.Query[tables.Product](pr.db).
		Where("id", id).
		Update(ctx, values)
	if err != nil {
		return lib.MapPgError(err)
	}
	if affected == 0 {
		return lib.ErrNotFound
	}

	return nil
}

func (pr *ProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	return database.Transaction(pr.db, ctx, func(ctx context.Context, tx bun.IDB) error {
		// The foreign key cascades on postgres; deleting explicitly keeps other dialects consistent
		if _, err := database.Query[tables.ProductGallery](tx).Where("product_id", id).Delete(ctx); err != nil {
			return err
		}

		affected, err := database.DeleteByID[tables.Product](tx, ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return lib.ErrNotFound
		}
		return nil
	})
}

func (pr *ProductRepository) InsertGallery(ctx context.Context, gallery *tables.ProductGallery) error {
	now := time.Now().UTC()
	gallery.CreatedAt = now
	gallery.UpdatedAt = now

	if _, err := database.Query[tables.ProductGallery](pr.db).Insert(ctx, gallery); err != nil {
		return lib.MapPgError(err)
	}
	return nil
}

func (pr *ProductRepository) FindGalleries(ctx context.Context, productID int64, ids []int64) ([]tables.ProductGallery, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	return database.Query[tables.ProductGallery](pr.db).
		Where("product_id", productID).
		WhereIn("id", ids).
		OrderBy("sort_order", database.ASC).
		Timeout(pr.timeout).
		All(ctx)
}

func (pr *ProductRepository) DeleteGallery(ctx context.Context, id int64) error {
	if _, err := database.DeleteByID[tables.ProductGallery](pr.db, ctx, id); err != nil {
		return fmt.Errorf("failed to delete gallery %d: %w", id, err)
	}
	return nil
}

func (pr *ProductRepository) MaxGallerySortOrder(ctx context.Context, productID int64) (int, bool, error) {
	maxOrder, ok, err := database.Query[tables.ProductGallery](pr.db).
		Where("product_id", productID).
		Max(ctx, "sort_order")
	return int(maxOrder), ok, err
}

func (pr *ProductRepository) SKUTaken(ctx context.Context, sku string, exceptID int64) (bool, error) {
	query := database.Query[tables.Product](pr.db).Where("sku", sku)
	if exceptID > 0 {
		query = query.WhereNot("id", exceptID)
	}
	return query.Exists(ctx)
}

func (pr *ProductRepository) ExistingGalleryIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	found, err := database.Query[tables.ProductGallery](pr.db).
		WhereIn("id", ids).
		Pluck(ctx, "id")
	if err != nil {
		return nil, err
	}

	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

// withGalleries normalizes an unloaded relation to an empty list
func withGalleries(product *tables.Product) *tables.Product {
	if product.Galleries == nil {
		product.Galleries = []tables.ProductGallery{}
	}
	return product
}
