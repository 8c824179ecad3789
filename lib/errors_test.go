package lib

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestValidationErrorKeepsFirstMessage(t *testing.T) {
	errs := NewValidationError()
	errs.Add("price", "The product price is required.")
	errs.Add("price", "The product price must be a number.")
	errs.Add("name", "The product name is required.")

	assert.False(t, errs.Empty())
	assert.True(t, errs.Has("price"))
	assert.Equal(t, "The product price is required.", errs.Errors["price"])
	assert.Equal(t, []string{"name", "price"}, errs.Fields())
	assert.Equal(t, "validation failed: name, price", errs.Error())
}

func TestMapPgError(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"}
	assert.ErrorIs(t, MapPgError(fmt.Errorf("insert: %w", unique)), ErrConflict)

	noData := &pgconn.PgError{Code: "P0002"}
	assert.ErrorIs(t, MapPgError(noData), ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, MapPgError(other))
}

func TestStorageErrorUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("store feature image: %w", &StorageError{Op: "store", Path: "products/a.png", Err: cause})

	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `storage store "products/a.png": disk full`, storageErr.Error())
}
