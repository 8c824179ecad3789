// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"catalog_server/database"
	"catalog_server/structs/tables"
	"context"
	"database/sql"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Open returns an empty in-memory catalog database closed at test cleanup
func Open(t testing.TB) *database.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every connection to :memory: is its own database
	sqldb.SetMaxOpenConns(1)

	db := database.Wrap(bun.NewDB(sqldb, sqlitedialect.New()), gecho.NewDefaultLogger(), 0)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, model := range []any{(*tables.Product)(nil), (*tables.ProductGallery)(nil)} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	return db
}
