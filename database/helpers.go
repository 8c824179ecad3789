package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Transaction executes fn within a database transaction. fn receives the
// transaction as a bun.IDB so query builders can run on it.
func Transaction(db *DB, ctx context.Context, fn func(ctx context.Context, tx bun.IDB) error) error {
	if db == nil {
		return fmt.Errorf("database instance not initialized")
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

// Pagination represents pagination parameters
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// PaginationResult wraps paginated data with metadata
type PaginationResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate applies pagination to a query builder and returns results with metadata
func Paginate[T any](q *QueryBuilder[T], ctx context.Context, page, pageSize int) (*PaginationResult[T], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100 // Max page size
	}

	total, err := q.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	// Pages past the end are empty but still report the total
	data := []T{}
	offset := (page - 1) * pageSize
	if offset < total {
		data, err = q.Limit(pageSize).Offset(offset).All(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get paginated data: %w", err)
		}
	}

	return &PaginationResult[T]{
		Data: data,
		Pagination: Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	}, nil
}

// FindByID is a helper to find a record by ID
func FindByID[T any](db bun.IDB, ctx context.Context, id any) (*T, error) {
	return Query[T](db).Where("id", id).First(ctx)
}

// DeleteByID is a helper to delete a record by ID
func DeleteByID[T any](db bun.IDB, ctx context.Context, id any) (int, error) {
	return Query[T](db).Where("id", id).Delete(ctx)
}
