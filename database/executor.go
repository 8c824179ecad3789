package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// withTimeout applies the builder timeout, if any
func (q *QueryBuilder[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}

// All executes the query and returns all matching records with automatic retry
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()
	var data []T

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := WithRetry(ctx, func() error {
		data = nil // Reset on retry
		return q.buildBunQuery(&data).Scan(ctx)
	})

	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// First executes the query and returns the first matching record with automatic retry.
// A missing row yields (nil, nil).
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	start := time.Now()
	var data T

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := WithRetry(ctx, func() error {
		return q.buildBunQuery(&data).Limit(1).Scan(ctx)
	})

	if err != nil {
		// Return nil for no rows instead of error
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", err, time.Since(start))
	}

	return &data, nil
}

// Count executes the query and returns the count of matching records with automatic retry
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	start := time.Now()
	var count int

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := WithRetry(ctx, func() error {
		var err error
		count, err = q.buildCountQuery((*T)(nil)).Count(ctx)
		return err
	})

	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w (took %v)", err, time.Since(start))
	}

	return count, nil
}

// Exists checks if any records match the query
func (q *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Pluck returns a single int64 column of every matching record
func (q *QueryBuilder[T]) Pluck(ctx context.Context, column string) ([]int64, error) {
	start := time.Now()
	var values []int64

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := WithRetry(ctx, func() error {
		values = nil // Reset on retry
		return q.buildCountQuery((*T)(nil)).Column(column).Scan(ctx, &values)
	})

	if err != nil {
		return nil, fmt.Errorf("failed to execute pluck query: %w (took %v)", err, time.Since(start))
	}

	return values, nil
}

// Max returns the largest value of an integer column, and false when no rows match
func (q *QueryBuilder[T]) Max(ctx context.Context, column string) (int64, bool, error) {
	start := time.Now()
	var result sql.NullInt64

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := WithRetry(ctx, func() error {
		return q.buildCountQuery((*T)(nil)).
			ColumnExpr(fmt.Sprintf("MAX(%s)", column)).
			Scan(ctx, &result)
	})

	if err != nil {
		return 0, false, fmt.Errorf("failed to execute max query: %w (took %v)", err, time.Since(start))
	}

	return result.Int64, result.Valid, nil
}

// Insert inserts a new record, filling generated columns back into data
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	start := time.Now()

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := WithRetry(ctx, func() error {
		_, err := q.db.NewInsert().Model(data).Returning("*").Exec(ctx)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// Update sets the given columns on records matching the query with automatic retry
func (q *QueryBuilder[T]) Update(ctx context.Context, values map[string]any) (int, error) {
	start := time.Now()
	var rowsAffected int64

	if len(values) == 0 {
		return 0, nil
	}

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := WithRetry(ctx, func() error {
		query := q.db.NewUpdate().Model((*T)(nil))

		for key, value := range values {
			query = query.Set("? = ?", bun.Ident(key), value)
		}
		for _, w := range q.wheres {
			sql, args := w.condition()
			query = query.Where(sql, args...)
		}

		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w (took %v)", err, time.Since(start))
	}

	return int(rowsAffected), nil
}

// Delete deletes records matching the query with automatic retry
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	start := time.Now()
	var rowsAffected int64

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := WithRetry(ctx, func() error {
		query := q.db.NewDelete().Model((*T)(nil))

		for _, w := range q.wheres {
			sql, args := w.condition()
			query = query.Where(sql, args...)
		}

		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to execute delete query: %w (took %v)", err, time.Since(start))
	}

	return int(rowsAffected), nil
}
