package database

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// QueryBuilder provides a fluent, type-safe API for building database queries
type QueryBuilder[T any] struct {
	db bun.IDB

	// Query clauses
	wheres    []*WhereClause
	orders    []*OrderClause
	limitVal  *int
	offsetVal *int

	// Relations to preload
	relations []*RelationClause

	// Timeout
	timeout time.Duration
}

// WhereClause represents a WHERE condition
type WhereClause struct {
	Column   string
	Operator string
	Value    any
	IsRaw    bool
	RawSQL   string
	RawArgs  []any
	Negate   bool // For NOT conditions
}

// OrderClause represents an ORDER BY clause
type OrderClause struct {
	Column    string
	Direction OrderDirection
}

// RelationClause is a relation to preload, optionally ordered
type RelationClause struct {
	Name   string
	Orders []*OrderClause
}

// Query creates a new QueryBuilder instance. db may be the database or a transaction.
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Where adds a WHERE column = value condition
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a WHERE condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
	})
	return q
}

// WhereNot adds a WHERE NOT condition
func (q *QueryBuilder[T]) WhereNot(column string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "=",
		Value:    value,
		Negate:   true,
	})
	return q
}

// WhereIn adds a WHERE column IN (...) condition; values must be a slice
func (q *QueryBuilder[T]) WhereIn(column string, values any) *QueryBuilder[T] {
	return q.WhereRaw(fmt.Sprintf("%s IN (?)", column), bun.In(values))
}

// WhereRaw adds a raw SQL WHERE condition
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		IsRaw:   true,
		RawSQL:  sql,
		RawArgs: args,
	})
	return q
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{
		Column:    column,
		Direction: direction,
	})
	return q
}

// Limit sets the LIMIT clause
func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = &limit
	return q
}

// Offset sets the OFFSET clause
func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offsetVal = &offset
	return q
}

// Relation preloads a bun relation, ordering the related rows by the given clauses
func (q *QueryBuilder[T]) Relation(name string, orders ...*OrderClause) *QueryBuilder[T] {
	q.relations = append(q.relations, &RelationClause{Name: name, Orders: orders})
	return q
}

// Timeout bounds the execution time of the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

// By is shorthand for an OrderClause, used with Relation
func By(column string, direction OrderDirection) *OrderClause {
	return &OrderClause{Column: column, Direction: direction}
}

func (o *OrderClause) toSQL() string {
	return fmt.Sprintf("%s %s", o.Column, o.Direction)
}

// condition renders a WHERE clause as bun query text and args
func (w *WhereClause) condition() (string, []any) {
	if w.IsRaw {
		return w.RawSQL, w.RawArgs
	}
	if w.Negate {
		return fmt.Sprintf("NOT (%s %s ?)", w.Column, w.Operator), []any{w.Value}
	}
	if w.Operator == "IS NULL" || w.Operator == "IS NOT NULL" {
		return fmt.Sprintf("%s %s", w.Column, w.Operator), nil
	}
	return fmt.Sprintf("%s %s ?", w.Column, w.Operator), []any{w.Value}
}

// buildBunQuery builds a select over model with every clause applied
func (q *QueryBuilder[T]) buildBunQuery(model any) *bun.SelectQuery {
	query := q.buildCountQuery(model)

	for _, rel := range q.relations {
		orders := rel.Orders
		if len(orders) == 0 {
			query = query.Relation(rel.Name)
			continue
		}
		query = query.Relation(rel.Name, func(sq *bun.SelectQuery) *bun.SelectQuery {
			for _, o := range orders {
				sq = sq.OrderExpr(o.toSQL())
			}
			return sq
		})
	}

	for _, o := range q.orders {
		query = query.OrderExpr(o.toSQL())
	}

	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}
	if q.offsetVal != nil {
		query = query.Offset(*q.offsetVal)
	}

	return query
}

// buildCountQuery builds a select with only the WHERE clauses applied
func (q *QueryBuilder[T]) buildCountQuery(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)
	for _, w := range q.wheres {
		sql, args := w.condition()
		query = query.Where(sql, args...)
	}
	return query
}
