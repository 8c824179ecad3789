package lib

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// MapPgError translates postgres error codes into the package sentinels
func MapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code { // SQLSTATE
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		case "P0002": // no_data_found
			return ErrNotFound
		}
	}
	return err
}

// StorageError is a failed write or delete against the file storage
type StorageError struct {
	Op   string // store, delete
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ValidationError maps form fields to the first rule they failed
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Errors: map[string]string{}}
}

// Add records msg for field unless the field already failed an earlier rule
func (e *ValidationError) Add(field, msg string) {
	if _, exists := e.Errors[field]; exists {
		return
	}
	e.Errors[field] = msg
}

func (e *ValidationError) Has(field string) bool {
	_, ok := e.Errors[field]
	return ok
}

func (e *ValidationError) Empty() bool {
	return len(e.Errors) == 0
}

// Fields returns the failing field names, sorted
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields(), ", ")
}
