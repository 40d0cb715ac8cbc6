// Package repository handles all interactions with the database.
//
// It contains the raw SQL for every entity and relationship of the forum:
// find/save per entity, the join queries behind followers and likers, and
// the ranking and karma aggregates.
//
// Conventions shared by every repository:
//   - single-row lookups return errs.ErrNotFound (via errors.Is) on a miss
//   - multi-row lookups return a non-nil, possibly empty slice
//   - counts return 0, never a not-found error
//   - store failures come back as errs store errors wrapping the driver error
//
// The SQL is tested against PostgreSQL in repository_test.go; those tests
// need QUESTIONS_TEST_DATABASE_URL and are mandatory when CI is set.
package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/questions/internal/database"
	"github.com/deppfellow/questions/internal/errs"
	"github.com/deppfellow/questions/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

// Repository is the contract every entity repository satisfies.
//
// Save inserts a transient entity (ID == 0) and adopts the store-assigned
// id, or updates a persisted one in place by id.
type Repository[T any] interface {
	FindByID(ctx context.Context, id int64) (*T, error)
	Save(ctx context.Context, entity *T) error
}

// findOne runs a lookup by primary key and scans the single row by column name.
func findOne[T any](ctx context.Context, db database.Querier, entity, table string, id int64, sql string) (*T, error) {
	rows, err := db.Query(ctx, sql, id)
	if err != nil {
		return nil, sqlerr.HandleError(err, table)
	}

	item, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NotFound(entity, id)
	}
	if err != nil {
		return nil, sqlerr.HandleError(err, table)
	}
	return item, nil
}

// findAll runs a multi-row query. The result is never nil.
func findAll[T any](ctx context.Context, db database.Querier, table, sql string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, sqlerr.HandleError(err, table)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, sqlerr.HandleError(err, table)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// insert runs an INSERT ... RETURNING id and returns the new id.
func insert(ctx context.Context, db database.Querier, table, sql string, args ...any) (int64, error) {
	var id int64
	if err := db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, sqlerr.HandleError(err, table)
	}
	return id, nil
}

// update runs an UPDATE keyed by id. Zero affected rows means the row is gone.
func update(ctx context.Context, db database.Querier, entity, table string, id int64, sql string, args ...any) error {
	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return sqlerr.HandleError(err, table)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound(entity, id)
	}
	return nil
}

// count runs a single-value COUNT query.
func count(ctx context.Context, db database.Querier, table, sql string, args ...any) (int64, error) {
	var n int64
	if err := db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, sqlerr.HandleError(err, table)
	}
	return n, nil
}

// checkLimit rejects a negative ranking size.
func checkLimit(n int) error {
	if n < 0 {
		return errs.NewValidationError("Validation failed", []errs.FieldError{
			{Field: "limit", Error: "must be at least 0"},
		})
	}
	return nil
}
