// Package store is the persistence boundary for the data-service framework: a
// generic, criteria-driven facade over bun that the policy layer composes
// soft-delete, tenant, and caller filters onto.
package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/liaisonhq/liaison/model"
)

// SelectCriteria mutates a select query; criteria compose left to right.
type SelectCriteria func(*bun.SelectQuery) *bun.SelectQuery

// ModelHandlers supplies the type-specific hooks a generic store cannot
// derive on its own.
type ModelHandlers[T model.Entity] struct {
	// NewRecord allocates an empty record for scan targets.
	NewRecord func() T
}

// Store provides typed collection access for a single entity type.
type Store[T model.Entity] struct {
	db       *bun.DB
	handlers ModelHandlers[T]
}

// New constructs a store. A missing NewRecord handler is a programming error.
func New[T model.Entity](db *bun.DB, handlers ModelHandlers[T]) *Store[T] {
	if handlers.NewRecord == nil {
		panic("store: ModelHandlers.NewRecord is required")
	}
	return &Store[T]{db: db, handlers: handlers}
}

// DB exposes the underlying bun handle for schema bootstrap and tests.
func (s *Store[T]) DB() *bun.DB { return s.db }

// NewRecord allocates an empty record via the configured handler.
func (s *Store[T]) NewRecord() T { return s.handlers.NewRecord() }

// ByID fetches a single record by primary key. Returns ErrNotFound when the
// id does not match any row that survives the criteria.
func (s *Store[T]) ByID(ctx context.Context, id uuid.UUID, criteria ...SelectCriteria) (T, error) {
	rec := s.handlers.NewRecord()
	q := s.db.NewSelect().Model(rec).Where("?TableAlias.id = ?", id)
	q = applyCriteria(q, criteria)
	if err := q.Limit(1).Scan(ctx); err != nil {
		var zero T
		return zero, classify(err)
	}
	return rec, nil
}

// List returns every record matching the criteria.
func (s *Store[T]) List(ctx context.Context, criteria ...SelectCriteria) ([]T, error) {
	recs := make([]T, 0)
	q := s.db.NewSelect().Model(&recs)
	q = applyCriteria(q, criteria)
	if err := q.Scan(ctx); err != nil {
		return nil, classify(err)
	}
	return recs, nil
}

// Count returns how many records match the criteria.
func (s *Store[T]) Count(ctx context.Context, criteria ...SelectCriteria) (int, error) {
	q := s.db.NewSelect().Model(s.handlers.NewRecord())
	q = applyCriteria(q, criteria)
	n, err := q.Count(ctx)
	return n, classify(err)
}

// Page returns one window of records plus the total count across the full
// filtered set. The count ignores the window so paging math stays correct.
func (s *Store[T]) Page(ctx context.Context, offset, limit int, criteria ...SelectCriteria) ([]T, int, error) {
	recs := make([]T, 0, limit)
	q := s.db.NewSelect().Model(&recs)
	q = applyCriteria(q, criteria)
	total, err := q.Offset(offset).Limit(limit).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, classify(err)
	}
	return recs, total, nil
}

// Insert persists a new record.
func (s *Store[T]) Insert(ctx context.Context, rec T) error {
	_, err := s.db.NewInsert().Model(rec).Exec(ctx)
	return classify(err)
}

// Update replaces the record guarded by its concurrency token. The version is
// bumped on the way in; a zero-row update means the token went stale
// (ErrConcurrentUpdate) or the row is gone (ErrNotFound).
func (s *Store[T]) Update(ctx context.Context, rec T) error {
	prev := rec.GetVersion()
	rec.BumpVersion()
	res, err := s.db.NewUpdate().
		Model(rec).
		WherePK().
		Where("version = ?", prev).
		Exec(ctx)
	if err != nil {
		return classify(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if rows == 0 {
		exists, err := s.db.NewSelect().
			Model(s.handlers.NewRecord()).
			Where("?TableAlias.id = ?", rec.GetID()).
			Exists(ctx)
		if err != nil {
			return classify(err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConcurrentUpdate
	}
	return nil
}

// Delete hard-removes the record. Returns ErrNotFound when no row matched.
func (s *Store[T]) Delete(ctx context.Context, rec T) error {
	res, err := s.db.NewDelete().Model(rec).WherePK().Exec(ctx)
	if err != nil {
		return classify(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func applyCriteria(q *bun.SelectQuery, criteria []SelectCriteria) *bun.SelectQuery {
	for _, c := range criteria {
		if c != nil {
			q = c(q)
		}
	}
	return q
}

// Where builds a criteria from a raw condition.
func Where(query string, args ...any) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where(query, args...)
	}
}

// ActiveOnly keeps records whose soft-delete flag is still set.
func ActiveOnly() SelectCriteria {
	return Where("?TableAlias.is_active = ?", true)
}

// OwnedBy restricts results to records created by the given actor.
func OwnedBy(id uuid.UUID) SelectCriteria {
	return Where("?TableAlias.created_by_id = ?", id)
}

// OrderBy orders by a single column; the column name is quoted as an
// identifier so caller input cannot smuggle SQL.
func OrderBy(column string, ascending bool) SelectCriteria {
	dir := "ASC"
	if !ascending {
		dir = "DESC"
	}
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("? ?", bun.Ident(strings.ToLower(column)), bun.Safe(dir))
	}
}

// LimitTo caps the number of returned records.
func LimitTo(n int) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Limit(n)
	}
}

// OrderByName is the canonical lookup ordering.
func OrderByName() SelectCriteria {
	return OrderBy("name", true)
}
