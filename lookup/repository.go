// Package lookup provides a thin repository for reference-data entities:
// named, soft-deletable rows edited from admin screens and rendered into
// dropdowns. It does not go through the policy engine; lookup tables are
// tenant-global and the admin surface owns access control.
package lookup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/liaisonhq/liaison/model"
	"github.com/liaisonhq/liaison/store"
)

// Repository manages one lookup entity type.
type Repository[T model.Lookup] struct {
	store  *store.Store[T]
	logger *slog.Logger
}

// NewRepository wraps a store for lookup access.
func NewRepository[T model.Lookup](st *store.Store[T], logger *slog.Logger) *Repository[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository[T]{store: st, logger: logger}
}

// ListActive returns the active lookup rows ordered by name. This is the
// dropdown query.
func (r *Repository[T]) ListActive(ctx context.Context) ([]T, error) {
	return r.store.List(ctx, store.ActiveOnly(), store.OrderByName())
}

// ListAll returns every lookup row, retired ones included, ordered by name.
func (r *Repository[T]) ListAll(ctx context.Context) ([]T, error) {
	return r.store.List(ctx, store.OrderByName())
}

// GetByID fetches one lookup row regardless of its active state.
func (r *Repository[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	return r.store.ByID(ctx, id)
}

// Create stamps and inserts a new lookup row.
func (r *Repository[T]) Create(ctx context.Context, rec T) (T, error) {
	model.NormalizeForCreate(rec, time.Now().UTC())
	if err := r.store.Insert(ctx, rec); err != nil {
		var zero T
		return zero, err
	}
	r.logger.Info("created lookup", "id", rec.GetID(), "name", rec.GetName())
	return rec, nil
}

// Update copies the editable fields onto the stored row and persists it.
// Loading the current row first keeps creation stamps intact and lets the
// version check run against the stored token.
func (r *Repository[T]) Update(ctx context.Context, rec T) (T, error) {
	var zero T

	existing, err := r.store.ByID(ctx, rec.GetID())
	if err != nil {
		return zero, err
	}
	existing.SetName(rec.GetName())
	existing.SetActive(rec.Active())
	existing.SetUpdatedAt(time.Now().UTC())

	if err := r.store.Update(ctx, existing); err != nil {
		return zero, err
	}
	r.logger.Info("updated lookup", "id", existing.GetID(), "name", existing.GetName())
	return existing, nil
}

// Delete removes a lookup row outright. Deleting a missing row is a no-op;
// retiring rather than deleting is SetActive plus Update.
func (r *Repository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := r.store.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := r.store.Delete(ctx, rec); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	r.logger.Info("deleted lookup", "id", id)
	return nil
}
