package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/liaisonhq/liaison/lookup"
	"github.com/liaisonhq/liaison/model"
	"github.com/liaisonhq/liaison/store"
)

// LookupResource serves the admin surface of one lookup type. Mount it
// behind an admin-only route group; the repository itself does not gate
// access.
type LookupResource[T model.Lookup] struct {
	repo   *lookup.Repository[T]
	fresh  func() T
	logger *slog.Logger
}

// NewLookupResource wraps a lookup repository for HTTP exposure.
func NewLookupResource[T model.Lookup](repo *lookup.Repository[T], fresh func() T, logger *slog.Logger) *LookupResource[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &LookupResource[T]{repo: repo, fresh: fresh, logger: logger}
}

// Mount registers the lookup routes on a router.
func (res *LookupResource[T]) Mount(r chi.Router) {
	r.Get("/", res.list)
	r.Post("/", res.create)
	r.Get("/{id}", res.get)
	r.Put("/{id}", res.update)
	r.Delete("/{id}", res.remove)
}

func (res *LookupResource[T]) list(w http.ResponseWriter, r *http.Request) {
	var (
		recs []T
		err  error
	)
	if r.URL.Query().Get("include_inactive") == "true" {
		recs, err = res.repo.ListAll(r.Context())
	} else {
		recs, err = res.repo.ListActive(r.Context())
	}
	if err != nil {
		res.writeError(w, err)
		return
	}
	writeJSON(w, res.logger, http.StatusOK, recs)
}

func (res *LookupResource[T]) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	rec, err := res.repo.GetByID(r.Context(), id)
	if err != nil {
		res.writeError(w, err)
		return
	}
	writeJSON(w, res.logger, http.StatusOK, rec)
}

func (res *LookupResource[T]) create(w http.ResponseWriter, r *http.Request) {
	rec := res.fresh()
	if err := json.NewDecoder(r.Body).Decode(rec); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	created, err := res.repo.Create(r.Context(), rec)
	if err != nil {
		res.writeError(w, err)
		return
	}
	writeJSON(w, res.logger, http.StatusCreated, created)
}

func (res *LookupResource[T]) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	rec := res.fresh()
	if err := json.NewDecoder(r.Body).Decode(rec); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	rec.SetID(id)
	updated, err := res.repo.Update(r.Context(), rec)
	if err != nil {
		res.writeError(w, err)
		return
	}
	writeJSON(w, res.logger, http.StatusOK, updated)
}

func (res *LookupResource[T]) remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := res.repo.Delete(r.Context(), id); err != nil {
		res.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (res *LookupResource[T]) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, store.ErrConcurrentUpdate):
		http.Error(w, "conflicting update", http.StatusConflict)
	case errors.Is(err, store.ErrUniqueViolation):
		http.Error(w, "name already in use", http.StatusUnprocessableEntity)
	default:
		res.logger.Error("lookup request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
