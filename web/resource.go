// Package web exposes the data services over HTTP with chi. Handlers are
// generic per entity type; the envelope's error kind drives the status code.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/liaisonhq/liaison/dataservice"
	"github.com/liaisonhq/liaison/model"
)

// statusClientClosedRequest is the nginx convention for a cancelled request.
const statusClientClosedRequest = 499

// Resource serves the CRUD surface of one entity type.
type Resource[T model.Entity] struct {
	svc    *dataservice.Service[T]
	hub    *FeedbackHub
	logger *slog.Logger
}

// NewResource wraps a data service for HTTP exposure. The hub is optional;
// when present, mutating handlers queue feedback for the caller.
func NewResource[T model.Entity](svc *dataservice.Service[T], hub *FeedbackHub, logger *slog.Logger) *Resource[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resource[T]{svc: svc, hub: hub, logger: logger}
}

func (res *Resource[T]) feedback(r *http.Request, level FeedbackLevel, message string) {
	if res.hub != nil {
		res.hub.Push(ActorFromContext(r.Context()), level, message)
	}
}

// Mount registers the resource's routes on a router.
func (res *Resource[T]) Mount(r chi.Router) {
	r.Get("/", res.list)
	r.Post("/", res.create)
	r.Get("/{id}", res.get)
	r.Put("/{id}", res.update)
	r.Delete("/{id}", res.remove)
}

func (res *Resource[T]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := res.pathID(w, r)
	if !ok {
		return
	}
	writeResult(w, res.logger, res.svc.GetByID(r.Context(), id, ActorFromContext(r.Context())), http.StatusOK)
}

func (res *Resource[T]) list(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())
	q := r.URL.Query()

	if q.Get("page") == "" && q.Get("page_size") == "" {
		writeResult(w, res.logger, res.svc.GetAll(r.Context(), actor), http.StatusOK)
		return
	}

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	ascending := q.Get("order") != "desc"
	result := res.svc.GetPaged(r.Context(), page, pageSize, nil, q.Get("order_by"), ascending, actor)
	writeResult(w, res.logger, result, http.StatusOK)
}

func (res *Resource[T]) create(w http.ResponseWriter, r *http.Request) {
	rec := res.svc.NewRecord()
	if err := json.NewDecoder(r.Body).Decode(rec); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	result := res.svc.Create(r.Context(), rec, ActorFromContext(r.Context()))
	if result.OK {
		res.feedback(r, FeedbackSuccess, res.svc.Name()+" created")
	}
	writeResult(w, res.logger, result, http.StatusCreated)
}

func (res *Resource[T]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := res.pathID(w, r)
	if !ok {
		return
	}
	rec := res.svc.NewRecord()
	if err := json.NewDecoder(r.Body).Decode(rec); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	rec.SetID(id)
	result := res.svc.Update(r.Context(), rec, ActorFromContext(r.Context()))
	if result.OK {
		res.feedback(r, FeedbackSuccess, res.svc.Name()+" updated")
	}
	writeResult(w, res.logger, result, http.StatusOK)
}

func (res *Resource[T]) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := res.pathID(w, r)
	if !ok {
		return
	}
	result := res.svc.Delete(r.Context(), id, ActorFromContext(r.Context()))
	if result.OK {
		res.feedback(r, FeedbackSuccess, res.svc.Name()+" deleted")
	}
	writeResult(w, res.logger, result, http.StatusOK)
}

func (res *Resource[T]) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// errorBody is the JSON shape of a failed operation.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeResult[R any](w http.ResponseWriter, logger *slog.Logger, result dataservice.Result[R], okStatus int) {
	if result.OK {
		writeJSON(w, logger, okStatus, result.Value)
		return
	}
	writeJSON(w, logger, statusFor(result.ErrorKind), errorBody{
		Error: result.ErrorMessage,
		Kind:  result.ErrorKind.String(),
	})
}

func statusFor(kind dataservice.ErrorKind) int {
	switch kind {
	case dataservice.KindValidation:
		return http.StatusUnprocessableEntity
	case dataservice.KindUnauthorized:
		return http.StatusForbidden
	case dataservice.KindNotFound:
		return http.StatusNotFound
	case dataservice.KindConcurrency:
		return http.StatusConflict
	case dataservice.KindCancelled:
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	if logger == nil {
		logger = slog.Default()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Debug("response encoding failed", "error", err)
	}
}
