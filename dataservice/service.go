// Package dataservice is the policy-composition engine of the framework: a
// single generic service layering caching, authorization, tenant isolation,
// soft delete, paging, and search over any entity satisfying the identity
// contract. Policy is driven entirely by Options plus the capabilities the
// entity type declares.
package dataservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/liaisonhq/liaison/auth"
	"github.com/liaisonhq/liaison/cache"
	"github.com/liaisonhq/liaison/model"
	"github.com/liaisonhq/liaison/store"
)

// OperationRecorder receives operation outcomes and cache lookup results.
// The metrics package provides the production implementation.
type OperationRecorder interface {
	Operation(entity, operation, outcome string)
	CacheLookup(entity string, hit bool)
}

// Service is the generic data service for one entity type. Instances are
// cheap and safe for concurrent use; the cache and store they share are the
// only cross-request state.
type Service[T model.Entity] struct {
	store   *store.Store[T]
	cache   cache.CacheService
	keys    cache.KeySerializer
	ring    *cache.Keyring
	opts    Options
	logger  *slog.Logger
	metrics OperationRecorder

	name          string
	softDeletable bool
	auditable     bool
}

// Option configures optional service collaborators.
type Option[T model.Entity] func(*Service[T])

// WithLogger attaches a structured logger.
func WithLogger[T model.Entity](logger *slog.Logger) Option[T] {
	return func(s *Service[T]) { s.logger = logger }
}

// WithMetrics attaches an operation recorder.
func WithMetrics[T model.Entity](rec OperationRecorder) Option[T] {
	return func(s *Service[T]) { s.metrics = rec }
}

// New constructs a data service for T. Capabilities (soft delete, audit
// tracking) are detected once here from the entity type, not per call.
func New[T model.Entity](st *store.Store[T], cs cache.CacheService, ks cache.KeySerializer, opts Options, fns ...Option[T]) *Service[T] {
	var zero T
	_, softDeletable := any(zero).(model.SoftDeletable)
	_, auditable := any(zero).(model.Auditable)

	s := &Service[T]{
		store:         st,
		cache:         cs,
		keys:          ks,
		ring:          cache.NewKeyring(),
		opts:          opts.normalized(),
		logger:        slog.Default(),
		name:          entityName[T](),
		softDeletable: softDeletable,
		auditable:     auditable,
	}
	for _, fn := range fns {
		fn(s)
	}
	return s
}

// Name returns the snake_cased entity name used for cache namespaces and
// permission resources.
func (s *Service[T]) Name() string { return s.name }

// NewRecord returns a fresh record of the service's entity type.
func (s *Service[T]) NewRecord() T { return s.store.NewRecord() }

// GetByID fetches a single record. Cached hits are re-authorized for the
// calling actor before they are returned; missing records are an explicit
// NotFound failure.
func (s *Service[T]) GetByID(ctx context.Context, id uuid.UUID, actor *auth.Actor) (res Result[T]) {
	defer func() { s.record("get_by_id", res.ErrorKind) }()
	defer recoverTo(s.logger, s.name, "GetByID", &res)

	if id == uuid.Nil {
		s.logger.Warn("invalid id provided", "entity", s.name)
		return Failure[T](KindValidation, "invalid id provided")
	}

	key := s.keys.SerializeKey(s.name, "id", id)
	if cached, ok := cache.Get[T](ctx, s.cache, key); ok {
		s.cacheLookup(true)
		if !s.canAccess(actor, cached, auth.OpRead) {
			s.logger.Warn("access denied", "entity", s.name, "id", id, "actor", actor.CacheScope())
			return Failure[T](KindUnauthorized, "access denied")
		}
		return Success(cached)
	}
	s.cacheLookup(false)

	var crits []store.SelectCriteria
	if s.softDeletable && s.opts.UseSoftDelete && s.opts.HideInactiveByID {
		crits = append(crits, store.ActiveOnly())
	}

	rec, err := s.store.ByID(ctx, id, crits...)
	if err != nil {
		return failureFrom[T](ctx, s.logger, s.name, err, "retrieving")
	}
	if !s.canAccess(actor, rec, auth.OpRead) {
		s.logger.Warn("access denied", "entity", s.name, "id", id, "actor", actor.CacheScope())
		return Failure[T](KindUnauthorized, "access denied")
	}

	if err := s.cache.Set(ctx, key, rec); err != nil {
		s.logger.Debug("cache set failed", "entity", s.name, "key", key, "error", err)
	}
	s.logger.Debug("retrieved record", "entity", s.name, "id", id, "actor", actor.CacheScope())
	return Success(rec)
}

// GetAll lists every record the actor may see, cached per actor.
func (s *Service[T]) GetAll(ctx context.Context, actor *auth.Actor) (res Result[[]T]) {
	defer func() { s.record("get_all", res.ErrorKind) }()
	defer recoverTo(s.logger, s.name, "GetAll", &res)

	if !s.canPerform(actor, auth.OpReadAll) {
		s.logger.Warn("access denied for read-all", "entity", s.name, "actor", actor.CacheScope())
		return Failure[[]T](KindUnauthorized, "access denied")
	}

	key := s.keys.SerializeKey(s.name, "all", actor.CacheScope())
	if cached, ok := cache.Get[[]T](ctx, s.cache, key); ok {
		s.cacheLookup(true)
		return Success(cached)
	}
	s.cacheLookup(false)

	recs, err := s.store.List(ctx, s.readCriteria(actor)...)
	if err != nil {
		return failureFrom[[]T](ctx, s.logger, s.name, err, "listing")
	}

	s.ring.Track(key)
	if err := s.cache.Set(ctx, key, recs); err != nil {
		s.logger.Debug("cache set failed", "entity", s.name, "key", key, "error", err)
	}
	s.logger.Debug("retrieved all records", "entity", s.name, "count", len(recs), "actor", actor.CacheScope())
	return Success(recs)
}

// GetPaged returns one window of the filtered record set. Page and pageSize
// are clamped to policy limits; the total count reflects the filtered set,
// not the window.
func (s *Service[T]) GetPaged(ctx context.Context, page, pageSize int, filter store.SelectCriteria, orderBy string, ascending bool, actor *auth.Actor) (res Result[Page[T]]) {
	defer func() { s.record("get_paged", res.ErrorKind) }()
	defer recoverTo(s.logger, s.name, "GetPaged", &res)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.opts.DefaultPageSize
	}
	if pageSize > s.opts.MaxPageSize {
		pageSize = s.opts.MaxPageSize
	}

	if !s.canPerform(actor, auth.OpReadAll) {
		s.logger.Warn("access denied for paged read", "entity", s.name, "actor", actor.CacheScope())
		return Failure[Page[T]](KindUnauthorized, "access denied")
	}

	key := s.keys.SerializeKey(s.name, "paged", actor.CacheScope(), page, pageSize, orderBy, ascending, filter)
	if cached, ok := cache.Get[Page[T]](ctx, s.cache, key); ok {
		s.cacheLookup(true)
		return Success(cached)
	}
	s.cacheLookup(false)

	crits := s.readCriteria(actor)
	if filter != nil {
		crits = append(crits, filter)
	}
	if orderBy != "" {
		crits = append(crits, store.OrderBy(orderBy, ascending))
	}

	items, total, err := s.store.Page(ctx, (page-1)*pageSize, pageSize, crits...)
	if err != nil {
		return failureFrom[Page[T]](ctx, s.logger, s.name, err, "paging")
	}

	result := NewPage(items, total, page, pageSize)
	s.ring.Track(key)
	if err := s.cache.Set(ctx, key, result); err != nil {
		s.logger.Debug("cache set failed", "entity", s.name, "key", key, "error", err)
	}
	s.logger.Debug("retrieved page",
		"entity", s.name, "page", page, "total_pages", result.TotalPages,
		"count", len(items), "total", total, "actor", actor.CacheScope())
	return Success(result)
}

// Create validates, stamps, and persists a new record, then invalidates the
// listing caches for this entity type.
func (s *Service[T]) Create(ctx context.Context, rec T, actor *auth.Actor) (res Result[T]) {
	defer func() { s.record("create", res.ErrorKind) }()
	defer recoverTo(s.logger, s.name, "Create", &res)

	if isNilRecord(rec) {
		return Failure[T](KindValidation, "entity cannot be nil")
	}
	if !s.canPerform(actor, auth.OpCreate) {
		s.logger.Warn("access denied for create", "entity", s.name, "actor", actor.CacheScope())
		return Failure[T](KindUnauthorized, "access denied")
	}
	if err := validate(rec); err != nil {
		return Failure[T](KindValidation, err.Error())
	}

	model.NormalizeForCreate(rec, time.Now().UTC())
	if s.auditable {
		any(rec).(model.Auditable).SetCreatedBy(actor.NullID())
	}

	if err := s.store.Insert(ctx, rec); err != nil {
		return failureFrom[T](ctx, s.logger, s.name, err, "creating")
	}

	// A fresh record cannot already sit in a point cache; listings can.
	s.invalidateLists(ctx)
	s.logger.Info("created record", "entity", s.name, "id", rec.GetID(), "actor", actor.CacheScope())
	return Success(rec)
}

// Update re-authorizes per record, validates, restamps, and persists with
// optimistic-concurrency detection, then invalidates the point and listing
// caches.
func (s *Service[T]) Update(ctx context.Context, rec T, actor *auth.Actor) (res Result[T]) {
	defer func() { s.record("update", res.ErrorKind) }()
	defer recoverTo(s.logger, s.name, "Update", &res)

	if isNilRecord(rec) {
		return Failure[T](KindValidation, "entity cannot be nil")
	}
	id := rec.GetID()
	if id == uuid.Nil {
		return Failure[T](KindValidation, "invalid id provided")
	}
	if !s.canAccess(actor, rec, auth.OpUpdate) {
		s.logger.Warn("access denied for update", "entity", s.name, "id", id, "actor", actor.CacheScope())
		return Failure[T](KindUnauthorized, "access denied")
	}
	if err := validate(rec); err != nil {
		return Failure[T](KindValidation, err.Error())
	}

	stampUpdate(rec, actor)

	if err := s.store.Update(ctx, rec); err != nil {
		return failureFrom[T](ctx, s.logger, s.name, err, "updating")
	}

	s.invalidatePoint(ctx, id)
	s.invalidateLists(ctx)
	s.logger.Info("updated record", "entity", s.name, "id", id, "actor", actor.CacheScope())
	return Success(rec)
}

// Delete removes a record: a soft delete (active flag flip, persisted as an
// update) when the entity supports it and policy enables it, a hard delete
// otherwise. Both paths invalidate the point and listing caches.
func (s *Service[T]) Delete(ctx context.Context, id uuid.UUID, actor *auth.Actor) (res Result[bool]) {
	defer func() { s.record("delete", res.ErrorKind) }()
	defer recoverTo(s.logger, s.name, "Delete", &res)

	if id == uuid.Nil {
		return Failure[bool](KindValidation, "invalid id provided")
	}

	rec, err := s.store.ByID(ctx, id)
	if err != nil {
		return failureFrom[bool](ctx, s.logger, s.name, err, "deleting")
	}
	if !s.canAccess(actor, rec, auth.OpDelete) {
		s.logger.Warn("access denied for delete", "entity", s.name, "id", id, "actor", actor.CacheScope())
		return Failure[bool](KindUnauthorized, "access denied")
	}

	soft := s.softDeletable && s.opts.UseSoftDelete
	if soft {
		any(rec).(model.SoftDeletable).SetActive(false)
		stampUpdate(rec, actor)
		err = s.store.Update(ctx, rec)
	} else {
		err = s.store.Delete(ctx, rec)
	}
	if err != nil {
		return failureFrom[bool](ctx, s.logger, s.name, err, "deleting")
	}

	s.invalidatePoint(ctx, id)
	s.invalidateLists(ctx)
	s.logger.Info("deleted record", "entity", s.name, "id", id, "soft", soft, "actor", actor.CacheScope())
	return Success(true)
}

// Search applies a caller-supplied filter under the default read filters and
// caps the result at the configured maximum, truncating silently.
func (s *Service[T]) Search(ctx context.Context, filter store.SelectCriteria, actor *auth.Actor) (res Result[[]T]) {
	defer func() { s.record("search", res.ErrorKind) }()
	defer recoverTo(s.logger, s.name, "Search", &res)

	if filter == nil {
		return Failure[[]T](KindValidation, "search filter cannot be nil")
	}
	if !s.canPerform(actor, auth.OpReadAll) {
		s.logger.Warn("access denied for search", "entity", s.name, "actor", actor.CacheScope())
		return Failure[[]T](KindUnauthorized, "access denied")
	}

	crits := append(s.readCriteria(actor), filter, store.LimitTo(s.opts.MaxSearchResults))
	recs, err := s.store.List(ctx, crits...)
	if err != nil {
		return failureFrom[[]T](ctx, s.logger, s.name, err, "searching")
	}

	s.logger.Debug("searched records", "entity", s.name, "count", len(recs), "actor", actor.CacheScope())
	return Success(recs)
}

// failureFrom maps a store-layer error onto the categorized envelope.
func failureFrom[R any](ctx context.Context, logger *slog.Logger, name string, err error, action string) Result[R] {
	switch classifyErr(ctx, err) {
	case KindCancelled:
		logger.Info("operation cancelled", "entity", name, "action", action)
		return Failure[R](KindCancelled, "operation was cancelled")
	case KindNotFound:
		return Failure[R](KindNotFound, name+" not found")
	case KindConcurrency:
		logger.Warn("concurrency conflict", "entity", name, "action", action)
		return Failure[R](KindConcurrency, "the record was modified by another user, refresh and try again")
	case KindValidation:
		return Failure[R](KindValidation, fmt.Sprintf("%s conflicts with an existing record", name))
	default:
		logger.Error("store error", "entity", name, "action", action, "error", err)
		return Failure[R](KindStore, fmt.Sprintf("error %s %s", action, name))
	}
}

func classifyErr(ctx context.Context, err error) ErrorKind {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), ctx.Err() != nil:
		return KindCancelled
	case errors.Is(err, store.ErrNotFound):
		return KindNotFound
	case errors.Is(err, store.ErrConcurrentUpdate):
		return KindConcurrency
	case errors.Is(err, store.ErrUniqueViolation):
		return KindValidation
	default:
		return KindStore
	}
}

func (s *Service[T]) invalidatePoint(ctx context.Context, id uuid.UUID) {
	key := s.keys.SerializeKey(s.name, "id", id)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Debug("cache delete failed", "entity", s.name, "key", key, "error", err)
	}
}

// invalidateLists drops every listing and paged entry this service has set.
func (s *Service[T]) invalidateLists(ctx context.Context) {
	for _, method := range []string{"all", "paged"} {
		prefix := s.name + cache.KeySeparator + method
		if err := s.ring.InvalidatePrefix(ctx, s.cache, prefix); err != nil {
			s.logger.Debug("cache invalidation failed", "entity", s.name, "prefix", prefix, "error", err)
		}
	}
}

func (s *Service[T]) record(op string, kind ErrorKind) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if kind != KindNone {
		outcome = kind.String()
	}
	s.metrics.Operation(s.name, op, outcome)
}

func (s *Service[T]) cacheLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.CacheLookup(s.name, hit)
	}
}

// stampUpdate refreshes the modification audit fields. UpdatedAt is forced
// strictly past its previous value so "updated after" comparisons hold even
// on coarse clocks.
func stampUpdate(rec model.Entity, actor *auth.Actor) {
	now := time.Now().UTC()
	if prev := rec.GetUpdatedAt(); !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	rec.SetUpdatedAt(now)
	if aud, ok := rec.(model.Auditable); ok {
		aud.SetModifiedBy(actor.NullID())
	}
}

// validate runs the entity's declarative validation pass when it has one.
func validate(rec any) error {
	if v, ok := rec.(validation.Validatable); ok {
		return v.Validate()
	}
	return nil
}

func isNilRecord[T any](rec T) bool {
	rv := reflect.ValueOf(any(rec))
	if !rv.IsValid() {
		return true
	}
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

func entityName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return toSnake(t.Name())
}

// recoverTo is the outer boundary of every operation: a panic becomes an
// UnknownError result instead of crashing the caller's request.
func recoverTo[R any](logger *slog.Logger, entity, op string, res *Result[R]) {
	if p := recover(); p != nil {
		logger.Error("unexpected panic in data service", "entity", entity, "op", op, "panic", p)
		*res = Failure[R](KindUnknown, fmt.Sprintf("unexpected error in %s", op))
	}
}
