// Package testsupport provides shared fixtures for package tests: an
// in-memory database with the domain schema, cache plumbing, and canned
// actors.
package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/liaisonhq/liaison/auth"
	"github.com/liaisonhq/liaison/cache"
	"github.com/liaisonhq/liaison/model"
	"github.com/liaisonhq/liaison/store"
)

// NewDB opens an isolated in-memory sqlite database with the full domain
// schema created. The database closes with the test.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := store.OpenSQLite("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	models := []any{
		(*model.EncounterType)(nil),
		(*model.BehaviorType)(nil),
		(*model.SocialMediaApp)(nil),
		(*model.Persona)(nil),
		(*model.PersonaAssociation)(nil),
		(*model.SocialMediaAccount)(nil),
		(*model.SocialMediaAccountLink)(nil),
		(*model.InboundContent)(nil),
		(*model.Encounter)(nil),
	}
	if err := store.CreateSchema(context.Background(), db, models...); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

// NewCache builds an in-process cache with short TTLs suitable for tests.
func NewCache(t *testing.T) cache.CacheService {
	t.Helper()

	cfg := cache.DefaultConfig()
	cfg.AbsoluteTTL = time.Minute
	cfg.SlidingTTL = 30 * time.Second
	svc, err := cache.NewInProcessService(cfg)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	return svc
}

// Admin returns an actor with the admin role.
func Admin() *auth.Actor {
	return &auth.Actor{ID: uuid.New(), Roles: []string{auth.AdminRole}}
}

// ActorWith returns an actor holding the given permissions.
func ActorWith(perms ...string) *auth.Actor {
	return &auth.Actor{ID: uuid.New(), Permissions: perms}
}

// FullAccess returns a non-admin actor that may do everything.
func FullAccess() *auth.Actor {
	return ActorWith("all:read", "all:read-all", "all:create", "all:update", "all:delete")
}

// NewPersona returns a minimal valid persona.
func NewPersona(name string) *model.Persona {
	return &model.Persona{Name: name}
}
