package di_test

import (
	"context"
	"testing"

	"github.com/liaisonhq/liaison/cache"
	"github.com/liaisonhq/liaison/dataservice"
	"github.com/liaisonhq/liaison/model"
	"github.com/liaisonhq/liaison/pkg/di"
	"github.com/liaisonhq/liaison/pkg/testsupport"
	"github.com/liaisonhq/liaison/store"
)

func newContainer(t *testing.T) *di.Container {
	t.Helper()
	return di.New(testsupport.NewDB(t), testsupport.NewCache(t),
		cache.NewDefaultKeySerializer(), dataservice.DefaultOptions())
}

func personaHandlers() store.ModelHandlers[*model.Persona] {
	return store.ModelHandlers[*model.Persona]{
		NewRecord: func() *model.Persona { return &model.Persona{} },
	}
}

func TestRegisterAndResolve(t *testing.T) {
	c := newContainer(t)

	if err := di.RegisterCommon(c, personaHandlers()); err != nil {
		t.Fatalf("register: %v", err)
	}
	c.Seal()

	svc := di.DataService[*model.Persona](c)
	if svc == nil || svc.Name() != "persona" {
		t.Fatalf("resolved service = %v", svc)
	}
}

func TestDuplicateRegistrationFails(t *testing.T) {
	c := newContainer(t)

	if err := di.RegisterCommon(c, personaHandlers()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := di.RegisterEntity(c, personaHandlers()); err == nil {
		t.Fatal("second registration of the same type must fail")
	}
}

func TestSealedContainerRejectsRegistration(t *testing.T) {
	c := newContainer(t)
	c.Seal()

	if err := di.RegisterCommon(c, personaHandlers()); err == nil {
		t.Fatal("registration after seal must fail")
	}
	if !c.Sealed() {
		t.Error("container must report sealed")
	}
}

func TestResolveUnregisteredPanics(t *testing.T) {
	c := newContainer(t)
	c.Seal()

	defer func() {
		if recover() == nil {
			t.Error("resolving an unregistered type must panic")
		}
	}()
	di.DataService[*model.Persona](c)
}

func TestLookupAndDataRegistrationsDoNotCross(t *testing.T) {
	c := newContainer(t)

	if err := di.RegisterLookup(c, store.ModelHandlers[*model.EncounterType]{
		NewRecord: func() *model.EncounterType { return &model.EncounterType{} },
	}); err != nil {
		t.Fatalf("register lookup: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("resolving a lookup type as a data service must panic")
		}
	}()
	di.DataService[*model.EncounterType](c)
}

func TestRegisterDomain(t *testing.T) {
	c := newContainer(t)

	if err := di.RegisterDomain(c); err != nil {
		t.Fatalf("register domain: %v", err)
	}
	c.Seal()

	// Spot-check one service per registration class.
	if svc := di.DataService[*model.Encounter](c); svc.Name() != "encounter" {
		t.Errorf("encounter service name = %q", svc.Name())
	}
	if repo := di.LookupRepository[*model.SocialMediaApp](c); repo == nil {
		t.Error("social media app repository missing")
	}

	ctx := context.Background()
	repo := di.LookupRepository[*model.BehaviorType](c)
	if _, err := repo.ListAll(ctx); err != nil {
		t.Errorf("resolved repository should query: %v", err)
	}
}
