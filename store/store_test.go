package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/liaisonhq/liaison/model"
	"github.com/liaisonhq/liaison/pkg/testsupport"
	"github.com/liaisonhq/liaison/store"
)

func personaStore(t *testing.T) *store.Store[*model.Persona] {
	t.Helper()
	return store.New(testsupport.NewDB(t), store.ModelHandlers[*model.Persona]{
		NewRecord: func() *model.Persona { return &model.Persona{} },
	})
}

func seed(t *testing.T, st *store.Store[*model.Persona], name string) *model.Persona {
	t.Helper()
	p := &model.Persona{Name: name}
	model.NormalizeForCreate(p, time.Now().UTC())
	if err := st.Insert(context.Background(), p); err != nil {
		t.Fatalf("insert %s: %v", name, err)
	}
	return p
}

func TestInsertAndByID(t *testing.T) {
	st := personaStore(t)
	ctx := context.Background()

	created := seed(t, st, "Quiet Fox")

	got, err := st.ByID(ctx, created.GetID())
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if got.Name != "Quiet Fox" {
		t.Errorf("name = %q, want Quiet Fox", got.Name)
	}
	if got.GetVersion() != 1 {
		t.Errorf("version = %d, want 1", got.GetVersion())
	}
}

func TestByIDNotFound(t *testing.T) {
	st := personaStore(t)

	_, err := st.ByID(context.Background(), uuid.New())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateBumpsVersion(t *testing.T) {
	st := personaStore(t)
	ctx := context.Background()

	p := seed(t, st, "Quiet Fox")
	p.Notes = "updated"
	if err := st.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := st.ByID(ctx, p.GetID())
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if got.GetVersion() != 2 {
		t.Errorf("version = %d, want 2", got.GetVersion())
	}
	if got.Notes != "updated" {
		t.Errorf("notes = %q, want updated", got.Notes)
	}
}

func TestUpdateDetectsConcurrentWrite(t *testing.T) {
	st := personaStore(t)
	ctx := context.Background()

	p := seed(t, st, "Quiet Fox")

	stale, err := st.ByID(ctx, p.GetID())
	if err != nil {
		t.Fatalf("by id: %v", err)
	}

	p.Notes = "first writer"
	if err := st.Update(ctx, p); err != nil {
		t.Fatalf("first update: %v", err)
	}

	stale.Notes = "second writer"
	err = st.Update(ctx, stale)
	if !errors.Is(err, store.ErrConcurrentUpdate) {
		t.Fatalf("err = %v, want ErrConcurrentUpdate", err)
	}
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	st := personaStore(t)

	p := &model.Persona{Name: "ghost"}
	model.NormalizeForCreate(p, time.Now().UTC())

	err := st.Update(context.Background(), p)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	st := personaStore(t)
	ctx := context.Background()

	p := seed(t, st, "Quiet Fox")
	if err := st.Delete(ctx, p); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.ByID(ctx, p.GetID()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
	if err := st.Delete(ctx, p); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestListWithCriteria(t *testing.T) {
	st := personaStore(t)
	ctx := context.Background()

	active := seed(t, st, "Alpha")
	retired := seed(t, st, "Bravo")
	retired.SetActive(false)
	if err := st.Update(ctx, retired); err != nil {
		t.Fatalf("retire: %v", err)
	}

	all, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}

	visible, err := st.List(ctx, store.ActiveOnly())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(visible) != 1 || visible[0].GetID() != active.GetID() {
		t.Fatalf("active list = %v, want only %v", visible, active.GetID())
	}
}

func TestListOrderingAndLimit(t *testing.T) {
	st := personaStore(t)
	ctx := context.Background()

	for _, name := range []string{"Charlie", "Alpha", "Bravo"} {
		seed(t, st, name)
	}

	recs, err := st.List(ctx, store.OrderBy("name", true), store.LimitTo(2))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 || recs[0].Name != "Alpha" || recs[1].Name != "Bravo" {
		t.Fatalf("unexpected ordering: %v", recs)
	}
}

func TestCountHonorsCriteria(t *testing.T) {
	st := personaStore(t)
	ctx := context.Background()

	seed(t, st, "Alpha")
	retired := seed(t, st, "Bravo")
	retired.SetActive(false)
	if err := st.Update(ctx, retired); err != nil {
		t.Fatalf("retire: %v", err)
	}

	n, err := st.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
	n, err = st.Count(ctx, store.ActiveOnly())
	if err != nil {
		t.Fatalf("count active: %v", err)
	}
	if n != 1 {
		t.Errorf("active count = %d, want 1", n)
	}
}

func TestPageCountsFilteredSet(t *testing.T) {
	st := personaStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seed(t, st, "Persona "+string(rune('A'+i)))
	}

	items, total, err := st.Page(ctx, 2, 2, store.OrderBy("name", true))
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(items) != 2 {
		t.Errorf("len(items) = %d, want 2", len(items))
	}
	if items[0].Name != "Persona C" {
		t.Errorf("first item = %q, want Persona C", items[0].Name)
	}
}

func TestOwnedByCriteria(t *testing.T) {
	st := personaStore(t)
	ctx := context.Background()

	owner := uuid.New()
	mine := seed(t, st, "Mine")
	mine.SetCreatedBy(uuid.NullUUID{UUID: owner, Valid: true})
	if err := st.Update(ctx, mine); err != nil {
		t.Fatalf("claim: %v", err)
	}
	seed(t, st, "Theirs")

	recs, err := st.List(ctx, store.OwnedBy(owner))
	if err != nil {
		t.Fatalf("list owned: %v", err)
	}
	if len(recs) != 1 || recs[0].Name != "Mine" {
		t.Fatalf("owned list = %v, want only Mine", recs)
	}
}

func TestWhereCriteria(t *testing.T) {
	st := personaStore(t)
	ctx := context.Background()

	seed(t, st, "Alpha")
	seed(t, st, "Bravo")

	recs, err := st.List(ctx, store.Where("?TableAlias.name = ?", "Bravo"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 1 || recs[0].Name != "Bravo" {
		t.Fatalf("filtered list = %v, want only Bravo", recs)
	}
}
