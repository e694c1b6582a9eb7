package dataservice

import (
	"github.com/liaisonhq/liaison/auth"
	"github.com/liaisonhq/liaison/model"
	"github.com/liaisonhq/liaison/store"
)

// canPerform is the coarse, operation-kind-level check. Admins bypass it;
// other actors need a permission scoped to this entity or the wildcard.
func (s *Service[T]) canPerform(actor *auth.Actor, op auth.Operation) bool {
	if !s.opts.EnableAuthorization {
		return true
	}
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return actor.Can(s.name, op)
}

// canAccess layers the per-record ownership check on top of canPerform.
// Ownership only applies when tenant isolation is on, the entity tracks its
// creator, and the actor is a known non-admin.
func (s *Service[T]) canAccess(actor *auth.Actor, rec T, op auth.Operation) bool {
	if !s.canPerform(actor, op) {
		return false
	}
	if !s.auditable || !s.opts.EnableTenantIsolation || actor == nil || actor.IsAdmin() {
		return true
	}
	created := any(rec).(model.Auditable).GetCreatedBy()
	return created.Valid && created.UUID == actor.ID
}

// readCriteria builds the filters every default read path applies: the
// soft-delete filter when the capability and policy both say so, and the
// tenant-ownership filter for known non-admin actors.
func (s *Service[T]) readCriteria(actor *auth.Actor) []store.SelectCriteria {
	var crits []store.SelectCriteria
	if s.softDeletable && s.opts.UseSoftDelete {
		crits = append(crits, store.ActiveOnly())
	}
	if s.auditable && s.opts.EnableTenantIsolation && actor != nil && !actor.IsAdmin() {
		crits = append(crits, store.OwnedBy(actor.ID))
	}
	return crits
}
