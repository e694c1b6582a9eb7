// Package auth defines the opaque actor principal the data service consumes.
// Resolving an actor from a transport-level session is the web layer's job;
// everything here is plain data plus permission matching.
package auth

import (
	"github.com/google/uuid"
)

// Operation names the kinds of checks the data service performs. The coarse
// permission scheme is "<resource>:<operation>" with "all" as the wildcard
// resource.
type Operation string

const (
	OpRead    Operation = "read"
	OpReadAll Operation = "read-all"
	OpCreate  Operation = "create"
	OpUpdate  Operation = "update"
	OpDelete  Operation = "delete"
)

// AdminRole marks actors that bypass both coarse and per-record checks.
const AdminRole = "admin"

// WildcardResource matches any entity type in a permission claim.
const WildcardResource = "all"

// Actor is the identity on whose behalf an operation runs. A nil *Actor is an
// anonymous caller.
type Actor struct {
	ID          uuid.UUID
	Roles       []string
	Permissions []string
}

// IsAdmin reports whether the actor carries the admin role.
func (a *Actor) IsAdmin() bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == AdminRole {
			return true
		}
	}
	return false
}

// Can reports whether the actor holds a permission for the operation scoped to
// the resource, or the wildcard equivalent. Admin status is not consulted
// here; callers short-circuit on IsAdmin first.
func (a *Actor) Can(resource string, op Operation) bool {
	if a == nil {
		return false
	}
	want := resource + ":" + string(op)
	wildcard := WildcardResource + ":" + string(op)
	for _, p := range a.Permissions {
		if p == want || p == wildcard {
			return true
		}
	}
	return false
}

// NullID returns the actor id as a NullUUID, invalid for anonymous callers.
func (a *Actor) NullID() uuid.NullUUID {
	if a == nil || a.ID == uuid.Nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: a.ID, Valid: true}
}

// CacheScope returns a stable string identifying the actor for actor-scoped
// cache keys. Anonymous callers share the "anon" scope.
func (a *Actor) CacheScope() string {
	if a == nil || a.ID == uuid.Nil {
		return "anon"
	}
	return a.ID.String()
}
