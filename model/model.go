package model

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the minimum capability contract: an addressable, auditable record
// with an immutable id, creation/update timestamps, and an optimistic
// concurrency token.
type Entity interface {
	GetID() uuid.UUID
	SetID(uuid.UUID)
	GetCreatedAt() time.Time
	SetCreatedAt(time.Time)
	GetUpdatedAt() time.Time
	SetUpdatedAt(time.Time)
	GetVersion() int64
	BumpVersion()
}

// Auditable is implemented by entities that track which actor created and
// last modified them.
type Auditable interface {
	Entity
	GetCreatedBy() uuid.NullUUID
	SetCreatedBy(uuid.NullUUID)
	GetModifiedBy() uuid.NullUUID
	SetModifiedBy(uuid.NullUUID)
}

// SoftDeletable is implemented by entities that can be logically removed by
// flipping an active flag instead of deleting the row.
type SoftDeletable interface {
	Entity
	Active() bool
	SetActive(bool)
}

// Common combines audit tracking and soft delete. Most domain entities
// implement it.
type Common interface {
	Auditable
	SoftDeletable
}

// Lookup is the contract for reference-data entities: a Common entity with a
// unique display name.
type Lookup interface {
	Common
	GetName() string
	SetName(string)
}

// Model is the embeddable base satisfying Entity.
type Model struct {
	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
	Version   int64     `bun:"version,notnull,default:1" json:"version"`
}

func (m *Model) GetID() uuid.UUID        { return m.ID }
func (m *Model) SetID(id uuid.UUID)      { m.ID = id }
func (m *Model) GetCreatedAt() time.Time { return m.CreatedAt }
func (m *Model) SetCreatedAt(t time.Time) {
	m.CreatedAt = t
}
func (m *Model) GetUpdatedAt() time.Time { return m.UpdatedAt }
func (m *Model) SetUpdatedAt(t time.Time) {
	m.UpdatedAt = t
}
func (m *Model) GetVersion() int64 { return m.Version }
func (m *Model) BumpVersion()      { m.Version++ }

// AuditFields is the embeddable audit-tracking fragment.
type AuditFields struct {
	CreatedByID  uuid.NullUUID `bun:"created_by_id,type:uuid" json:"created_by_id"`
	ModifiedByID uuid.NullUUID `bun:"modified_by_id,type:uuid" json:"modified_by_id"`
}

func (a *AuditFields) GetCreatedBy() uuid.NullUUID   { return a.CreatedByID }
func (a *AuditFields) SetCreatedBy(id uuid.NullUUID) { a.CreatedByID = id }
func (a *AuditFields) GetModifiedBy() uuid.NullUUID  { return a.ModifiedByID }
func (a *AuditFields) SetModifiedBy(id uuid.NullUUID) {
	a.ModifiedByID = id
}

// SoftDeleteFields is the embeddable soft-delete fragment. IsActive defaults
// to true on the create path, see dataservice and lookup.
type SoftDeleteFields struct {
	IsActive bool `bun:"is_active,notnull,default:true" json:"is_active"`
}

func (s *SoftDeleteFields) Active() bool     { return s.IsActive }
func (s *SoftDeleteFields) SetActive(v bool) { s.IsActive = v }

// CommonModel satisfies Common.
type CommonModel struct {
	Model
	AuditFields
	SoftDeleteFields
}

// LookupModel satisfies Lookup.
type LookupModel struct {
	CommonModel
	Name string `bun:"name,notnull,unique" json:"name"`
}

func (l *LookupModel) GetName() string  { return l.Name }
func (l *LookupModel) SetName(n string) { l.Name = n }

// NormalizeForCreate stamps identity and timestamps on a record about to be
// inserted. The id and CreatedAt are only assigned when absent so callers can
// import pre-existing records; fresh records end up with CreatedAt equal to
// UpdatedAt. Soft-deletable records default to active.
func NormalizeForCreate(e Entity, now time.Time) {
	if e.GetID() == uuid.Nil {
		e.SetID(uuid.New())
	}
	fresh := e.GetCreatedAt().IsZero()
	if fresh {
		e.SetCreatedAt(now)
	}
	e.SetUpdatedAt(now)
	if e.GetVersion() == 0 {
		e.BumpVersion()
	}
	if sd, ok := e.(SoftDeletable); ok && fresh {
		sd.SetActive(true)
	}
}
