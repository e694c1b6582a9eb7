package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Persona is a tracked identity: a person (or a person-shaped construct) that
// owns social media accounts and participates in encounters.
type Persona struct {
	bun.BaseModel `bun:"table:personas,alias:persona"`
	CommonModel

	Name  string `bun:"name,notnull" json:"name"`
	Notes string `bun:"notes" json:"notes,omitempty"`
}

func (p *Persona) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 256)),
	)
}

// PersonaAssociation links two personas suspected or known to be related.
type PersonaAssociation struct {
	bun.BaseModel `bun:"table:persona_associations,alias:pa"`
	Model

	BasePersonaID      uuid.UUID `bun:"base_persona_id,notnull,type:uuid" json:"base_persona_id"`
	AssociatePersonaID uuid.UUID `bun:"associate_persona_id,notnull,type:uuid" json:"associate_persona_id"`
}

func (a *PersonaAssociation) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.BasePersonaID, validation.Required, validation.By(uuidRequired)),
		validation.Field(&a.AssociatePersonaID, validation.Required, validation.By(uuidRequired)),
	)
}

func uuidRequired(value any) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_uuid_required", "must be a non-zero id")
	}
	return nil
}
