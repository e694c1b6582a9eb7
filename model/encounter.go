package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Encounter records a single interaction observed on a social media account.
type Encounter struct {
	bun.BaseModel `bun:"table:encounters,alias:enc"`
	Model

	SocialMediaAccountID uuid.UUID `bun:"social_media_account_id,notnull,type:uuid" json:"social_media_account_id"`
	EncounterTypeID      uuid.UUID `bun:"encounter_type_id,notnull,type:uuid" json:"encounter_type_id"`
	OccurredAt           time.Time `bun:"occurred_at" json:"occurred_at"`
	Notes                string    `bun:"notes" json:"notes,omitempty"`
}

func (e *Encounter) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.SocialMediaAccountID, validation.By(uuidRequired)),
		validation.Field(&e.EncounterTypeID, validation.By(uuidRequired)),
	)
}
