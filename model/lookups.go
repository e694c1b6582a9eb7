package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"
)

// EncounterType is reference data classifying encounters.
type EncounterType struct {
	bun.BaseModel `bun:"table:encounter_types,alias:et"`
	LookupModel

	Description string `bun:"description" json:"description,omitempty"`
}

func (t *EncounterType) Validate() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Name, validation.Required, validation.Length(1, 256)),
		validation.Field(&t.Description, validation.Length(0, 2000)),
	)
}

// BehaviorType is reference data classifying observed behaviors at the start
// or end of an encounter.
type BehaviorType struct {
	bun.BaseModel `bun:"table:behavior_types,alias:bt"`
	LookupModel
}

func (t *BehaviorType) Validate() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Name, validation.Required, validation.Length(1, 256)),
	)
}

// SocialMediaApp is reference data naming a social media platform.
type SocialMediaApp struct {
	bun.BaseModel `bun:"table:social_media_apps,alias:app"`
	LookupModel
}

func (a *SocialMediaApp) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Name, validation.Required, validation.Length(1, 256)),
	)
}
