package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SocialMediaAccount is an account on a platform attributed to a persona.
type SocialMediaAccount struct {
	bun.BaseModel `bun:"table:social_media_accounts,alias:sma"`
	CommonModel

	SocialMediaAppID uuid.UUID `bun:"social_media_app_id,notnull,type:uuid" json:"social_media_app_id"`
	Username         string    `bun:"username,notnull" json:"username"`
	DisplayName      string    `bun:"display_name" json:"display_name,omitempty"`
	Bio              string    `bun:"bio" json:"bio,omitempty"`
	Notes            string    `bun:"notes" json:"notes,omitempty"`
}

func (a *SocialMediaAccount) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.SocialMediaAppID, validation.By(uuidRequired)),
		validation.Field(&a.Username, validation.Required, validation.Length(1, 256)),
		validation.Field(&a.DisplayName, validation.Length(0, 256)),
		validation.Field(&a.Bio, validation.Length(0, 2000)),
	)
}

// SocialMediaAccountLink is an external URL proving or describing an account.
type SocialMediaAccountLink struct {
	bun.BaseModel `bun:"table:social_media_account_links,alias:smal"`
	CommonModel

	AccountID uuid.UUID `bun:"account_id,notnull,type:uuid" json:"account_id"`
	Link      string    `bun:"link,notnull" json:"link"`
}

func (l *SocialMediaAccountLink) Validate() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.AccountID, validation.By(uuidRequired)),
		validation.Field(&l.Link, validation.Required, validation.Length(1, 256)),
	)
}

// InboundContent is content received from a persona awaiting processing.
type InboundContent struct {
	bun.BaseModel `bun:"table:inbound_contents,alias:ic"`
	CommonModel

	PersonaID     uuid.UUID `bun:"persona_id,notnull,type:uuid" json:"persona_id"`
	ContentURL    string    `bun:"content_url" json:"content_url,omitempty"`
	ExtractedText string    `bun:"extracted_text" json:"extracted_text,omitempty"`
	IsProcessed   bool      `bun:"is_processed,notnull,default:false" json:"is_processed"`
	Notes         string    `bun:"notes" json:"notes,omitempty"`
}

func (c *InboundContent) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PersonaID, validation.By(uuidRequired)),
		validation.Field(&c.ContentURL, validation.Length(0, 256)),
		validation.Field(&c.ExtractedText, validation.Length(0, 2000)),
	)
}
