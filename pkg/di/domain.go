package di

import (
	"context"

	"github.com/liaisonhq/liaison/model"
	"github.com/liaisonhq/liaison/store"
)

// DomainModels lists every persisted type, for schema creation.
func DomainModels() []any {
	return []any{
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
}

// RegisterDomain registers every domain entity with the container.
func RegisterDomain(c *Container) error {
	if err := RegisterLookup(c, store.ModelHandlers[*model.EncounterType]{
		NewRecord: func() *model.EncounterType { return &model.EncounterType{} },
	}); err != nil {
		return err
	}
	if err := RegisterLookup(c, store.ModelHandlers[*model.BehaviorType]{
		NewRecord: func() *model.BehaviorType { return &model.BehaviorType{} },
	}); err != nil {
		return err
	}
	if err := RegisterLookup(c, store.ModelHandlers[*model.SocialMediaApp]{
		NewRecord: func() *model.SocialMediaApp { return &model.SocialMediaApp{} },
	}); err != nil {
		return err
	}

	if err := RegisterCommon(c, store.ModelHandlers[*model.Persona]{
		NewRecord: func() *model.Persona { return &model.Persona{} },
	}); err != nil {
		return err
	}
	if err := RegisterCommon(c, store.ModelHandlers[*model.SocialMediaAccount]{
		NewRecord: func() *model.SocialMediaAccount { return &model.SocialMediaAccount{} },
	}); err != nil {
		return err
	}
	if err := RegisterCommon(c, store.ModelHandlers[*model.SocialMediaAccountLink]{
		NewRecord: func() *model.SocialMediaAccountLink { return &model.SocialMediaAccountLink{} },
	}); err != nil {
		return err
	}
	if err := RegisterCommon(c, store.ModelHandlers[*model.InboundContent]{
		NewRecord: func() *model.InboundContent { return &model.InboundContent{} },
	}); err != nil {
		return err
	}

	if err := RegisterEntity(c, store.ModelHandlers[*model.Encounter]{
		NewRecord: func() *model.Encounter { return &model.Encounter{} },
	}); err != nil {
		return err
	}
	if err := RegisterEntity(c, store.ModelHandlers[*model.PersonaAssociation]{
		NewRecord: func() *model.PersonaAssociation { return &model.PersonaAssociation{} },
	}); err != nil {
		return err
	}
	return nil
}

// EnsureSchema creates any missing tables for the domain models.
func EnsureSchema(ctx context.Context, c *Container) error {
	return store.CreateSchema(ctx, c.db, DomainModels()...)
}
