// Package di wires entity types to their services. Registration is explicit
// and happens once at startup; after Seal the container is read-only and
// resolution is a plain map lookup.
package di

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/uptrace/bun"

	"github.com/liaisonhq/liaison/cache"
	"github.com/liaisonhq/liaison/dataservice"
	"github.com/liaisonhq/liaison/lookup"
	"github.com/liaisonhq/liaison/model"
	"github.com/liaisonhq/liaison/store"
)

type registrationClass string

const (
	classData   registrationClass = "data"
	classLookup registrationClass = "lookup"
)

type registration struct {
	class registrationClass
	value any
}

// Container holds the shared infrastructure and the registered services.
// Not safe for concurrent registration; register everything during startup,
// then Seal.
type Container struct {
	db      *bun.DB
	cache   cache.CacheService
	keys    cache.KeySerializer
	opts    dataservice.Options
	logger  *slog.Logger
	metrics dataservice.OperationRecorder

	entries map[reflect.Type]registration
	sealed  bool
}

// ContainerOption configures a Container.
type ContainerOption func(*Container)

// WithLogger sets the logger handed to every registered service.
func WithLogger(logger *slog.Logger) ContainerOption {
	return func(c *Container) { c.logger = logger }
}

// WithMetrics sets the operation recorder handed to every data service.
func WithMetrics(rec dataservice.OperationRecorder) ContainerOption {
	return func(c *Container) { c.metrics = rec }
}

// New builds an empty container around the shared database, cache, and
// policy options.
func New(db *bun.DB, cs cache.CacheService, ks cache.KeySerializer, opts dataservice.Options, fns ...ContainerOption) *Container {
	c := &Container{
		db:      db,
		cache:   cs,
		keys:    ks,
		opts:    opts,
		logger:  slog.Default(),
		entries: map[reflect.Type]registration{},
	}
	for _, fn := range fns {
		fn(c)
	}
	return c
}

func (c *Container) add(t reflect.Type, class registrationClass, value any) error {
	if c.sealed {
		return fmt.Errorf("container is sealed, cannot register %s", t)
	}
	if prev, ok := c.entries[t]; ok {
		return fmt.Errorf("type %s already registered as a %s service", t, prev.class)
	}
	c.entries[t] = registration{class: class, value: value}
	return nil
}

// RegisterEntity registers a data service for an entity type.
func RegisterEntity[T model.Entity](c *Container, handlers store.ModelHandlers[T]) error {
	st := store.New(c.db, handlers)
	svc := dataservice.New(st, c.cache, c.keys, c.opts,
		dataservice.WithLogger[T](c.logger),
		dataservice.WithMetrics[T](c.metrics))
	return c.add(typeOf[T](), classData, svc)
}

// RegisterCommon registers a data service for an auditable, soft-deletable
// entity type. The service detects those capabilities itself; the separate
// entry point exists so registration code states what it expects of the type.
func RegisterCommon[T model.Common](c *Container, handlers store.ModelHandlers[T]) error {
	return RegisterEntity[T](c, handlers)
}

// RegisterLookup registers a lookup repository for a reference-data type.
func RegisterLookup[T model.Lookup](c *Container, handlers store.ModelHandlers[T]) error {
	st := store.New(c.db, handlers)
	repo := lookup.NewRepository(st, c.logger)
	return c.add(typeOf[T](), classLookup, repo)
}

// Seal freezes the container and logs what was registered. Further
// registration attempts fail.
func (c *Container) Seal() {
	if c.sealed {
		return
	}
	c.sealed = true

	var dataNames, lookupNames []string
	for t, reg := range c.entries {
		switch reg.class {
		case classData:
			dataNames = append(dataNames, t.String())
		case classLookup:
			lookupNames = append(lookupNames, t.String())
		}
	}
	sort.Strings(dataNames)
	sort.Strings(lookupNames)

	c.logger.Info("service registration sealed",
		"data_services", len(dataNames),
		"lookup_repositories", len(lookupNames))
	for _, name := range dataNames {
		c.logger.Debug("registered data service", "type", name)
	}
	for _, name := range lookupNames {
		c.logger.Debug("registered lookup repository", "type", name)
	}
}

// Sealed reports whether registration has been frozen.
func (c *Container) Sealed() bool { return c.sealed }

// DataService resolves the data service for T. Resolution of an unregistered
// type is a programming error and panics.
func DataService[T model.Entity](c *Container) *dataservice.Service[T] {
	reg, ok := c.entries[typeOf[T]()]
	if !ok || reg.class != classData {
		panic(fmt.Sprintf("no data service registered for %s", typeOf[T]()))
	}
	return reg.value.(*dataservice.Service[T])
}

// LookupRepository resolves the lookup repository for T, panicking when the
// type was never registered.
func LookupRepository[T model.Lookup](c *Container) *lookup.Repository[T] {
	reg, ok := c.entries[typeOf[T]()]
	if !ok || reg.class != classLookup {
		panic(fmt.Sprintf("no lookup repository registered for %s", typeOf[T]()))
	}
	return reg.value.(*lookup.Repository[T])
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
