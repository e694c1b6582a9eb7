package dataservice

// Options is the per-deployment policy knob set. The defaults are
// permissive; production deployments are expected to tighten them.
type Options struct {
	// EnableAuthorization turns on coarse permission checks. When false,
	// every check passes trivially.
	EnableAuthorization bool

	// EnableTenantIsolation restricts non-admin actors to records they
	// created, for entities that track their creator.
	EnableTenantIsolation bool

	// UseSoftDelete makes Delete flip the active flag instead of removing
	// the row, for entities that support it.
	UseSoftDelete bool

	// HideInactiveByID also hides soft-deleted records from direct-by-id
	// lookups. Off by default so referential display keeps working.
	HideInactiveByID bool

	// DefaultPageSize is used when a paged request supplies no usable size.
	DefaultPageSize int

	// MaxPageSize caps the page window a caller may request.
	MaxPageSize int

	// MaxSearchResults bounds Search output; larger result sets truncate
	// silently.
	MaxSearchResults int
}

// DefaultOptions returns the out-of-the-box policy: authorization, tenant
// isolation and soft delete off, pages of 20 capped at 100, searches capped
// at 1000.
func DefaultOptions() Options {
	return Options{
		DefaultPageSize:  20,
		MaxPageSize:      100,
		MaxSearchResults: 1000,
	}
}

// normalized fills in any zero sizing values so a partially constructed
// Options cannot divide by zero or disable paging.
func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.DefaultPageSize < 1 {
		o.DefaultPageSize = def.DefaultPageSize
	}
	if o.MaxPageSize < 1 {
		o.MaxPageSize = def.MaxPageSize
	}
	if o.MaxSearchResults < 1 {
		o.MaxSearchResults = def.MaxSearchResults
	}
	return o
}
