package factory

import (
	"ctor-factory/registry"
	"ctor-factory/schema"
)

type options struct {
	schema   *schema.Schema
	coercion *schema.Coercion
	gapCheck bool
	registry *registry.Registry
}

// Option configures a Factory.
type Option func(*options)

// WithSchema populates an existing schema instead of a new one. Options the
// schema already defines keep their positions and defaults.
func WithSchema(s *schema.Schema) Option {
	return func(o *options) {
		o.schema = s
	}
}

// WithCoercion lets Build convert configured values into parameter types,
// for example "30s" into a time.Duration with schema.CoerceDuration.
func WithCoercion(categories schema.Coercion) Option {
	return func(o *options) {
		o.coercion = &categories
	}
}

// WithGapCheck rejects configurations that omit a positional option while
// setting a later one. Without it, binding silently stops at the gap.
func WithGapCheck() Option {
	return func(o *options) {
		o.gapCheck = true
	}
}

// WithRegistry sets the registry NewNamed looks targets up in.
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}
