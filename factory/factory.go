// Package factory builds instances of a target type from option maps.
//
// New inspects the target once and derives its option schema. Every Build
// then resolves the supplied options against the schema, binds the resolved
// values to constructor positions and constructs the instance.
//
// A Factory is configured by a single owner. Once SetDefault calls are done,
// Build may be called from several goroutines.
package factory

import (
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"ctor-factory/config"
	"ctor-factory/registry"
	"ctor-factory/schema"
	"ctor-factory/signature"
)

// Factory builds instances of one target type.
type Factory struct {
	target   signature.Target
	schema   *schema.Schema
	gapCheck bool
}

// New inspects target and returns a factory for it.
func New(target signature.Target, opts ...Option) (*Factory, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	params, err := signature.Inspect(target)
	if err != nil {
		return nil, err
	}

	s := o.schema
	if s == nil {
		s = schema.New()
	}

	if o.coercion != nil {
		s.SetCoercion(*o.coercion)
	}

	if err := populate(s, params); err != nil {
		return nil, &signature.InvalidTargetError{Target: target.Name(), Err: err}
	}

	return &Factory{
		target:   target,
		schema:   s,
		gapCheck: o.gapCheck,
	}, nil
}

// NewNamed creates a factory for a target registered under its
// fully-qualified type name.
func NewNamed(name string, opts ...Option) (*Factory, error) {
	o := options{registry: registry.Default}
	for _, opt := range opts {
		opt(&o)
	}

	target, err := o.registry.Lookup(name)
	if err != nil {
		return nil, &signature.InvalidTargetError{Target: name, Err: err}
	}

	return New(target, opts...)
}

func populate(s *schema.Schema, params []signature.Parameter) error {
	for _, p := range params {
		if err := s.Define(p.Position, p.Name); err != nil {
			return err
		}

		if p.Required {
			if err := s.MarkRequired(p.Name); err != nil {
				return err
			}
		}

		if p.Constrained() {
			if err := s.SetAllowedType(p.Name, p.Type); err != nil {
				return err
			}
		}

		if p.HasDefault {
			s.SetDefault(p.Name, p.Default)
		}
	}

	return nil
}

// Build validates config and constructs a new instance.
func (f *Factory) Build(config map[string]any) (any, error) {
	resolved, err := f.schema.Resolve(config)
	if err != nil {
		return nil, err
	}

	args, err := f.bind(resolved, config)
	if err != nil {
		return nil, err
	}

	return f.construct(args)
}

// BuildAs is Build with the instance asserted to T.
func BuildAs[T any](f *Factory, config map[string]any) (T, error) {
	var zero T

	v, err := f.Build(config)
	if err != nil {
		return zero, err
	}

	instance, ok := v.(T)
	if !ok {
		return zero, &ConstructionError{
			Target: f.TypeName(),
			Err:    fmt.Errorf("instance of type %T is not a %s", v, reflect.TypeFor[T]()),
		}
	}

	return instance, nil
}

// BuildFile decodes a configuration file and builds an instance from it.
func (f *Factory) BuildFile(path string) (any, error) {
	values, err := config.LoadFile(path, f.schema)
	if err != nil {
		return nil, err
	}

	return f.Build(values)
}

// BuildSource decodes an in-memory configuration document and builds an
// instance from it.
func (f *Factory) BuildSource(format config.Format, data []byte) (any, error) {
	values, err := config.Decode(format, data, f.schema)
	if err != nil {
		return nil, err
	}

	return f.Build(values)
}

// bind collects resolved values in position order up to the first option
// without a value. Later positions are never passed, even when resolved.
func (f *Factory) bind(resolved schema.Resolved, supplied map[string]any) ([]any, error) {
	positional := f.schema.Positional()
	args := make([]any, 0, len(positional))

	for i, name := range positional {
		v, ok := resolved[name]
		if ok {
			args = append(args, v)
			continue
		}

		if f.gapCheck {
			for _, later := range positional[i+1:] {
				if _, set := supplied[later]; set {
					return nil, &PositionGapError{Missing: name, Supplied: later}
				}
			}
		}

		break
	}

	return args, nil
}

func (f *Factory) construct(args []any) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = &ConstructionError{Target: f.TypeName(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	instance, err = f.target.New(args)
	if err != nil {
		return nil, &ConstructionError{Target: f.TypeName(), Err: err}
	}

	return instance, nil
}

// SetDefault records a default for an option. Unknown names become
// optional, non-positional options.
func (f *Factory) SetDefault(name string, value any) *Factory {
	f.schema.SetDefault(name, value)
	return f
}

// SetDefaults records several defaults.
func (f *Factory) SetDefaults(values map[string]any) *Factory {
	f.schema.SetDefaults(values)
	return f
}

// Options returns the positional option names in argument order.
func (f *Factory) Options() []string { return f.schema.Positional() }

// RequiredOptions returns the names of the required options.
func (f *Factory) RequiredOptions() []string { return f.schema.Required() }

// Defaults returns a copy of the current defaults.
func (f *Factory) Defaults() map[string]any { return f.schema.Defaults() }

// Type returns the type of the built instances.
func (f *Factory) Type() reflect.Type { return f.target.Type() }

// TypeName returns the fully-qualified name of the built type.
func (f *Factory) TypeName() string { return f.target.Name() }

// Schema returns the underlying option schema.
func (f *Factory) Schema() *schema.Schema { return f.schema }

// Target returns the construction target.
func (f *Factory) Target() signature.Target { return f.target }

// JSONSchema describes the accepted configuration as a JSON Schema.
func (f *Factory) JSONSchema() *jsonschema.Schema {
	doc := f.schema.JSONSchema()
	doc.Title = f.TypeName()

	return doc
}
