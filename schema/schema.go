package schema

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sort"

	"ctor-factory/internal/coerce"
)

// Resolved is a validated, default-filled option map.
type Resolved map[string]any

// Schema holds the recognized options of one target.
type Schema struct {
	order      []string // definition order of every known option
	known      map[string]struct{}
	positions  map[string]int
	positional map[int]string
	required   map[string]struct{}
	defaults   map[string]any
	types      map[string]reflect.Type
	coercion   Coercion
}

// Option configures a Schema.
type Option func(*Schema)

// WithCoercion lets Resolve convert values into allowed types using the
// given conversion categories. Without it, values must be assignable.
func WithCoercion(categories Coercion) Option {
	return func(s *Schema) {
		s.coercion = categories
	}
}

// New creates an empty schema.
func New(opts ...Option) *Schema {
	s := &Schema{
		known:      make(map[string]struct{}),
		positions:  make(map[string]int),
		positional: make(map[int]string),
		required:   make(map[string]struct{}),
		defaults:   make(map[string]any),
		types:      make(map[string]reflect.Type),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SetCoercion replaces the conversion categories used by Resolve.
func (s *Schema) SetCoercion(categories Coercion) {
	s.coercion = categories
}

// Coercion returns the conversion categories used by Resolve.
func (s *Schema) Coercion() Coercion {
	return s.coercion
}

// Define registers a positional option. Defining a name again keeps its
// original position. An option that so far only had a default gains the
// position.
func (s *Schema) Define(position int, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidOption)
	}

	if position < 0 {
		return fmt.Errorf("%w: negative position %d for %q", ErrInvalidOption, position, name)
	}

	if _, ok := s.positions[name]; ok {
		return nil
	}

	if other, ok := s.positional[position]; ok {
		return fmt.Errorf("%w: position %d holds %q, cannot define %q", ErrPositionTaken, position, other, name)
	}

	s.add(name)
	s.positions[name] = position
	s.positional[position] = name

	return nil
}

// MarkRequired adds options to the required set. Nothing is marked if any
// name is undefined.
func (s *Schema) MarkRequired(names ...string) error {
	if err := s.checkDefined(names); err != nil {
		return err
	}

	for _, name := range names {
		s.required[name] = struct{}{}
	}

	return nil
}

// SetDefault records a default value. Unknown names are defined as
// optional, non-positional options.
func (s *Schema) SetDefault(name string, value any) {
	s.add(name)
	s.defaults[name] = value
}

// SetDefaults records several defaults, in sorted key order.
func (s *Schema) SetDefaults(values map[string]any) {
	for _, name := range slices.Sorted(maps.Keys(values)) {
		s.SetDefault(name, values[name])
	}
}

// SetAllowedType constrains the values accepted for an option. A nil type
// or the empty interface removes the constraint.
func (s *Schema) SetAllowedType(name string, typ reflect.Type) error {
	if err := s.checkDefined([]string{name}); err != nil {
		return err
	}

	if typ == nil || (typ.Kind() == reflect.Interface && typ.NumMethod() == 0) {
		delete(s.types, name)
		return nil
	}

	s.types[name] = typ

	return nil
}

// Resolve validates supplied configuration and merges it over the defaults.
//
// Checks run in order and each reports every offending key of its kind:
// unrecognized keys, then missing required options, then type mismatches.
// The schema is not modified.
func (s *Schema) Resolve(supplied map[string]any) (Resolved, error) {
	var unknown []string

	for key := range supplied {
		if !s.IsDefined(key) {
			unknown = append(unknown, key)
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnrecognizedOptionError{Names: unknown, Known: s.Names()}
	}

	var missing []string

	for _, name := range s.order {
		if _, ok := s.required[name]; !ok {
			continue
		}

		_, inSupplied := supplied[name]
		_, inDefaults := s.defaults[name]

		if !inSupplied && !inDefaults {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingRequiredOptionError{Names: missing}
	}

	resolved := make(Resolved, len(s.order))

	for _, name := range s.order {
		if v, ok := supplied[name]; ok {
			resolved[name] = v
		} else if v, ok := s.defaults[name]; ok {
			resolved[name] = v
		}
	}

	var mismatches []TypeMismatch

	for _, name := range s.order {
		typ, constrained := s.types[name]
		v, present := resolved[name]

		if !constrained || !present {
			continue
		}

		converted, err := coerce.Value(v, typ, s.coercion)
		if err != nil {
			mismatches = append(mismatches, TypeMismatch{Name: name, Expected: typ, Actual: reflect.TypeOf(v)})
			continue
		}

		resolved[name] = converted.Interface()
	}

	if len(mismatches) > 0 {
		return nil, &TypeMismatchError{Mismatches: mismatches}
	}

	return resolved, nil
}

// Positional returns the positional option names in ascending position order.
func (s *Schema) Positional() []string {
	positions := slices.Sorted(maps.Keys(s.positional))

	names := make([]string, len(positions))
	for i, pos := range positions {
		names[i] = s.positional[pos]
	}

	return names
}

// Position returns the argument position of an option.
func (s *Schema) Position(name string) (int, bool) {
	pos, ok := s.positions[name]
	return pos, ok
}

// Required returns the required option names in definition order.
func (s *Schema) Required() []string {
	var names []string

	for _, name := range s.order {
		if _, ok := s.required[name]; ok {
			names = append(names, name)
		}
	}

	return names
}

// IsRequired reports whether an option is required.
func (s *Schema) IsRequired(name string) bool {
	_, ok := s.required[name]
	return ok
}

// Defaults returns a copy of the default values.
func (s *Schema) Defaults() map[string]any {
	return maps.Clone(s.defaults)
}

// Default returns the default value of an option.
func (s *Schema) Default(name string) (any, bool) {
	v, ok := s.defaults[name]
	return v, ok
}

// AllowedType returns the type constraint of an option.
func (s *Schema) AllowedType(name string) (reflect.Type, bool) {
	typ, ok := s.types[name]
	return typ, ok
}

// IsDefined reports whether an option is known, positional or not.
func (s *Schema) IsDefined(name string) bool {
	_, ok := s.known[name]
	return ok
}

// Names returns every known option in definition order.
func (s *Schema) Names() []string {
	return slices.Clone(s.order)
}

func (s *Schema) add(name string) {
	if _, ok := s.known[name]; ok {
		return
	}

	s.known[name] = struct{}{}
	s.order = append(s.order, name)
}

func (s *Schema) checkDefined(names []string) error {
	var unknown []string

	for _, name := range names {
		if !s.IsDefined(name) {
			unknown = append(unknown, name)
		}
	}

	if len(unknown) > 0 {
		return &UnknownOptionError{Names: unknown}
	}

	return nil
}
