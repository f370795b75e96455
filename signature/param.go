package signature

import (
	"reflect"
)

// Parameter describes one constructor parameter.
type Parameter struct {
	// Position is the zero-based argument index.
	Position int
	// RawName is the identifier as declared.
	RawName string
	// Name is the canonical option key derived from RawName.
	Name string
	// Type is the declared type. The empty interface means no constraint.
	Type reflect.Type
	// Required is true when the parameter has no default and is not optional.
	Required bool
	// HasDefault reports whether Default is set.
	HasDefault bool
	// Default holds the declared default, already converted to Type.
	Default any
	// Optional marks a parameter that may be omitted without a default.
	// The zero value of Type is passed in its place.
	Optional bool
}

// Constrained reports whether the parameter declares a usable type.
func (p Parameter) Constrained() bool {
	return p.Type != nil && !(p.Type.Kind() == reflect.Interface && p.Type.NumMethod() == 0)
}

// Spec is a hand-written or generated descriptor of a Func parameter.
type Spec struct {
	name       string
	def        any
	hasDefault bool
	optional   bool
}

// ParamOption configures a Spec.
type ParamOption func(*Spec)

// Param describes the next parameter of a Func target.
func Param(name string, opts ...ParamOption) Spec {
	spec := Spec{name: name}
	for _, opt := range opts {
		opt(&spec)
	}

	return spec
}

// Default declares the value used when the option is not configured.
func Default(value any) ParamOption {
	return func(s *Spec) {
		s.def = value
		s.hasDefault = true
	}
}

// Optional declares that the parameter may be omitted without a default.
func Optional() ParamOption {
	return func(s *Spec) {
		s.optional = true
	}
}

// Name returns the declared name.
func (s Spec) Name() string { return s.name }
