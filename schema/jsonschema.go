package schema

import (
	"reflect"
	"time"

	"github.com/invopop/jsonschema"
)

var durationType = reflect.TypeOf(time.Duration(0))

// JSONSchema describes the options as a JSON Schema object. Properties are
// listed in definition order and unknown properties are rejected.
func (s *Schema) JSONSchema() *jsonschema.Schema {
	doc := &jsonschema.Schema{
		Version:              jsonschema.Version,
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
		Required:             s.Required(),
	}

	for _, name := range s.order {
		prop := propertySchema(s.types[name])

		if v, ok := s.defaults[name]; ok {
			if d, isDuration := v.(time.Duration); isDuration {
				v = d.String()
			}

			prop.Default = v
		}

		doc.Properties.Set(name, prop)
	}

	return doc
}

func propertySchema(typ reflect.Type) (prop *jsonschema.Schema) {
	// The reflector panics on struct fields it cannot describe.
	defer func() {
		if recover() != nil {
			prop = &jsonschema.Schema{}
		}
	}()

	if typ == nil {
		return &jsonschema.Schema{}
	}

	if typ == durationType {
		return &jsonschema.Schema{Type: "string", Format: "duration"}
	}

	if !reflectable(typ) {
		return &jsonschema.Schema{}
	}

	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}

	prop = reflector.ReflectFromType(typ)
	prop.Version = ""
	prop.ID = ""
	prop.Definitions = nil

	return prop
}

// reflectable reports whether the reflector can describe typ. Functions,
// channels and complex numbers have no JSON representation.
func reflectable(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Func, reflect.Chan, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer, reflect.Uintptr:
		return false
	case reflect.Ptr, reflect.Slice, reflect.Array:
		return reflectable(typ.Elem())
	case reflect.Map:
		return reflectable(typ.Key()) && reflectable(typ.Elem())
	default:
		return true
	}
}
