package signature

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"ctor-factory/internal/coerce"
	"ctor-factory/internal/naming"
)

// TargetKind tells how a Target builds instances.
type TargetKind int

const (
	KindInvalid TargetKind = iota
	KindFunc
	KindStruct
	KindZero
)

// String returns a human-readable kind name.
func (k TargetKind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindStruct:
		return "struct"
	case KindZero:
		return "zero"
	default:
		return "invalid"
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Target is a constructible type together with its construction contract.
// The zero Target is invalid.
type Target struct {
	kind   TargetKind
	label  string
	typ    reflect.Type // instance type
	fn     reflect.Value
	elem   reflect.Type // struct or zero-value type allocated by New
	fields []int
	params []Parameter
	err    error
}

// Func describes a constructor function returning T or (T, error).
// Exactly one Param must be given per argument, in declaration order.
func Func(fn any, params ...Spec) (t Target) {
	t = Target{kind: KindFunc}

	defer recoverInvalid(&t)

	if fn == nil {
		t.err = invalid("", "nil constructor")
		return t
	}

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		t.err = invalid(rv.Type().String(), "constructor is not a function")
		return t
	}

	if rv.IsNil() {
		t.err = invalid(rv.Type().String(), "nil constructor")
		return t
	}

	t.fn = rv
	t.label = funcName(rv)
	ft := rv.Type()

	switch {
	case ft.IsVariadic():
		t.err = invalid(t.label, "variadic constructors are not supported")
	case ft.NumOut() == 0 || ft.NumOut() > 2:
		t.err = invalid(t.label, "constructor must return T or (T, error), got %d results", ft.NumOut())
	case ft.NumOut() == 2 && ft.Out(1) != errorType:
		t.err = invalid(t.label, "second result must be error, got %s", ft.Out(1))
	case ft.Out(0) == errorType:
		t.err = invalid(t.label, "first result must be the constructed type")
	case len(params) != ft.NumIn():
		t.err = invalid(t.label, "constructor takes %d parameters, %d described", ft.NumIn(), len(params))
	}

	if t.err != nil {
		return t
	}

	t.typ = ft.Out(0)
	t.params = make([]Parameter, 0, len(params))

	for i, spec := range params {
		p := Parameter{
			Position: i,
			RawName:  spec.name,
			Type:     ft.In(i),
			Optional: spec.optional,
		}

		if spec.hasDefault {
			v, err := coerce.Value(spec.def, p.Type, coerce.CategoryDefault)
			if err != nil {
				t.err = &InvalidTargetError{Target: t.label, Err: fmt.Errorf("default of %q: %w", spec.name, err)}
				return t
			}

			p.Default = v.Interface()
			p.HasDefault = true
		}

		t.params = append(t.params, p)
	}

	t.err = t.name()

	return t
}

// Struct describes a struct type T built by assigning its exported fields.
//
// Fields are parameters in declaration order. The `option` tag renames a
// field (`option:"addr"`), marks it optional (`option:",optional"`) or
// excludes it (`option:"-"`). The `default` tag holds a YAML value decoded
// into the field type.
func Struct[T any]() Target {
	return StructOf(reflect.TypeFor[T]())
}

// StructOf is Struct for a reflect.Type.
func StructOf(st reflect.Type) (t Target) {
	t = Target{kind: KindStruct}

	defer recoverInvalid(&t)

	if st == nil {
		t.err = invalid("", "nil type")
		return t
	}

	t.label = st.String()

	if st.Kind() != reflect.Struct {
		t.err = invalid(t.label, "%s is not a struct", st.Kind())
		return t
	}

	t.elem = st
	t.typ = reflect.PointerTo(st)

	for i := range st.NumField() {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}

		name, optional, skip := parseOptionTag(f)
		if skip {
			continue
		}

		p := Parameter{
			Position: len(t.params),
			RawName:  name,
			Type:     f.Type,
			Optional: optional,
		}

		if raw, ok := f.Tag.Lookup("default"); ok {
			ptr := reflect.New(f.Type)
			if err := yaml.Unmarshal([]byte(raw), ptr.Interface()); err != nil {
				t.err = &InvalidTargetError{Target: t.label, Err: fmt.Errorf("default of field %s: %w", f.Name, err)}
				return t
			}

			p.Default = ptr.Elem().Interface()
			p.HasDefault = true
		}

		t.params = append(t.params, p)
		t.fields = append(t.fields, i)
	}

	t.err = t.name()

	return t
}

// Zero describes a type without a constructor. New returns a pointer to a
// fresh zero value of T.
func Zero[T any]() Target {
	return ZeroOf(reflect.TypeFor[T]())
}

// ZeroOf is Zero for a reflect.Type.
func ZeroOf(zt reflect.Type) Target {
	if zt == nil {
		return Target{kind: KindZero, err: invalid("", "nil type")}
	}

	return Target{
		kind:  KindZero,
		label: zt.String(),
		typ:   reflect.PointerTo(zt),
		elem:  zt,
	}
}

// Inspect returns the ordered parameter descriptors of a target.
// A target without parameters yields an empty slice.
func Inspect(t Target) ([]Parameter, error) {
	if err := t.Err(); err != nil {
		return nil, err
	}

	return t.Params(), nil
}

// Err returns the error found while describing the target, if any.
func (t Target) Err() error {
	if t.kind == KindInvalid {
		return invalid("", "empty target")
	}

	return t.err
}

// Kind returns how the target builds instances.
func (t Target) Kind() TargetKind { return t.kind }

// Type returns the type of the instances New returns.
func (t Target) Type() reflect.Type { return t.typ }

// Params returns a copy of the parameter descriptors.
func (t Target) Params() []Parameter {
	out := make([]Parameter, len(t.params))
	copy(out, t.params)

	return out
}

// Name returns the fully-qualified name of the nearest named type,
// for example "net/http.Client" for a constructor returning *http.Client.
func (t Target) Name() string {
	return TypeName(t.typ)
}

// TypeName returns the fully-qualified name of the nearest named type
// reached by dereferencing pointers.
func TypeName(rt reflect.Type) string {
	if rt == nil {
		return ""
	}

	for rt.Name() == "" && rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}

	switch {
	case rt.Name() == "":
		return rt.String()
	case rt.PkgPath() == "":
		return rt.Name()
	default:
		return rt.PkgPath() + "." + rt.Name()
	}
}

// New constructs an instance from positional arguments. Omitted trailing
// arguments take their declared default or the zero value of their type.
// Arguments must be assignable to the parameter types.
func (t Target) New(args []any) (any, error) {
	if err := t.Err(); err != nil {
		return nil, err
	}

	if len(args) > len(t.params) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", t.label, len(t.params), len(args))
	}

	values := make([]reflect.Value, len(t.params))

	for i, p := range t.params {
		var (
			v   reflect.Value
			err error
		)

		switch {
		case i < len(args):
			v, err = coerce.Value(args[i], p.Type, coerce.CategoryNone)
		case p.HasDefault:
			v, err = coerce.Value(p.Default, p.Type, coerce.CategoryNone)
		default:
			v = reflect.Zero(p.Type)
		}

		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", p.Name, err)
		}

		values[i] = v
	}

	switch t.kind {
	case KindFunc:
		out := t.fn.Call(values)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}

		return out[0].Interface(), nil

	case KindStruct:
		ptr := reflect.New(t.elem)
		for i, field := range t.fields {
			ptr.Elem().Field(field).Set(values[i])
		}

		return ptr.Interface(), nil

	default:
		return reflect.New(t.elem).Interface(), nil
	}
}

// String returns a short description of the target.
func (t Target) String() string {
	if t.label == "" {
		return t.kind.String()
	}

	return t.kind.String() + " " + t.label
}

// name assigns canonical names and checks they are usable option keys.
func (t *Target) name() error {
	seen := make(map[string]string, len(t.params))

	for i := range t.params {
		p := &t.params[i]
		p.Name = naming.SnakeCase(p.RawName)
		p.Required = !p.HasDefault && !p.Optional

		if p.Name == "" {
			return invalid(t.label, "parameter %d has no name", i)
		}

		if prev, ok := seen[p.Name]; ok {
			return invalid(t.label, "parameters %q and %q both map to option %q", prev, p.RawName, p.Name)
		}

		seen[p.Name] = p.RawName
	}

	return nil
}

func parseOptionTag(f reflect.StructField) (name string, optional, skip bool) {
	name = f.Name

	tag, ok := f.Tag.Lookup("option")
	if !ok {
		return name, false, false
	}

	if tag == "-" {
		return "", false, true
	}

	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}

	for _, part := range parts[1:] {
		if strings.TrimSpace(part) == "optional" {
			optional = true
		}
	}

	return name, optional, false
}

func funcName(fn reflect.Value) string {
	if f := runtime.FuncForPC(fn.Pointer()); f != nil {
		return f.Name()
	}

	return fn.Type().String()
}

func recoverInvalid(t *Target) {
	r := recover()
	if r == nil {
		return
	}

	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}

	var target *InvalidTargetError
	if errors.As(err, &target) {
		t.err = target
		return
	}

	t.err = &InvalidTargetError{Target: t.label, Err: fmt.Errorf("reflection failed: %w", err)}
}
