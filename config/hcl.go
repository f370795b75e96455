package config

import (
	"fmt"
	"math/big"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var durationType = reflect.TypeOf(time.Duration(0))

// DecodeHCL decodes top-level HCL attributes. Expressions may read
// environment variables as env.NAME.
func DecodeHCL(data []byte, filename string, types Types) (map[string]any, error) {
	types = orNoTypes(types)

	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	ctx := evalContext()
	values := make(map[string]any, len(attrs))

	for name, attr := range attrs {
		val, diags := attr.Expr.Value(ctx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate %q: %w", name, diags)
		}

		if typ, ok := types.AllowedType(name); ok {
			if v, ok := ctyToType(val, typ); ok {
				values[name] = v
				continue
			}
		}

		natural, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("in attribute %q: %w", name, err)
		}

		values[name] = natural
	}

	return values, nil
}

func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if ok && validEnvName(name) {
			env[name] = cty.StringVal(value)
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

// validEnvName reports whether name can be used as env.NAME.
func validEnvName(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}

	return true
}

// ctyToType converts val into a Go value of type typ.
func ctyToType(val cty.Value, typ reflect.Type) (any, bool) {
	if val.IsNull() || !val.IsWhollyKnown() {
		return nil, false
	}

	if typ == durationType && val.Type() == cty.String {
		d, err := time.ParseDuration(val.AsString())
		if err != nil {
			return nil, false
		}

		return d, true
	}

	ty, err := gocty.ImpliedType(reflect.New(typ).Interface())
	if err != nil {
		return nil, false
	}

	converted, err := convert.Convert(val, ty)
	if err != nil {
		return nil, false
	}

	ptr := reflect.New(typ)
	if err := gocty.FromCtyValue(converted, ptr.Interface()); err != nil {
		return nil, false
	}

	return ptr.Elem().Interface(), true
}

// ctyToNative converts a cty.Value to its most natural Go counterpart.
// Whole numbers become int, others float64.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if n, acc := bf.Int64(); acc == big.Exact {
				return int(n), nil
			}
		}

		f, _ := bf.Float64()

		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())

		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()

			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}

			slice = append(slice, native)
		}

		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]any)

		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()

			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", key.AsString(), err)
			}

			m[key.AsString()] = native
		}

		return m, nil

	default:
		return nil, fmt.Errorf("unsupported cty type %s", ty.FriendlyName())
	}
}
