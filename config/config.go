// Package config decodes configuration documents into option maps.
//
// Known options are decoded straight into their allowed Go type, so YAML
// durations, HCL lists and JSON objects arrive as the types constructors
// expect. A value that does not fit its type is kept in its natural form and
// left for schema resolution to report.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

// ErrUnsupportedFormat is returned for unknown document formats.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

// Format names a document syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
	FormatJSON Format = "json"
)

// Types provides the allowed type of an option. *schema.Schema implements it.
type Types interface {
	AllowedType(name string) (reflect.Type, bool)
}

type noTypes struct{}

func (noTypes) AllowedType(string) (reflect.Type, bool) { return nil, false }

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads and decodes a configuration file, choosing the format by
// extension.
func LoadFile(path string, types Types) (map[string]any, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if format == FormatHCL {
		return DecodeHCL(data, path, types)
	}

	return Decode(format, data, types)
}

// Decode decodes an in-memory document of the given format.
func Decode(format Format, data []byte, types Types) (map[string]any, error) {
	switch format {
	case FormatYAML:
		return DecodeYAML(data, types)
	case FormatHCL:
		return DecodeHCL(data, "config.hcl", types)
	case FormatJSON:
		return DecodeJSON(data, types)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func orNoTypes(types Types) Types {
	if types == nil {
		return noTypes{}
	}

	return types
}
