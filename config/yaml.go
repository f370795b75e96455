package config

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes a YAML mapping document.
func DecodeYAML(data []byte, types Types) (map[string]any, error) {
	types = orNoTypes(types)

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	values := make(map[string]any)

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return values, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("YAML document must be a mapping, got line %d", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, node := root.Content[i], root.Content[i+1]

		// null stays nil so schema resolution sees it
		if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
			values[key.Value] = nil
			continue
		}

		if typ, ok := types.AllowedType(key.Value); ok {
			ptr := reflect.New(typ)
			if err := node.Decode(ptr.Interface()); err == nil {
				values[key.Value] = ptr.Elem().Interface()
				continue
			}
		}

		var natural any
		if err := node.Decode(&natural); err != nil {
			return nil, fmt.Errorf("failed to decode %q (line %d): %w", key.Value, node.Line, err)
		}

		values[key.Value] = natural
	}

	return values, nil
}
