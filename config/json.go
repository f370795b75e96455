package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// DecodeJSON decodes a JSON object document.
func DecodeJSON(data []byte, types Types) (map[string]any, error) {
	types = orNoTypes(types)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	values := make(map[string]any, len(raw))

	for key, msg := range raw {
		// null stays nil so schema resolution sees it
		if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			values[key] = nil
			continue
		}

		if typ, ok := types.AllowedType(key); ok {
			ptr := reflect.New(typ)
			if err := json.Unmarshal(msg, ptr.Interface()); err == nil {
				values[key] = ptr.Elem().Interface()
				continue
			}
		}

		var natural any
		if err := json.Unmarshal(msg, &natural); err != nil {
			return nil, fmt.Errorf("failed to decode %q: %w", key, err)
		}

		values[key] = natural
	}

	return values, nil
}
