package schema

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type endpoint struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func TestSchema_JSONSchema(t *testing.T) {
	s := New()
	require.NoError(t, s.Define(0, "name"))
	require.NoError(t, s.Define(1, "retries"))
	require.NoError(t, s.Define(2, "timeout"))
	require.NoError(t, s.Define(3, "endpoint"))
	require.NoError(t, s.Define(4, "hook"))
	require.NoError(t, s.MarkRequired("name"))
	require.NoError(t, s.SetAllowedType("name", reflect.TypeOf("")))
	require.NoError(t, s.SetAllowedType("retries", reflect.TypeOf(0)))
	require.NoError(t, s.SetAllowedType("timeout", reflect.TypeOf(time.Duration(0))))
	require.NoError(t, s.SetAllowedType("endpoint", reflect.TypeOf(&endpoint{})))
	require.NoError(t, s.SetAllowedType("hook", reflect.TypeOf(func() {})))
	s.SetDefault("retries", 3)
	s.SetDefault("timeout", 5*time.Second)

	doc := s.JSONSchema()
	require.NotNil(t, doc)
	assert.Equal(t, "object", doc.Type)
	assert.Equal(t, []string{"name"}, doc.Required)

	var keys []string
	for pair := doc.Properties.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}

	assert.Equal(t, []string{"name", "retries", "timeout", "endpoint", "hook"}, keys)

	retries, ok := doc.Properties.Get("retries")
	require.True(t, ok)
	assert.Equal(t, "integer", retries.Type)
	assert.Equal(t, 3, retries.Default)

	timeout, _ := doc.Properties.Get("timeout")
	assert.Equal(t, "string", timeout.Type)
	assert.Equal(t, "5s", timeout.Default)

	ep, _ := doc.Properties.Get("endpoint")
	assert.Equal(t, "object", ep.Type)
	assert.Empty(t, ep.Version)

	hook, _ := doc.Properties.Get("hook")
	assert.Empty(t, hook.Type)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"additionalProperties":false`)
}
