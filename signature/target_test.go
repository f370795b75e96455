package signature

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type client struct {
	name    string
	retries int
}

func newClient(name string, retries int) *client {
	return &client{name: name, retries: retries}
}

func newFailingClient(name string) (*client, error) {
	if name == "" {
		return nil, errors.New("empty name")
	}

	return &client{name: name}, nil
}

type serverConfig struct {
	ListenAddr  string
	MaxConns    int           `default:"64"`
	ReadTimeout time.Duration `default:"5s"`
	TLS         bool          `option:"use_tls,optional"`
	Internal    string        `option:"-"`
	hidden      int
}

func TestInspect_Func(t *testing.T) {
	target := Func(newClient, Param("name"), Param("maxRetries", Default(3)))

	params, err := Inspect(target)
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, 0, params[0].Position)
	assert.Equal(t, "name", params[0].Name)
	assert.True(t, params[0].Required)
	assert.False(t, params[0].HasDefault)
	assert.Equal(t, reflect.TypeOf(""), params[0].Type)

	assert.Equal(t, 1, params[1].Position)
	assert.Equal(t, "maxRetries", params[1].RawName)
	assert.Equal(t, "max_retries", params[1].Name)
	assert.False(t, params[1].Required)
	assert.True(t, params[1].HasDefault)
	assert.Equal(t, 3, params[1].Default)
}

func TestInspect_FuncDefaultIsConverted(t *testing.T) {
	fn := func(timeout int64, level string) *client { return nil }

	params, err := Inspect(Func(fn, Param("timeout", Default(30)), Param("level", Default("info"))))
	require.NoError(t, err)
	assert.Equal(t, int64(30), params[0].Default)
}

func TestInspect_Optional(t *testing.T) {
	fn := func(a, b, c int) *client { return nil }

	params, err := Inspect(Func(fn, Param("a"), Param("b", Optional()), Param("c", Optional())))
	require.NoError(t, err)
	assert.True(t, params[0].Required)
	assert.False(t, params[1].Required)
	assert.False(t, params[1].HasDefault)
	assert.True(t, params[2].Optional)
}

func TestInspect_Struct(t *testing.T) {
	target := Struct[serverConfig]()

	params, err := Inspect(target)
	require.NoError(t, err)
	require.Len(t, params, 4)

	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
		assert.Equal(t, i, p.Position)
	}

	assert.Equal(t, []string{"listen_addr", "max_conns", "read_timeout", "use_tls"}, names)
	assert.True(t, params[0].Required)
	assert.Equal(t, 64, params[1].Default)
	assert.Equal(t, 5*time.Second, params[2].Default)
	assert.False(t, params[3].Required)
	assert.Equal(t, reflect.TypeOf(&serverConfig{}), target.Type())
}

func TestInspect_Zero(t *testing.T) {
	params, err := Inspect(Zero[client]())
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestInspect_InvalidTargets(t *testing.T) {
	type badDefault struct {
		Port int `default:"not-a-number"`
	}

	cases := []struct {
		name   string
		target Target
	}{
		{"empty", Target{}},
		{"nil func", Func(nil)},
		{"not a func", Func(42)},
		{"nil typed func", Func((func() *client)(nil))},
		{"no results", Func(func() {})},
		{"bad second result", Func(func() (*client, int) { return nil, 0 })},
		{"error only", Func(func() error { return nil })},
		{"variadic", Func(func(names ...string) *client { return nil }, Param("names"))},
		{"missing descriptor", Func(newClient, Param("name"))},
		{"extra descriptor", Func(newFailingClient, Param("name"), Param("extra"))},
		{"empty name", Func(newFailingClient, Param(""))},
		{"colliding names", Func(newClient, Param("maxRetries"), Param("max_retries", Default(1)))},
		{"bad default", Func(newClient, Param("name"), Param("retries", Default("three")))},
		{"lossy default", Func(newClient, Param("name"), Param("retries", Default(2.5)))},
		{"bad default tag", Struct[badDefault]()},
		{"struct of non-struct", StructOf(reflect.TypeOf(0))},
		{"nil struct type", StructOf(nil)},
		{"nil zero type", ZeroOf(nil)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params, err := Inspect(tc.target)
			require.Error(t, err)
			assert.Nil(t, params)
			assert.ErrorIs(t, err, ErrInvalidTarget)

			var invalidErr *InvalidTargetError
			require.ErrorAs(t, err, &invalidErr)
			assert.NotNil(t, invalidErr.Err)
		})
	}
}

func TestTarget_Name(t *testing.T) {
	assert.Equal(t, "ctor-factory/signature.client", Func(newClient, Param("name"), Param("retries")).Name())
	assert.Equal(t, "ctor-factory/signature.serverConfig", Struct[serverConfig]().Name())
	assert.Equal(t, "time.Duration", TypeName(reflect.TypeOf(time.Second)))
	assert.Equal(t, "int", TypeName(reflect.TypeOf(0)))
	assert.Equal(t, "[]string", TypeName(reflect.TypeOf([]string{})))
	assert.Equal(t, "", Target{}.Name())
}

func TestTarget_NewFunc(t *testing.T) {
	target := Func(newClient, Param("name"), Param("retries", Default(3)))

	got, err := target.New([]any{"x"})
	require.NoError(t, err)
	assert.Equal(t, &client{name: "x", retries: 3}, got)

	got, err = target.New([]any{"x", 7})
	require.NoError(t, err)
	assert.Equal(t, &client{name: "x", retries: 7}, got)

	_, err = target.New([]any{"x", 7, 8})
	require.Error(t, err)

	_, err = target.New([]any{"x", "seven"})
	require.Error(t, err)
}

func TestTarget_NewFuncError(t *testing.T) {
	target := Func(newFailingClient, Param("name"))

	_, err := target.New([]any{""})
	require.EqualError(t, err, "empty name")

	got, err := target.New([]any{"ok"})
	require.NoError(t, err)
	assert.Equal(t, &client{name: "ok"}, got)
}

func TestTarget_NewStruct(t *testing.T) {
	got, err := Struct[serverConfig]().New([]any{":8080"})
	require.NoError(t, err)
	assert.Equal(t, &serverConfig{ListenAddr: ":8080", MaxConns: 64, ReadTimeout: 5 * time.Second}, got)

	got, err = Struct[serverConfig]().New([]any{":9090", 10, time.Second, true})
	require.NoError(t, err)
	assert.Equal(t, &serverConfig{ListenAddr: ":9090", MaxConns: 10, ReadTimeout: time.Second, TLS: true}, got)
}

func TestTarget_NewZero(t *testing.T) {
	got, err := Zero[client]().New(nil)
	require.NoError(t, err)
	assert.Equal(t, &client{}, got)
}

func TestTarget_NewInvalid(t *testing.T) {
	_, err := Func(42).New(nil)
	require.ErrorIs(t, err, ErrInvalidTarget)
}
