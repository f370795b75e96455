package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctor-factory/signature"
)

type widget struct{ Size int }

type gadget struct{}

func newWidget(size int) *widget { return &widget{Size: size} }

func TestRegistry_RegisterLookup(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(signature.Func(newWidget, signature.Param("size"))))
	require.NoError(t, r.Register(signature.Zero[gadget]()))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"ctor-factory/registry.gadget", "ctor-factory/registry.widget"}, r.Names())

	target, err := r.Lookup("ctor-factory/registry.widget")
	require.NoError(t, err)
	assert.Equal(t, signature.KindFunc, target.Kind())
}

func TestRegistry_Errors(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(signature.Struct[widget]()))

	err := r.Register(signature.Func(newWidget, signature.Param("size")))
	require.ErrorIs(t, err, ErrDuplicate)

	err = r.Register(signature.Func(newWidget))
	require.ErrorIs(t, err, ErrInvalid)
	require.ErrorIs(t, err, signature.ErrInvalidTarget)

	_, err = r.Lookup("nope.Missing")
	require.ErrorIs(t, err, ErrNotRegistered)

	assert.Panics(t, func() { r.MustRegister(signature.Target{}) })
}

func TestRegistry_Concurrent(t *testing.T) {
	r := New()

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			// Only one registration of the same target wins.
			_ = r.Register(signature.Zero[gadget]())
			_, _ = r.Lookup(fmt.Sprintf("missing.T%d", i))
			_ = r.Names()
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, r.Len())
}
