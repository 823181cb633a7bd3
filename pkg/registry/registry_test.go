package registry

import (
	"context"
	"testing"

	"github.com/aretw0/bitty/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopController struct{}

func (nopController) Handler(string) (domain.Handler, bool) { return nil, false }

func nopFactory() (domain.Controller, error) { return nopController{}, nil }

func TestRegistry_Classes(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup("Counter")
	assert.False(t, ok)

	require.NoError(t, r.Register("Counter", nopFactory))
	require.NoError(t, r.Register("Alpha", nopFactory))

	f, ok := r.Lookup("Counter")
	require.True(t, ok)
	c, err := f()
	require.NoError(t, err)
	assert.IsType(t, nopController{}, c)

	assert.Equal(t, []string{"Alpha", "Counter"}, r.Names())
}

func TestRegistry_InvalidRegistration(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register("", nopFactory))
	assert.Error(t, r.Register("X", nil))
	assert.Error(t, r.RegisterFunc("", func(context.Context, domain.API, ...any) (any, error) { return nil, nil }))
}

func TestRegistry_Default(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Default()
	assert.False(t, ok)

	require.NoError(t, r.SetDefault(nopFactory))
	_, ok = r.Default()
	assert.True(t, ok)
}

func TestRegistry_Freeze(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Counter", nopFactory))
	r.Freeze()
	assert.True(t, r.Frozen())

	assert.ErrorIs(t, r.Register("Other", nopFactory), domain.ErrRegistryFrozen)
	assert.ErrorIs(t, r.SetDefault(nopFactory), domain.ErrRegistryFrozen)
	assert.ErrorIs(t, r.RegisterFunc("fn", func(context.Context, domain.API, ...any) (any, error) { return nil, nil }), domain.ErrRegistryFrozen)

	_, ok := r.Lookup("Counter")
	assert.True(t, ok, "reads keep working after freeze")
}

func TestRegistry_FuncsSnapshot(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterFunc("greet", func(_ context.Context, _ domain.API, args ...any) (any, error) {
		return "hi", nil
	}))

	funcs := r.Funcs()
	require.Contains(t, funcs, "greet")
	delete(funcs, "greet")

	assert.Contains(t, r.Funcs(), "greet", "snapshot must not alias the table")
}
