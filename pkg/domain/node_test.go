package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "empty", value: "", want: nil},
		{name: "single", value: "open", want: []string{"open"}},
		{name: "trims", value: " open | close ", want: []string{"open", "close"}},
		{name: "drops empty", value: "a||b|", want: []string{"a", "b"}},
		{name: "keeps duplicates", value: "a|a", want: []string{"a", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitList(tt.value)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModule_Export(t *testing.T) {
	f := func() (Controller, error) { return nil, nil }

	t.Run("default", func(t *testing.T) {
		m := &Module{Name: "m", Default: f}
		got, err := m.Export("")
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("missing default", func(t *testing.T) {
		m := &Module{Name: "m"}
		_, err := m.Export("")
		assert.ErrorIs(t, err, ErrNoDefaultExport)
	})

	t.Run("named", func(t *testing.T) {
		m := &Module{Name: "m", Exports: map[string]Factory{"Counter": f}}
		got, err := m.Export("Counter")
		require.NoError(t, err)
		assert.NotNil(t, got)

		_, err = m.Export("Missing")
		assert.ErrorIs(t, err, ErrExportNotFound)
	})
}

func TestCombineHooks(t *testing.T) {
	var calls []string
	a := LifecycleHooks{OnDispatch: func(context.Context, *DispatchEvent) { calls = append(calls, "a") }}
	b := LifecycleHooks{OnDispatch: func(context.Context, *DispatchEvent) { calls = append(calls, "b") }}

	hooks := CombineHooks(a, LifecycleHooks{}, b)
	hooks.OnDispatch(context.Background(), &DispatchEvent{Signal: "x"})
	hooks.OnMount(context.Background(), &MountEvent{})

	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestDispatchEvent_Handled(t *testing.T) {
	assert.False(t, (&DispatchEvent{}).Handled())
	assert.True(t, (&DispatchEvent{Fallback: true}).Handled())
	assert.True(t, (&DispatchEvent{Receivers: []string{"n1"}}).Handled())
}
