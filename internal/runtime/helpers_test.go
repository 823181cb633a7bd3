package runtime_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/bitty/internal/runtime"
	"github.com/aretw0/bitty/pkg/adapters/memory"
	"github.com/aretw0/bitty/pkg/domain"
	"github.com/aretw0/bitty/pkg/registry"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// sequentialIDs returns a deterministic identity generator.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type call struct {
	Signal string
	Node   string
	Event  *domain.Event
}

// recorder hands out handlers that log their invocations.
type recorder struct {
	calls []call
}

func (r *recorder) handler(signal string) domain.Handler {
	return func(ctx context.Context, ev *domain.Event, node domain.Node) error {
		r.calls = append(r.calls, call{Signal: signal, Node: elementID(node), Event: ev})
		return nil
	}
}

func (r *recorder) signals(names ...string) map[string]domain.Handler {
	out := make(map[string]domain.Handler, len(names))
	for _, name := range names {
		out[name] = r.handler(name)
	}
	return out
}

func (r *recorder) nodes(signal string) []string {
	var out []string
	for _, c := range r.calls {
		if c.Signal == signal {
			out = append(out, c.Node)
		}
	}
	return out
}

func elementID(n domain.Node) string {
	if n == nil {
		return ""
	}
	return n.(*memory.Element).ID()
}

func el(doc *memory.Document, tag, id string, data ...string) *memory.Element {
	e := doc.CreateElement(tag)
	if id != "" {
		e.SetAttr("id", id)
	}
	for i := 0; i+1 < len(data); i += 2 {
		e.SetData(data[i], data[i+1])
	}
	return e
}

// defaultRegistry registers ctrl as the process default controller.
func defaultRegistry(t *testing.T, ctrl domain.Controller) *registry.Registry {
	t.Helper()
	reg := registry.NewRegistry()
	require.NoError(t, reg.SetDefault(func() (domain.Controller, error) { return ctrl, nil }))
	return reg
}

func mount(t *testing.T, doc *memory.Document, root *memory.Element, opts ...runtime.Option) *runtime.Component {
	t.Helper()
	opts = append([]runtime.Option{runtime.WithIDGenerator(sequentialIDs())}, opts...)
	c := runtime.NewComponent(doc, root, runtime.NewConfig(opts...))
	require.NoError(t, c.Mount(context.Background()))
	return c
}

// mockController is a testify mock of a controller with an Init hook.
type mockController struct {
	mock.Mock
}

func (m *mockController) Handler(signal string) (domain.Handler, bool) {
	args := m.Called(signal)
	h, _ := args.Get(0).(domain.Handler)
	return h, args.Bool(1)
}

func (m *mockController) Init(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
