package runtime_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/bitty/internal/runtime"
	"github.com/aretw0/bitty/pkg/adapters/memory"
	"github.com/aretw0/bitty/pkg/controller"
	"github.com/aretw0/bitty/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_SendToReceive(t *testing.T) {
	doc := memory.NewDocument()
	root := el(doc, "bitty-2-0", "root")
	a := el(doc, "button", "a", domain.KeySend, "open")
	b := el(doc, "div", "b", domain.KeyReceive, "open")
	require.NoError(t, root.AppendChild(a))
	require.NoError(t, root.AppendChild(b))
	require.NoError(t, doc.Root().AppendChild(root))

	rec := &recorder{}
	mount(t, doc, root, runtime.WithRegistry(defaultRegistry(t, controller.Signals(rec.signals("open")))))

	ev := doc.Fire("click", a, "")

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "b", rec.calls[0].Node)
	assert.Same(t, ev, rec.calls[0].Event)
	assert.NotEmpty(t, ev.ID, "listener stamps a correlation id")
}

func TestDispatch_ReceiversInOrderWithoutFallback(t *testing.T) {
	doc := memory.NewDocument()
	root := el(doc, "bitty-2-0", "root")
	button := el(doc, "button", "go", domain.KeySend, "tick")
	require.NoError(t, root.AppendChild(button))
	for i := 1; i <= 3; i++ {
		require.NoError(t, root.AppendChild(el(doc, "p", fmt.Sprintf("r%d", i), domain.KeyReceive, "tick")))
	}
	require.NoError(t, doc.Root().AppendChild(root))

	rec := &recorder{}
	mount(t, doc, root, runtime.WithRegistry(defaultRegistry(t, controller.Signals(rec.signals("tick")))))

	doc.Fire("click", button, "")

	assert.Equal(t, []string{"r1", "r2", "r3"}, rec.nodes("tick"))
}

func TestDispatch_FallbackRunsOnceWithNilNode(t *testing.T) {
	doc := memory.NewDocument()
	root := el(doc, "bitty-2-0", "root")
	button := el(doc, "button", "save", domain.KeySend, "save")
	require.NoError(t, root.AppendChild(button))
	require.NoError(t, doc.Root().AppendChild(root))

	rec := &recorder{}
	var traces []*domain.DispatchEvent
	hooks := domain.LifecycleHooks{OnDispatch: func(_ context.Context, e *domain.DispatchEvent) { traces = append(traces, e) }}
	mount(t, doc, root,
		runtime.WithRegistry(defaultRegistry(t, controller.Signals(rec.signals("save")))),
		runtime.WithLifecycleHooks(hooks))

	doc.Fire("click", button, "")

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "", rec.calls[0].Node)
	require.Len(t, traces, 1)
	assert.True(t, traces[0].Fallback)
	assert.Equal(t, "save", traces[0].Signal)
}

func TestDispatch_UnknownSignalIsInert(t *testing.T) {
	doc := memory.NewDocument()
	root := el(doc, "bitty-2-0", "root")
	button := el(doc, "button", "b", domain.KeySend, "nothing| known")
	require.NoError(t, root.AppendChild(button))
	require.NoError(t, root.AppendChild(el(doc, "p", "p", domain.KeyReceive, "known")))
	require.NoError(t, doc.Root().AppendChild(root))

	rec := &recorder{}
	var traces []*domain.DispatchEvent
	hooks := domain.LifecycleHooks{OnDispatch: func(_ context.Context, e *domain.DispatchEvent) { traces = append(traces, e) }}
	mount(t, doc, root,
		runtime.WithRegistry(defaultRegistry(t, controller.Signals(rec.signals("known")))),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithStrict(true))

	doc.Fire("click", button, "")

	assert.Equal(t, []string{"p"}, rec.nodes("known"))
	require.Len(t, traces, 2)
	assert.False(t, traces[0].Handled())
	assert.True(t, traces[1].Handled())
}

func TestDispatch_ForwardIsOneShot(t *testing.T) {
	doc := memory.NewDocument()
	root := el(doc, "bitty-2-0", "root")
	button := el(doc, "button", "b", domain.KeySend, "normal")
	require.NoError(t, root.AppendChild(button))
	require.NoError(t, root.AppendChild(el(doc, "p", "n", domain.KeyReceive, "normal")))
	require.NoError(t, root.AppendChild(el(doc, "p", "o", domain.KeyReceive, "override")))
	require.NoError(t, doc.Root().AppendChild(root))

	rec := &recorder{}
	c := mount(t, doc, root, runtime.WithRegistry(defaultRegistry(t, controller.Signals(rec.signals("normal", "override")))))

	ev := domain.NewEvent("click", button)
	c.ForwardEvent(context.Background(), ev, "override")
	assert.Equal(t, []string{"o"}, rec.nodes("override"))
	_, stillThere := button.Data(domain.KeyForward)
	assert.False(t, stillThere)

	doc.Fire("click", button, "")
	assert.Equal(t, []string{"n"}, rec.nodes("normal"))
	assert.Equal(t, []string{"o"}, rec.nodes("override"))
}

func TestDispatch_ForwardFromRoot(t *testing.T) {
	doc := memory.NewDocument()
	root := el(doc, "bitty-2-0", "root", domain.KeySend, "ignored")
	require.NoError(t, root.AppendChild(el(doc, "p", "p", domain.KeyReceive, "ping")))
	require.NoError(t, doc.Root().AppendChild(root))

	rec := &recorder{}
	c := mount(t, doc, root, runtime.WithRegistry(defaultRegistry(t, controller.Signals(rec.signals("ping", "ignored")))))
	rec.calls = nil

	c.Forward(context.Background(), "ping")
	require.Len(t, rec.calls, 1)
	assert.Equal(t, domain.EventForward, rec.calls[0].Event.Type)
	assert.Same(t, root, rec.calls[0].Event.Target)

	c.Forward(context.Background(), "")
	c.ForwardEvent(context.Background(), nil, "ping")
	assert.Len(t, rec.calls, 2)
	assert.Empty(t, rec.nodes("ignored"))
}

func TestDispatch_ListenerIgnoresRootsAndSilentNodes(t *testing.T) {
	doc := memory.NewDocument()
	root := el(doc, "bitty-2-0", "root", domain.KeySend, "boot")
	plain := el(doc, "span", "plain")
	empty := el(doc, "span", "empty", domain.KeySend, "")
	require.NoError(t, root.AppendChild(plain))
	require.NoError(t, root.AppendChild(empty))
	require.NoError(t, doc.Root().AppendChild(root))

	rec := &recorder{}
	mount(t, doc, root, runtime.WithRegistry(defaultRegistry(t, controller.Signals(rec.signals("boot")))))
	require.Len(t, rec.calls, 1, "root self-dispatch")

	doc.Fire("click", root, "")
	doc.Fire("click", plain, "")
	doc.Fire("click", empty, "")
	doc.Fire("keyup", plain, "")

	assert.Len(t, rec.calls, 1)
}

func TestDispatch_HandlerFailuresAreContained(t *testing.T) {
	doc := memory.NewDocument()
	root := el(doc, "bitty-2-0", "root")
	button := el(doc, "button", "b", domain.KeySend, "work")
	require.NoError(t, root.AppendChild(button))
	for _, id := range []string{"panics", "fails", "ok"} {
		require.NoError(t, root.AppendChild(el(doc, "p", id, domain.KeyReceive, "work")))
	}
	require.NoError(t, doc.Root().AppendChild(root))

	var reached []string
	signals := controller.Signals{
		"work": func(ctx context.Context, ev *domain.Event, node domain.Node) error {
			id := elementID(node)
			reached = append(reached, id)
			switch id {
			case "panics":
				panic("kaboom")
			case "fails":
				return errors.New("nope")
			}
			return nil
		},
	}
	var failures []*domain.HandlerErrorEvent
	hooks := domain.LifecycleHooks{OnHandlerError: func(_ context.Context, e *domain.HandlerErrorEvent) { failures = append(failures, e) }}
	mount(t, doc, root, runtime.WithRegistry(defaultRegistry(t, signals)), runtime.WithLifecycleHooks(hooks))

	assert.NotPanics(t, func() { doc.Fire("click", button, "") })
	assert.Equal(t, []string{"panics", "fails", "ok"}, reached)
	require.Len(t, failures, 2)
	assert.ErrorContains(t, failures[0].Err, "kaboom")
	assert.ErrorContains(t, failures[1].Err, "nope")
	assert.Equal(t, "work", failures[1].Signal)
}

func TestDispatch_HandlerContextOutlivesMount(t *testing.T) {
	doc := memory.NewDocument()
	root := el(doc, "bitty-2-0", "root")
	button := el(doc, "button", "b", domain.KeySend, "go")
	require.NoError(t, root.AppendChild(button))
	require.NoError(t, doc.Root().AppendChild(root))

	var ctxErr error
	signals := controller.Signals{"go": func(ctx context.Context, _ *domain.Event, _ domain.Node) error {
		ctxErr = ctx.Err()
		return nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	c := runtime.NewComponent(doc, root, runtime.NewConfig(runtime.WithRegistry(defaultRegistry(t, signals))))
	require.NoError(t, c.Mount(ctx))
	cancel()

	doc.Fire("click", button, "")
	assert.NoError(t, ctxErr)
}

// A handler that appends receivers and forwards in the same dispatch must reach all of them.
func TestDispatch_PeepsAppendedInHandler(t *testing.T) {
	doc := memory.NewDocument()
	root := el(doc, "bitty-2-0", "root")
	button := el(doc, "button", "add", domain.KeySend, "addPeeps")
	list := el(doc, "ul", "list")
	require.NoError(t, root.AppendChild(button))
	require.NoError(t, root.AppendChild(list))
	require.NoError(t, doc.Root().AppendChild(root))

	var comp *runtime.Component
	var peeped []string
	signals := controller.Signals{
		"addPeeps": func(ctx context.Context, _ *domain.Event, _ domain.Node) error {
			for i := 0; i < 12; i++ {
				if err := list.AppendChild(el(doc, "li", fmt.Sprintf("peep-%d", i), domain.KeyReceive, "peep")); err != nil {
					return err
				}
			}
			comp.Forward(ctx, "peep")
			return nil
		},
		"peep": func(_ context.Context, _ *domain.Event, node domain.Node) error {
			peeped = append(peeped, elementID(node))
			return nil
		},
	}
	comp = mount(t, doc, root, runtime.WithRegistry(defaultRegistry(t, signals)))

	doc.Fire("click", button, "")

	require.Len(t, peeped, 12)
	assert.Equal(t, "peep-0", peeped[0])
	assert.Equal(t, "peep-11", peeped[11])
	for _, li := range list.Children() {
		assert.NotEmpty(t, domain.Identity(li))
	}
}

func TestDispatch_PeepsAppendedOutsideDispatch(t *testing.T) {
	doc := memory.NewDocument()
	root := el(doc, "bitty-2-0", "root")
	require.NoError(t, doc.Root().AppendChild(root))

	rec := &recorder{}
	c := mount(t, doc, root, runtime.WithRegistry(defaultRegistry(t, controller.Signals(rec.signals("peep")))))

	for i := 0; i < 12; i++ {
		require.NoError(t, root.AppendChild(el(doc, "li", fmt.Sprintf("peep-%d", i), domain.KeyReceive, "peep")))
	}
	c.Forward(context.Background(), "peep")

	assert.Len(t, rec.nodes("peep"), 12)
}

func TestDispatch_CrossComponentIsolation(t *testing.T) {
	doc := memory.NewDocument()
	left := el(doc, "bitty-2-0", "left")
	right := el(doc, "bitty-2-0", "right")
	button := el(doc, "button", "b", domain.KeySend, "open")
	require.NoError(t, left.AppendChild(button))
	require.NoError(t, right.AppendChild(el(doc, "p", "far", domain.KeyReceive, "open")))
	require.NoError(t, doc.Root().AppendChild(left))
	require.NoError(t, doc.Root().AppendChild(right))

	leftRec, rightRec := &recorder{}, &recorder{}
	isRoot := func(n domain.Node) bool { return n == domain.Node(left) || n == domain.Node(right) }
	ids := sequentialIDs()
	for root, rec := range map[*memory.Element]*recorder{left: leftRec, right: rightRec} {
		c := runtime.NewComponent(doc, root, runtime.NewConfig(
			runtime.WithRegistry(defaultRegistry(t, controller.Signals(rec.signals("open")))),
			runtime.WithRootDetector(isRoot),
			runtime.WithIDGenerator(ids)))
		require.NoError(t, c.Mount(context.Background()))
	}

	doc.Fire("click", button, "")

	// The left component has no receiver and falls back; the right one routes to its receiver.
	assert.Equal(t, []string{""}, leftRec.nodes("open"))
	assert.Equal(t, []string{"far"}, rightRec.nodes("open"))
}
