package demo

import (
	"context"
	"strconv"

	"github.com/aretw0/bitty/pkg/controller"
	"github.com/aretw0/bitty/pkg/domain"
)

// Counter keeps a count per component. Its root may seed it with data-start.
type Counter struct {
	api   domain.API
	count int
}

// NewCounter creates a counter controller.
func NewCounter() (domain.Controller, error) {
	return controller.Methods(&Counter{}), nil
}

func (c *Counter) Bind(api domain.API) { c.api = api }

func (c *Counter) Init(ctx context.Context) error {
	start, ok := c.api.Root().Data("start")
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(start)
	if err != nil {
		return err
	}
	c.count = n
	return nil
}

// Count returns the current value.
func (c *Counter) Count() int {
	return c.count
}

func (c *Counter) Increment(ctx context.Context, ev *domain.Event, node domain.Node) {
	// Receivers and the fallback share one increment per event.
	if node == nil || c.first(ev, "increment") {
		c.count++
	}
	c.show(node)
}

func (c *Counter) Decrement(ctx context.Context, ev *domain.Event, node domain.Node) {
	if node == nil || c.first(ev, "decrement") {
		c.count--
	}
	c.show(node)
}

func (c *Counter) Render(ctx context.Context, ev *domain.Event, node domain.Node) {
	c.show(node)
}

func (c *Counter) Reset(ctx context.Context, ev *domain.Event, node domain.Node) {
	c.count = 0
	c.api.Forward(ctx, "render")
}

// first reports whether this is the first receiver of signal for ev, so a
// multi-receiver dispatch changes the count once.
func (c *Counter) first(ev *domain.Event, signal string) bool {
	key := "counted:" + signal
	if seen, _ := ev.Detail[key].(bool); seen {
		return false
	}
	if ev.Detail == nil {
		ev.Detail = make(map[string]any)
	}
	ev.Detail[key] = true
	return true
}

func (c *Counter) show(node domain.Node) {
	if node != nil {
		setText(node, strconv.Itoa(c.count))
	}
}
