package runtime

import (
	"context"

	"github.com/aretw0/bitty/pkg/domain"
)

// Receiver binds one receiving node to the handler of one signal.
type Receiver struct {
	Signal  string
	Node    domain.Node
	handler domain.Handler
}

// Receivers returns a copy of the registry in scan order.
func (c *Component) Receivers() []Receiver {
	return append([]Receiver(nil), c.receivers...)
}

// rebuild rescans the subtree and replaces the registry. Names the
// controller has no handler for are skipped.
func (c *Component) rebuild(ctx context.Context) {
	if c.controller == nil {
		return
	}

	var entries []Receiver
	for _, n := range c.root.Descendants() {
		value, ok := n.Data(domain.KeyReceive)
		if !ok {
			continue
		}
		for _, signal := range domain.SplitList(value) {
			h, ok := c.controller.Handler(signal)
			if !ok {
				continue
			}
			entries = append(entries, Receiver{Signal: signal, Node: n, handler: h})
		}
	}
	c.receivers = entries

	if c.cfg.Hooks.OnRebuild != nil {
		c.cfg.Hooks.OnRebuild(ctx, &domain.RebuildEvent{
			ComponentID: c.ID(),
			Receivers:   len(entries),
		})
	}
}
