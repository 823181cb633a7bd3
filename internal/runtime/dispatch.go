package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/bitty/pkg/domain"
)

// Handle routes ev through the registry. The target's forward list, when
// present, is consumed in place of its send list.
func (c *Component) Handle(ctx context.Context, ev *domain.Event) {
	if ev == nil || ev.Target == nil || c.controller == nil {
		return
	}
	for _, signal := range signalsOf(ev.Target) {
		c.dispatch(ctx, ev, signal)
	}
}

func signalsOf(target domain.Node) []string {
	if fwd, ok := target.Data(domain.KeyForward); ok && fwd != "" {
		target.DeleteData(domain.KeyForward)
		return domain.SplitList(fwd)
	}
	send, _ := target.Data(domain.KeySend)
	return domain.SplitList(send)
}

func (c *Component) dispatch(ctx context.Context, ev *domain.Event, signal string) {
	rec := &domain.DispatchEvent{
		Timestamp:   time.Now(),
		ComponentID: c.ID(),
		EventID:     ev.ID,
		EventType:   ev.Type,
		Signal:      signal,
	}

	// A rebuild triggered by a handler takes effect on the next dispatch.
	for _, r := range c.receivers {
		if r.Signal != signal {
			continue
		}
		rec.Receivers = append(rec.Receivers, domain.Identity(r.Node))
		c.invoke(ctx, ev, signal, r.handler, r.Node)
	}

	if len(rec.Receivers) == 0 && c.controller != nil {
		if h, ok := c.controller.Handler(signal); ok {
			rec.Fallback = true
			c.invoke(ctx, ev, signal, h, nil)
		}
	}

	if !rec.Handled() {
		if c.cfg.Strict {
			c.logger.Warn("unhandled signal", "signal", signal, "event", ev.Type)
		}
	} else {
		c.logger.Debug("signal dispatched", "signal", signal, "event", ev.Type, "receivers", len(rec.Receivers), "fallback", rec.Fallback)
	}

	if c.cfg.Hooks.OnDispatch != nil {
		c.cfg.Hooks.OnDispatch(ctx, rec)
	}
}

func (c *Component) invoke(ctx context.Context, ev *domain.Event, signal string, h domain.Handler, node domain.Node) {
	defer func() {
		if r := recover(); r != nil {
			c.handlerFailed(ctx, signal, node, fmt.Errorf("handler panicked: %v", r))
		}
	}()
	if err := h(ctx, ev, node); err != nil {
		c.handlerFailed(ctx, signal, node, err)
	}
}

func (c *Component) handlerFailed(ctx context.Context, signal string, node domain.Node, err error) {
	nodeID := domain.Identity(node)
	c.logger.Error("signal handler failed", "signal", signal, "node", nodeID, "err", err)
	if c.cfg.Hooks.OnHandlerError != nil {
		c.cfg.Hooks.OnHandlerError(ctx, &domain.HandlerErrorEvent{
			ComponentID: c.ID(),
			Signal:      signal,
			NodeID:      nodeID,
			Err:         err,
		})
	}
}

// Forward implements domain.API. Pending structural notifications are
// delivered first so the dispatch sees the current subtree.
func (c *Component) Forward(ctx context.Context, signal string) {
	if c.controller == nil || len(domain.SplitList(signal)) == 0 {
		return
	}
	c.host.Flush()
	ev := domain.NewEvent(domain.EventForward, c.root)
	ev.ID = c.cfg.IDGen()
	c.root.SetData(domain.KeyForward, signal)
	c.Handle(ctx, ev)
}

// ForwardEvent implements domain.API. A nil event or target behaves like Forward.
func (c *Component) ForwardEvent(ctx context.Context, ev *domain.Event, signal string) {
	if ev == nil || ev.Target == nil {
		c.Forward(ctx, signal)
		return
	}
	if c.controller == nil || len(domain.SplitList(signal)) == 0 {
		return
	}
	c.host.Flush()
	ev.Target.SetData(domain.KeyForward, signal)
	c.Handle(ctx, ev)
}
