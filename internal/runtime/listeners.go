package runtime

import "github.com/aretw0/bitty/pkg/domain"

func (c *Component) installListeners() {
	c.listeners = c.cfg.Listeners
	if v, ok := c.root.Data(domain.KeyListeners); ok {
		if names := domain.SplitList(v); len(names) > 0 {
			c.listeners = names
		}
	}
	for _, name := range c.listeners {
		c.unlisten = append(c.unlisten, c.host.Listen(name, c.onInteraction))
	}
}

func (c *Component) onInteraction(ev *domain.Event) {
	if ev == nil || ev.Target == nil {
		return
	}
	if c.isRoot(ev.Target) {
		return
	}
	if send, ok := ev.Target.Data(domain.KeySend); !ok || send == "" {
		return
	}
	ev.ID = c.cfg.IDGen()
	c.Handle(c.ctx, ev)
}

func (c *Component) isRoot(n domain.Node) bool {
	if c.cfg.IsRoot != nil {
		return c.cfg.IsRoot(n)
	}
	return n == c.root
}
