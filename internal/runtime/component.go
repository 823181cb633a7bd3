package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/bitty/pkg/domain"
	"github.com/aretw0/bitty/pkg/ports"
	"github.com/aretw0/bitty/pkg/registry"
)

// ErrAlreadyMounted is returned when Mount is called on a live component.
var ErrAlreadyMounted = errors.New("component already mounted")

// Component is one mounted instance: a root node bound to a controller, with
// the receiver registry derived from the root's subtree.
//
// A Component is not safe for concurrent use. All calls, including the
// host callbacks it installs, must come from the host's goroutine.
type Component struct {
	host   ports.Host
	root   domain.Node
	cfg    *Config
	logger *slog.Logger

	ctx        context.Context
	descriptor Descriptor
	controller domain.Controller
	funcs      map[string]registry.Func
	receivers  []Receiver
	listeners  []string

	unobserve ports.Unsubscribe
	unlisten  []ports.Unsubscribe

	mounted   bool
	connected bool
	err       error
}

var _ domain.API = (*Component)(nil)

// NewComponent prepares a component for root. Nothing is attached until Mount.
func NewComponent(host ports.Host, root domain.Node, cfg *Config) *Component {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Component{
		host:   host,
		root:   root,
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Mount connects the component and brings it live. The sequence is:
// resolve the controller, assign identities, build the receiver registry,
// observe the subtree, install listeners, await controller Init, then
// dispatch the root's own send list once.
//
// A connection or Init failure leaves the component mounted but inert; the
// cause is available from Err. Mount only fails for misuse.
func (c *Component) Mount(ctx context.Context) error {
	if c.root == nil || c.host == nil {
		return errors.New("component requires a host and a root node")
	}
	if c.mounted {
		return ErrAlreadyMounted
	}
	c.mounted = true
	c.ctx = context.WithoutCancel(ctx)

	raw, _ := c.root.Data(domain.KeyConnect)
	c.descriptor = ParseDescriptor(raw)
	c.logger = c.cfg.Logger.With("descriptor", c.descriptor.String())

	ctrl, err := c.resolve(ctx, c.descriptor)
	if err != nil {
		c.err = &ResolveError{Descriptor: c.descriptor.String(), Err: err}
		c.logger.Warn("component degraded: controller unresolved", "err", c.err)
		c.emitMount(ctx)
		return nil
	}
	c.controller = ctrl
	c.funcs = c.cfg.Registry.Funcs()
	if b, ok := ctrl.(domain.Binder); ok {
		b.Bind(c)
	}

	c.assignIdentities()
	c.logger = c.logger.With("component", c.ID())

	c.rebuild(ctx)
	c.unobserve = c.host.Observe(c.root, c.onMutations)
	c.installListeners()
	c.connected = true

	if init, ok := ctrl.(domain.Initializer); ok {
		if err := init.Init(c.ctx); err != nil {
			c.err = fmt.Errorf("controller init: %w", err)
			c.logger.Warn("component degraded: init failed", "err", err)
			c.detach()
			c.emitMount(ctx)
			return nil
		}
	}

	c.logger.Debug("component mounted", "receivers", len(c.receivers), "listeners", c.listeners)
	c.emitMount(ctx)

	if send, ok := c.root.Data(domain.KeySend); ok && send != "" {
		ev := domain.NewEvent(domain.EventSelfSend, c.root)
		ev.ID = c.cfg.IDGen()
		c.Handle(c.ctx, ev)
	}
	return nil
}

// Unmount detaches the observer and listeners and drops the controller.
// Calling it on an unmounted component is a no-op.
func (c *Component) Unmount(ctx context.Context) {
	if !c.mounted {
		return
	}
	// The unmount record reports whether the component was live until now.
	wasConnected := c.connected
	c.detach()
	c.mounted = false
	c.logger.Debug("component unmounted")
	if c.cfg.Hooks.OnUnmount != nil {
		c.cfg.Hooks.OnUnmount(ctx, &domain.MountEvent{
			ComponentID: c.ID(),
			Descriptor:  c.descriptor.String(),
			Connected:   wasConnected,
		})
	}
}

func (c *Component) detach() {
	if c.unobserve != nil {
		c.unobserve()
		c.unobserve = nil
	}
	for _, unsub := range c.unlisten {
		unsub()
	}
	c.unlisten = nil
	c.controller = nil
	c.receivers = nil
	c.connected = false
}

func (c *Component) emitMount(ctx context.Context) {
	if c.cfg.Hooks.OnMount == nil {
		return
	}
	c.cfg.Hooks.OnMount(ctx, &domain.MountEvent{
		ComponentID: c.ID(),
		Descriptor:  c.descriptor.String(),
		Connected:   c.connected,
		Err:         c.err,
	})
}

// ID implements domain.API.
func (c *Component) ID() string {
	return domain.Identity(c.root)
}

// Root implements domain.API.
func (c *Component) Root() domain.Node {
	return c.root
}

// Descriptor returns the parsed connection descriptor.
func (c *Component) Descriptor() Descriptor {
	return c.descriptor
}

// Controller returns the bound controller, or nil when degraded.
func (c *Component) Controller() domain.Controller {
	return c.controller
}

// Connected reports whether the component is live.
func (c *Component) Connected() bool {
	return c.connected
}

// Mounted reports whether Mount has been called without a matching Unmount.
func (c *Component) Mounted() bool {
	return c.mounted
}

// Err returns the reason the component is degraded, if any.
func (c *Component) Err() error {
	return c.err
}

// Listeners returns the interaction events the component listens for.
func (c *Component) Listeners() []string {
	return append([]string(nil), c.listeners...)
}

// Match implements domain.API.
func (c *Component) Match(ev *domain.Event, node domain.Node, key string) bool {
	return Match(ev, node, key)
}

// Fn implements domain.API.
func (c *Component) Fn(name string) (domain.BoundFunc, bool) {
	f, ok := c.funcs[name]
	if !ok {
		return nil, false
	}
	return func(ctx context.Context, args ...any) (any, error) {
		return f(ctx, c, args...)
	}, true
}

// UseTemplate implements domain.API. Substitutions are applied in order.
func (c *Component) UseTemplate(content string, subs ...domain.Substitution) ([]domain.Node, error) {
	for _, s := range subs {
		content = strings.ReplaceAll(content, s.Old, s.New)
	}
	nodes, err := c.host.Fragment(content)
	if err != nil {
		return nil, fmt.Errorf("use template: %w", err)
	}
	return nodes, nil
}

// UseEl implements domain.API.
func (c *Component) UseEl(content string, subs ...domain.Substitution) (domain.Node, error) {
	nodes, err := c.UseTemplate(content, subs...)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, errors.New("use el: template produced no nodes")
	}
	return nodes[0], nil
}
