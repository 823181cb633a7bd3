package runtime

import (
	"log/slog"

	"github.com/aretw0/bitty/internal/logging"
	"github.com/aretw0/bitty/pkg/domain"
	"github.com/aretw0/bitty/pkg/ports"
	"github.com/aretw0/bitty/pkg/registry"
	"github.com/google/uuid"
)

// Config holds the collaborators shared by every component of an engine.
type Config struct {
	Logger   *slog.Logger
	Registry *registry.Registry
	Loader   ports.ModuleLoader
	Hooks    domain.LifecycleHooks

	// IDGen produces node identities and event correlation ids.
	IDGen func() string

	// Listeners are the interaction events installed when a root declares none.
	Listeners []string

	// IsRoot reports whether a node is a mounted component root.
	// Listeners ignore events originating from roots.
	IsRoot func(domain.Node) bool

	// Strict logs a warning for signals that reach neither a receiver nor a fallback.
	Strict bool
}

// Option configures a Config.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithRegistry sets the controller registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *Config) {
		c.Registry = reg
	}
}

// WithModuleLoader sets the loader used for module descriptors.
func WithModuleLoader(loader ports.ModuleLoader) Option {
	return func(c *Config) {
		c.Loader = loader
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Config) {
		c.Hooks = hooks
	}
}

// WithIDGenerator replaces the identity generator.
func WithIDGenerator(gen func() string) Option {
	return func(c *Config) {
		c.IDGen = gen
	}
}

// WithListeners sets the default interaction events.
func WithListeners(events ...string) Option {
	return func(c *Config) {
		c.Listeners = events
	}
}

// WithRootDetector sets the predicate identifying mounted component roots.
func WithRootDetector(isRoot func(domain.Node) bool) Option {
	return func(c *Config) {
		c.IsRoot = isRoot
	}
}

// WithStrict enables warnings for unhandled signals.
func WithStrict(strict bool) Option {
	return func(c *Config) {
		c.Strict = strict
	}
}

// NewConfig builds a Config from options, filling in defaults.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Registry == nil {
		cfg.Registry = registry.NewRegistry()
	}
	if cfg.IDGen == nil {
		cfg.IDGen = uuid.NewString
	}
	if len(cfg.Listeners) == 0 {
		cfg.Listeners = domain.DefaultListeners()
	}
	return cfg
}
