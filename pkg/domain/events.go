package domain

import (
	"context"
	"time"
)

// MountEvent describes the outcome of mounting or unmounting a component.
type MountEvent struct {
	ComponentID string `json:"component_id"`
	Descriptor  string `json:"descriptor,omitempty"`
	Connected   bool   `json:"connected"`
	Err         error  `json:"-"`
}

// RebuildEvent is emitted after the receiver registry has been rebuilt.
type RebuildEvent struct {
	ComponentID string `json:"component_id"`
	Receivers   int    `json:"receivers"`
}

// DispatchEvent records how one signal of one event was routed.
type DispatchEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	ComponentID string    `json:"component_id"`
	EventID     string    `json:"event_id,omitempty"`
	EventType   string    `json:"event_type"`
	Signal      string    `json:"signal"`

	// Receivers holds the identities of the nodes that were invoked, in order.
	Receivers []string `json:"receivers,omitempty"`

	// Fallback is true when the component-level handler ran instead of receivers.
	Fallback bool `json:"fallback,omitempty"`
}

// Handled reports whether anything was invoked for the signal.
func (e *DispatchEvent) Handled() bool {
	return len(e.Receivers) > 0 || e.Fallback
}

// HandlerErrorEvent is emitted when a signal handler returns an error or panics.
type HandlerErrorEvent struct {
	ComponentID string `json:"component_id"`
	Signal      string `json:"signal"`
	NodeID      string `json:"node_id,omitempty"`
	Err         error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnMount        func(context.Context, *MountEvent)
	OnUnmount      func(context.Context, *MountEvent)
	OnRebuild      func(context.Context, *RebuildEvent)
	OnDispatch     func(context.Context, *DispatchEvent)
	OnHandlerError func(context.Context, *HandlerErrorEvent)
}

// CombineHooks fans every callback out to all given hook sets, in order.
func CombineHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnMount: func(ctx context.Context, e *MountEvent) {
			for _, h := range hooks {
				if h.OnMount != nil {
					h.OnMount(ctx, e)
				}
			}
		},
		OnUnmount: func(ctx context.Context, e *MountEvent) {
			for _, h := range hooks {
				if h.OnUnmount != nil {
					h.OnUnmount(ctx, e)
				}
			}
		},
		OnRebuild: func(ctx context.Context, e *RebuildEvent) {
			for _, h := range hooks {
				if h.OnRebuild != nil {
					h.OnRebuild(ctx, e)
				}
			}
		},
		OnDispatch: func(ctx context.Context, e *DispatchEvent) {
			for _, h := range hooks {
				if h.OnDispatch != nil {
					h.OnDispatch(ctx, e)
				}
			}
		},
		OnHandlerError: func(ctx context.Context, e *HandlerErrorEvent) {
			for _, h := range hooks {
				if h.OnHandlerError != nil {
					h.OnHandlerError(ctx, e)
				}
			}
		},
	}
}
