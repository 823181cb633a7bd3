package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/bitty/pkg/domain"
)

// LogHooks returns hooks that write lifecycle events to logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnMount: func(ctx context.Context, e *domain.MountEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "component_mount", "component", e.ComponentID, "descriptor", e.Descriptor, "connected", e.Connected, "err", e.Err)
				return
			}
			logger.InfoContext(ctx, "component_mount", "component", e.ComponentID, "descriptor", e.Descriptor, "connected", e.Connected)
		},
		OnUnmount: func(ctx context.Context, e *domain.MountEvent) {
			logger.InfoContext(ctx, "component_unmount", "component", e.ComponentID)
		},
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			logger.DebugContext(ctx, "dispatch",
				"component", e.ComponentID,
				"event", e.EventType,
				"signal", e.Signal,
				"outcome", Outcome(e),
				"receivers", len(e.Receivers),
			)
		},
		OnHandlerError: func(ctx context.Context, e *domain.HandlerErrorEvent) {
			logger.ErrorContext(ctx, "handler_error", "component", e.ComponentID, "signal", e.Signal, "node", e.NodeID, "err", e.Err)
		},
	}
}
