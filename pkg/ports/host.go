package ports

import "github.com/aretw0/bitty/pkg/domain"

// MutationRecord describes one structural change under an observed root.
type MutationRecord struct {
	// Target is the parent whose child list changed.
	Target  domain.Node
	Added   []domain.Node
	Removed []domain.Node
}

// MutationCallback receives one batch of structural changes.
type MutationCallback func(records []MutationRecord)

// ListenerFunc receives a document-scoped interaction event.
type ListenerFunc func(ev *domain.Event)

// Unsubscribe detaches an observer or listener. Calling it twice is a no-op.
type Unsubscribe func()

// Host is the external capability the runtime is mounted into.
// Hosts are single-threaded: callbacks fire on the goroutine that caused them.
type Host interface {
	// Observe subscribes fn to child-list insertions and removals anywhere under root.
	// Attribute and text changes are not reported.
	Observe(root domain.Node, fn MutationCallback) Unsubscribe

	// Listen installs a document-scoped listener for an interaction event type.
	Listen(eventType string, fn ListenerFunc) Unsubscribe

	// Flush delivers every pending mutation batch before returning.
	Flush()

	// Fragment materializes markup into detached nodes.
	Fragment(content string) ([]domain.Node, error)
}
