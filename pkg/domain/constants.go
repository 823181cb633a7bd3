package domain

// Data attribute keys consumed by the dispatch engine.
const (
	// KeyConnect holds the connection descriptor on a component root.
	KeyConnect = "connect"
	// KeyListeners overrides the interaction event names a component subscribes to.
	KeyListeners = "listeners"
	// KeySend lists the signals a node emits when interacted with.
	KeySend = "send"
	// KeyReceive lists the signals a node subscribes to.
	KeyReceive = "receive"
	// KeyForward is a one-shot signal list that preempts KeySend for a single dispatch.
	KeyForward = "forward"
	// KeyIdentity is the write-once identity assigned to every observed node.
	KeyIdentity = "uuid"
)

// Event types synthesized by the engine itself.
const (
	EventForward  = "bittyforward"
	EventSelfSend = "bittytagdatasend"
)

// DefaultTagName is the element tag that marks a component root.
const DefaultTagName = "bitty-2-0"

// ListSeparator delimits signal and listener lists in attribute values.
const ListSeparator = "|"

// DefaultListeners returns the interaction events a component subscribes to
// when its root declares no override.
func DefaultListeners() []string {
	return []string{"click", "input"}
}
