package domain

import "time"

// Event is an interaction event (click, input...) or an engine-synthesized one.
type Event struct {
	// Type is the interaction name, e.g. "click", or one of the EventForward/EventSelfSend types.
	Type string `json:"type"`

	// ID is the correlation identity stamped when the event enters a component.
	ID string `json:"id,omitempty"`

	// Target is the node the event originated from.
	Target Node `json:"-"`

	// Value carries the payload of value-bearing events such as "input".
	Value string `json:"value,omitempty"`

	// Detail holds arbitrary host-specific data.
	Detail map[string]any `json:"detail,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates an event of the given type targeting node.
func NewEvent(eventType string, target Node) *Event {
	return &Event{
		Type:      eventType,
		Target:    target,
		Timestamp: time.Now(),
	}
}
