package domain

import "strings"

// Node is an addressable element of a host tree.
// Implementations are provided by host adapters (see pkg/adapters/memory).
type Node interface {
	// Tag returns the lower-cased element name.
	Tag() string

	// Data returns the value of a data attribute and whether it is defined.
	Data(key string) (string, bool)

	// SetData defines or replaces a data attribute.
	SetData(key, value string)

	// DeleteData removes a data attribute. Removing an undefined key is a no-op.
	DeleteData(key string)

	// Descendants returns every node below this one in document order, excluding itself.
	Descendants() []Node
}

// SplitList splits a `|`-delimited attribute value into trimmed, non-empty names.
func SplitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ListSeparator)
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		names = append(names, p)
	}
	return names
}

// Identity returns the node's assigned identity, or "" if it has none yet.
func Identity(n Node) string {
	if n == nil {
		return ""
	}
	id, _ := n.Data(KeyIdentity)
	return id
}
