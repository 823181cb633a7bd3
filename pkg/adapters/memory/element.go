package memory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/bitty/pkg/domain"
)

// Element is a node of an in-memory document.
// It implements domain.Node. Elements are not safe for concurrent use;
// serialize access through Document.Do.
type Element struct {
	doc      *Document
	tag      string
	text     string
	attrs    map[string]string
	data     map[string]string
	parent   *Element
	children []*Element
}

var _ domain.Node = (*Element)(nil)

// Tag implements domain.Node.
func (e *Element) Tag() string {
	return e.tag
}

// ID returns the element's "id" attribute.
func (e *Element) ID() string {
	return e.attrs["id"]
}

// Attr returns a plain (non-data) attribute.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr sets a plain attribute. Attribute changes are not structural and are not observed.
func (e *Element) SetAttr(name, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
}

// Data implements domain.Node.
func (e *Element) Data(key string) (string, bool) {
	v, ok := e.data[key]
	return v, ok
}

// SetData implements domain.Node.
func (e *Element) SetData(key, value string) {
	if e.data == nil {
		e.data = make(map[string]string)
	}
	e.data[key] = value
}

// DeleteData implements domain.Node.
func (e *Element) DeleteData(key string) {
	delete(e.data, key)
}

// Dataset returns a copy of the element's data attributes.
func (e *Element) Dataset() map[string]string {
	out := make(map[string]string, len(e.data))
	for k, v := range e.data {
		out[k] = v
	}
	return out
}

// Text returns the element's own text content.
func (e *Element) Text() string {
	return e.text
}

// SetText replaces the element's own text content.
// Like character data changes in a browser, it is not a structural mutation.
func (e *Element) SetText(text string) {
	e.text = text
}

// Parent returns the parent element, or nil for a detached element or the document root.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// Descendants implements domain.Node. Order is depth-first pre-order (document order).
func (e *Element) Descendants() []domain.Node {
	var out []domain.Node
	var walk func(*Element)
	walk = func(n *Element) {
		for _, c := range n.children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(e)
	return out
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Connected reports whether the element is attached to its document's root.
func (e *Element) Connected() bool {
	return e.doc != nil && e.doc.root.Contains(e)
}

// AppendChild moves child to the end of e's child list.
// If child already has a parent it is first removed from it.
func (e *Element) AppendChild(child domain.Node) error {
	return e.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref, or at the end when ref is nil.
func (e *Element) InsertBefore(child, ref domain.Node) error {
	c, err := e.own(child)
	if err != nil {
		return err
	}
	if c.Contains(e) {
		return fmt.Errorf("cannot insert %s into its own subtree", c.tag)
	}

	var r *Element
	if ref != nil {
		if r, err = e.own(ref); err != nil {
			return err
		}
		if r.parent != e {
			return fmt.Errorf("reference node is not a child of %s", e.tag)
		}
		if r == c {
			return nil
		}
	}

	// A move is reported as one batch so observers never see the node detached.
	e.doc.Batch(func() {
		if c.parent != nil {
			c.parent.detach(c)
		}

		idx := len(e.children)
		if r != nil {
			idx = e.indexOf(r)
		}
		e.children = append(e.children, nil)
		copy(e.children[idx+1:], e.children[idx:])
		e.children[idx] = c
		c.parent = e

		e.doc.record(e, []*Element{c}, nil)
	})
	return nil
}

// RemoveChild detaches child from e.
func (e *Element) RemoveChild(child domain.Node) error {
	c, err := e.own(child)
	if err != nil {
		return err
	}
	if c.parent != e {
		return fmt.Errorf("node is not a child of %s", e.tag)
	}
	e.detach(c)
	return nil
}

// Remove detaches e from its parent, if any.
func (e *Element) Remove() {
	if e.parent != nil {
		e.parent.detach(e)
	}
}

// ReplaceChildren removes every child of e and appends children in order,
// reported as a single mutation record.
func (e *Element) ReplaceChildren(children ...domain.Node) error {
	added := make([]*Element, 0, len(children))
	for _, child := range children {
		c, err := e.own(child)
		if err != nil {
			return err
		}
		if c.Contains(e) {
			return fmt.Errorf("cannot insert %s into its own subtree", c.tag)
		}
		added = append(added, c)
	}

	e.doc.Batch(func() {
		removed := e.children
		e.children = nil
		for _, c := range removed {
			c.parent = nil
		}
		for _, c := range added {
			if c.parent != nil {
				c.parent.detach(c)
			}
			c.parent = e
			e.children = append(e.children, c)
		}
		e.doc.record(e, added, removed)
	})
	return nil
}

// String renders the subtree as indented markup-like text, for debugging and CLI output.
func (e *Element) String() string {
	var b strings.Builder
	e.write(&b, 0)
	return b.String()
}

func (e *Element) write(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString("<" + e.tag)
	if id := e.ID(); id != "" {
		fmt.Fprintf(b, " id=%q", id)
	}
	keys := make([]string, 0, len(e.data))
	for k := range e.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " data-%s=%q", k, e.data[k])
	}
	b.WriteString(">")
	if e.text != "" {
		b.WriteString(e.text)
	}
	b.WriteString("\n")
	for _, c := range e.children {
		c.write(b, depth+1)
	}
}

func (e *Element) own(n domain.Node) (*Element, error) {
	c, ok := n.(*Element)
	if !ok || c == nil {
		return nil, fmt.Errorf("unsupported node type %T", n)
	}
	if c.doc != e.doc {
		return nil, fmt.Errorf("node belongs to another document")
	}
	return c, nil
}

func (e *Element) indexOf(c *Element) int {
	for i, n := range e.children {
		if n == c {
			return i
		}
	}
	return -1
}

func (e *Element) detach(c *Element) {
	idx := e.indexOf(c)
	if idx < 0 {
		return
	}
	e.children = append(e.children[:idx], e.children[idx+1:]...)
	c.parent = nil
	e.doc.record(e, nil, []*Element{c})
}
