/*
Package bitty is a declarative signal router for independently mounted components.

Nodes declare what they emit and what they listen for through data attributes
instead of imperative event-binding code. A component root binds its subtree to a
controller; the engine keeps the set of receivers correct as the tree mutates and
routes every interaction to the matching controller handlers.

# Concept

The host (a browser-like document, or the in-memory tree in pkg/adapters/memory)
owns the nodes and reports structural changes and interaction events. bitty
owns the routing: a click on a node with data-send="open" reaches every descendant of
the same component with data-receive="open", in document order, bound to the
controller's "open" handler. The router only sees the host through pkg/ports, so
tree implementations and trace stores are interchangeable adapters.

# Attributes

  - connect: selects the controller ("", "Counter", or "Widgets|Counter").
  - listeners: overrides the interaction events a component listens for (default click|input).
  - send: signals a node emits when interacted with.
  - receive: signals a node subscribes to.
  - forward: a one-shot signal list that replaces send for a single dispatch.
  - uuid: the write-once identity assigned to every node.

# Usage

	doc := memory.NewDocument()
	// ... build nodes, or compile a page document with the bitty CLI

	reg := registry.NewRegistry()
	_ = reg.Register("Counter", func() (domain.Controller, error) {
		return controller.Methods(&Counter{}), nil
	})

	eng := bitty.New(doc, bitty.WithRegistry(reg), bitty.WithLogger(logger))
	if err := eng.Define(ctx, doc.Root()); err != nil {
		log.Fatal(err)
	}

	doc.Fire("click", button, "")
*/
package bitty
