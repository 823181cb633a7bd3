package bitty_test

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/aretw0/bitty"
	"github.com/aretw0/bitty/pkg/adapters/memory"
	"github.com/aretw0/bitty/pkg/controller"
	"github.com/aretw0/bitty/pkg/domain"
	"github.com/aretw0/bitty/pkg/registry"
)

// ExampleNew wires a button to an output through the send/receive attributes.
func ExampleNew() {
	// 1. Build the host tree
	doc := memory.NewDocument()
	root := doc.CreateElement(domain.DefaultTagName)
	button := doc.CreateElement("button")
	button.SetData(domain.KeySend, "increment")
	out := doc.CreateElement("output")
	out.SetData(domain.KeyReceive, "increment")
	_ = root.AppendChild(button)
	_ = root.AppendChild(out)
	_ = doc.Root().AppendChild(root)

	// 2. Register the default controller
	count := 0
	reg := registry.NewRegistry()
	err := reg.SetDefault(func() (domain.Controller, error) {
		return controller.Signals{
			"increment": func(ctx context.Context, ev *domain.Event, node domain.Node) error {
				count++
				node.(*memory.Element).SetText(strconv.Itoa(count))
				return nil
			},
		}, nil
	})
	if err != nil {
		log.Fatal(err)
	}

	// 3. Mount every component root in the document
	eng := bitty.New(doc, bitty.WithRegistry(reg))
	if err := eng.Define(context.Background(), doc.Root()); err != nil {
		log.Fatal(err)
	}

	// 4. Interact
	doc.Fire("click", button, "")
	doc.Fire("click", button, "")

	fmt.Println(out.Text())
	// Output: 2
}

type greeter struct {
	api domain.API
}

func (g *greeter) Bind(api domain.API) { g.api = api }

func (g *greeter) Greet(ctx context.Context, ev *domain.Event, node domain.Node) {
	node.(*memory.Element).SetText("hello, " + ev.Value)
}

// ExampleNew_methods connects a component to a struct whose methods are signal handlers.
func ExampleNew_methods() {
	doc := memory.NewDocument()
	root := doc.CreateElement(domain.DefaultTagName)
	root.SetData(domain.KeyConnect, "Greeter")
	input := doc.CreateElement("input")
	input.SetData(domain.KeySend, "greet")
	label := doc.CreateElement("span")
	label.SetData(domain.KeyReceive, "greet")
	_ = root.AppendChild(input)
	_ = root.AppendChild(label)
	_ = doc.Root().AppendChild(root)

	reg := registry.NewRegistry()
	_ = reg.Register("Greeter", func() (domain.Controller, error) {
		return controller.Methods(&greeter{}), nil
	})

	eng := bitty.New(doc, bitty.WithRegistry(reg))
	c, err := eng.Mount(context.Background(), root)
	if err != nil {
		log.Fatal(err)
	}

	doc.Fire("input", input, "gopher")

	fmt.Println(label.Text())
	fmt.Println(c.Connected())
	// Output:
	// hello, gopher
	// true
}
