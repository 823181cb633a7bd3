// Package demo holds the controllers served by the bitty CLI.
package demo

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/bitty/pkg/controller"
	"github.com/aretw0/bitty/pkg/domain"
	"github.com/aretw0/bitty/pkg/registry"
)

// ModuleName is the locator the demo module is served under.
const ModuleName = "demo"

type textNode interface {
	SetText(string)
	Text() string
}

type parentNode interface {
	AppendChild(domain.Node) error
}

func setText(n domain.Node, text string) {
	if t, ok := n.(textNode); ok {
		t.SetText(text)
	}
}

// Module returns the demo module: Echo as default export, plus Counter, Echo and Peeps.
func Module() *domain.Module {
	return &domain.Module{
		Name:    ModuleName,
		Default: NewEcho,
		Exports: map[string]domain.Factory{
			"Counter": NewCounter,
			"Echo":    NewEcho,
			"Peeps":   NewPeeps,
		},
	}
}

// Register installs the demo globals into reg: the "Counter" class, Echo as
// the default controller, and the "shout" shared function.
func Register(reg *registry.Registry) error {
	if err := reg.Register("Counter", NewCounter); err != nil {
		return err
	}
	if err := reg.SetDefault(NewEcho); err != nil {
		return err
	}
	return reg.RegisterFunc("shout", func(ctx context.Context, api domain.API, args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("shout: want 1 argument, got %d", len(args))
		}
		return strings.ToUpper(fmt.Sprint(args[0])), nil
	})
}

// NewEcho creates the echo controller: "echo" mirrors the event value into
// every receiver, and "shout" does the same through the shared function.
func NewEcho() (domain.Controller, error) {
	e := &echo{}
	return controller.Methods(e), nil
}

type echo struct {
	api domain.API
}

func (e *echo) Bind(api domain.API) { e.api = api }

func (e *echo) Echo(ctx context.Context, ev *domain.Event, node domain.Node) {
	setText(node, ev.Value)
}

func (e *echo) Shout(ctx context.Context, ev *domain.Event, node domain.Node) error {
	fn, ok := e.api.Fn("shout")
	if !ok {
		return fmt.Errorf("shared function shout is not registered")
	}
	loud, err := fn(ctx, ev.Value)
	if err != nil {
		return err
	}
	setText(node, loud.(string))
	return nil
}
