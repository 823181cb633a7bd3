package demo

import (
	"context"
	"fmt"

	"github.com/aretw0/bitty/pkg/controller"
	"github.com/aretw0/bitty/pkg/domain"
)

// PeepCount is how many placeholders addPeeps appends.
const PeepCount = 12

const peepTemplate = `<li data-receive="peep" data-n="{n}">waiting</li>`

// NewPeeps creates the peeps controller. "addPeeps" appends placeholders to
// the node marked data-role="peeps" and forwards "peep" to all of them.
func NewPeeps() (domain.Controller, error) {
	return controller.Methods(&peeps{}), nil
}

type peeps struct {
	api domain.API
}

func (p *peeps) Bind(api domain.API) { p.api = api }

func (p *peeps) AddPeeps(ctx context.Context, ev *domain.Event, node domain.Node) error {
	list := p.list()
	if list == nil {
		return fmt.Errorf("no data-role=peeps container")
	}
	for i := 0; i < PeepCount; i++ {
		li, err := p.api.UseEl(peepTemplate, domain.Substitution{Old: "{n}", New: fmt.Sprint(i + 1)})
		if err != nil {
			return err
		}
		if err := list.AppendChild(li); err != nil {
			return err
		}
	}
	p.api.Forward(ctx, "peep")
	return nil
}

func (p *peeps) Peep(ctx context.Context, ev *domain.Event, node domain.Node) {
	if node == nil {
		return
	}
	n, _ := node.Data("n")
	setText(node, "peep "+n)
}

func (p *peeps) list() parentNode {
	for _, n := range p.api.Root().Descendants() {
		if role, _ := n.Data("role"); role == "peeps" {
			if parent, ok := n.(parentNode); ok {
				return parent
			}
		}
	}
	return nil
}
