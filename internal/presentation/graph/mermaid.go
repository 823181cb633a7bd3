package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/bitty/pkg/domain"
)

// Overlay carries runtime state to highlight on the graph.
type Overlay struct {
	// Degraded lists component roots that failed to connect.
	Degraded []domain.Node
}

type identified interface {
	ID() string
}

// GenerateMermaid renders the signal wiring below root as a Mermaid flowchart.
// Elements tagged tag become subgraphs holding the senders and receivers they
// own (the deepest enclosing root wins). Each sender links to every receiver
// of the signals it emits; a signal nobody receives gets a dotted edge to
// every component root, where the fallback handler would run.
func GenerateMermaid(root domain.Node, tag string, overlay *Overlay) string {
	nodes := root.Descendants()
	names := make(map[domain.Node]string, len(nodes))
	for i, n := range nodes {
		names[n] = fmt.Sprintf("n%d", i)
	}

	var roots []domain.Node
	owner := make(map[domain.Node]domain.Node)
	for _, n := range nodes {
		if n.Tag() != tag {
			continue
		}
		roots = append(roots, n)
		for _, d := range n.Descendants() {
			owner[d] = n
		}
	}

	receivers := make(map[string][]domain.Node)
	var wired []domain.Node
	for _, n := range nodes {
		_, sends := n.Data(domain.KeySend)
		value, receives := n.Data(domain.KeyReceive)
		if n.Tag() == tag || (!sends && !receives) {
			continue
		}
		wired = append(wired, n)
		for _, signal := range domain.SplitList(value) {
			receivers[signal] = append(receivers[signal], n)
		}
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, r := range roots {
		fmt.Fprintf(&sb, "    subgraph %s[\"%s\"]\n", names[r], rootLabel(r))
		for _, n := range wired {
			if owner[n] == r {
				fmt.Fprintf(&sb, "        %s%s\n", names[n], shape(n))
			}
		}
		sb.WriteString("    end\n")
	}
	for _, n := range wired {
		if owner[n] == nil {
			fmt.Fprintf(&sb, "    %s%s\n", names[n], shape(n))
		}
	}

	for _, n := range wired {
		send, _ := n.Data(domain.KeySend)
		for _, signal := range domain.SplitList(send) {
			label := strings.ReplaceAll(signal, "\"", "'")
			targets := receivers[signal]
			if len(targets) == 0 {
				for _, r := range roots {
					fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", names[n], label, names[r])
				}
				continue
			}
			for _, t := range targets {
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", names[n], label, names[t])
			}
		}
	}

	if overlay != nil && len(overlay.Degraded) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef degraded fill:#fee2e2,stroke:#b91c1c,stroke-width:2px,color:#000;\n")
		for _, r := range overlay.Degraded {
			if name, ok := names[r]; ok {
				fmt.Fprintf(&sb, "    class %s degraded;\n", name)
			}
		}
	}

	return sb.String()
}

// shape draws senders as parallelograms and pure receivers as rectangles.
func shape(n domain.Node) string {
	label := nodeLabel(n)
	if _, ok := n.Data(domain.KeySend); ok {
		return fmt.Sprintf("[/\"%s\"/]", label)
	}
	return fmt.Sprintf("[\"%s\"]", label)
}

func nodeLabel(n domain.Node) string {
	if el, ok := n.(identified); ok && el.ID() != "" {
		return "#" + el.ID()
	}
	return n.Tag()
}

func rootLabel(r domain.Node) string {
	label := nodeLabel(r)
	if connect, ok := r.Data(domain.KeyConnect); ok && connect != "" {
		label += " " + strings.ReplaceAll(connect, "\"", "'")
	}
	return label
}
