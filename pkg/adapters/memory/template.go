package memory

import (
	"fmt"
	"strings"

	"github.com/aretw0/bitty/pkg/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TextTag is the tag given to top-level text runs of a fragment.
const TextTag = "#text"

// Fragment implements ports.Host. content is parsed as an HTML body fragment.
// data-* attributes become data keys (data-foo-bar -> fooBar); text is folded
// into the enclosing element. Returned elements are detached.
func (d *Document) Fragment(content string) ([]domain.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}

	var out []domain.Node
	for _, n := range parsed {
		switch n.Type {
		case html.ElementNode:
			out = append(out, d.convert(n))
		case html.TextNode:
			if strings.TrimSpace(n.Data) == "" {
				continue
			}
			out = append(out, &Element{doc: d, tag: TextTag, text: n.Data})
		}
	}
	return out, nil
}

func (d *Document) convert(n *html.Node) *Element {
	el := d.CreateElement(n.Data)
	for _, a := range n.Attr {
		if key, ok := strings.CutPrefix(a.Key, "data-"); ok {
			el.SetData(camelCase(key), a.Val)
			continue
		}
		el.SetAttr(a.Key, a.Val)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			child := d.convert(c)
			child.parent = el
			el.children = append(el.children, child)
		case html.TextNode:
			text.WriteString(c.Data)
		}
	}
	el.text = strings.TrimSpace(text.String())
	return el
}

func camelCase(kebab string) string {
	parts := strings.Split(kebab, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
