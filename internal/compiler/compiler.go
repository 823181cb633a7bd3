package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/bitty"
	"github.com/aretw0/bitty/internal/dto"
	"github.com/aretw0/bitty/pkg/adapters/memory"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Page is a compiled page: a populated document plus its script.
type Page struct {
	Name      string
	Listeners []string
	Document  *memory.Document
	Script    []bitty.Step
}

// ValidationError lists every problem found in a page document.
type ValidationError struct {
	Page     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("page '%s' is invalid: %s", e.Page, strings.Join(e.Problems, "; "))
}

// Parse decodes a YAML page document. Scalars are weakly typed, so
// `data: {count: 3}` yields the string "3".
func Parse(data []byte) (*dto.Page, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("failed to parse page: document is empty")
	}

	var page dto.Page
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &page,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}
	return &page, nil
}

// Build materializes page into a fresh document and validates the result.
func Build(page *dto.Page) (*Page, error) {
	doc := memory.NewDocument()
	var problems []string

	for i, spec := range page.Nodes {
		if err := build(doc, doc.Root(), spec); err != nil {
			problems = append(problems, fmt.Sprintf("nodes[%d]: %v", i, err))
		}
	}

	ids := make(map[string]*memory.Element)
	for _, el := range doc.QueryAll(func(*memory.Element) bool { return true }) {
		id := el.ID()
		if id == "" {
			continue
		}
		if _, dup := ids[id]; dup {
			problems = append(problems, fmt.Sprintf("duplicate node id %q", id))
			continue
		}
		ids[id] = el
	}

	for i, step := range page.Script {
		if p := validateStep(step, ids); p != "" {
			problems = append(problems, fmt.Sprintf("script[%d]: %s", i, p))
		}
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Page: page.Name, Problems: dedupe(problems)}
	}
	return &Page{
		Name:      page.Name,
		Listeners: page.Listeners,
		Document:  doc,
		Script:    page.Script,
	}, nil
}

// Compile parses and builds a page document.
func Compile(data []byte) (*Page, error) {
	spec, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Build(spec)
}

// CompileFile compiles the page at path. The page name defaults to the file name.
func CompileFile(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return Build(spec)
}

func build(doc *memory.Document, parent *memory.Element, spec dto.Node) error {
	if spec.Tag == "" && spec.HTML == "" {
		return fmt.Errorf("node requires a tag or html")
	}

	target := parent
	if spec.Tag != "" {
		el := doc.CreateElement(spec.Tag)
		if spec.ID != "" {
			el.SetAttr("id", spec.ID)
		}
		for k, v := range spec.Attrs {
			el.SetAttr(k, v)
		}
		for k, v := range spec.Data {
			el.SetData(k, v)
		}
		el.SetText(spec.Text)
		if err := parent.AppendChild(el); err != nil {
			return err
		}
		target = el
	}

	for i, child := range spec.Children {
		if err := build(doc, target, child); err != nil {
			return fmt.Errorf("children[%d]: %w", i, err)
		}
	}

	if spec.HTML != "" {
		nodes, err := doc.Fragment(spec.HTML)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			if err := target.AppendChild(n); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateStep(step bitty.Step, ids map[string]*memory.Element) string {
	if step.IsForward() {
		if step.Component == "" {
			return "forward requires a component"
		}
		if _, ok := ids[step.Component]; !ok {
			return fmt.Sprintf("unknown component %q", step.Component)
		}
		return ""
	}
	if step.Type == "" || step.Target == "" {
		return "step requires type and target, or forward and component"
	}
	if _, ok := ids[step.Target]; !ok {
		return fmt.Sprintf("unknown target %q", step.Target)
	}
	return ""
}

func dedupe(problems []string) []string {
	seen := make(map[string]bool, len(problems))
	out := problems[:0]
	for _, p := range problems {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
