package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/bitty/internal/compiler"
	"github.com/aretw0/bitty/internal/logging"
	"github.com/aretw0/bitty/internal/presentation/graph"
	"github.com/aretw0/bitty/pkg/domain"
)

// Validate compiles the page and mounts it, failing when the document is
// invalid or any component cannot connect to its controller.
func Validate(ctx context.Context, path string, w io.Writer) error {
	page, err := compiler.CompileFile(path)
	if err != nil {
		return err
	}
	eng, err := mountPage(ctx, page, EngineOptions{Logger: logging.NewNop()})
	if err != nil {
		return err
	}
	defer page.Document.Do(func() { eng.Close(ctx) })

	if n := reportDegraded(w, eng); n > 0 {
		return fmt.Errorf("%d of %d component(s) failed to connect", n, len(eng.Components()))
	}
	return nil
}

// Graph writes the Mermaid flowchart of the page's signal wiring, marking
// components that fail to connect.
func Graph(ctx context.Context, path string, w io.Writer) error {
	page, err := compiler.CompileFile(path)
	if err != nil {
		return err
	}
	eng, err := mountPage(ctx, page, EngineOptions{Logger: logging.NewNop()})
	if err != nil {
		return err
	}
	defer page.Document.Do(func() { eng.Close(ctx) })

	overlay := &graph.Overlay{}
	for _, c := range eng.Components() {
		if c.Err() != nil {
			overlay.Degraded = append(overlay.Degraded, c.Root())
		}
	}
	fmt.Fprint(w, graph.GenerateMermaid(page.Document.Root(), domain.DefaultTagName, overlay))
	return nil
}
