package bitty

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/bitty/pkg/adapters/memory"
	"github.com/aretw0/bitty/pkg/domain"
)

// Step is one scripted action replayed by a Runner: either an interaction
// event fired on the element with id Target, or a Forward of Signal on the
// component whose root has id Component.
type Step struct {
	Type   string `yaml:"type,omitempty" json:"type,omitempty" mapstructure:"type"`
	Target string `yaml:"target,omitempty" json:"target,omitempty" mapstructure:"target"`
	Value  string `yaml:"value,omitempty" json:"value,omitempty" mapstructure:"value"`

	Forward   string `yaml:"forward,omitempty" json:"forward,omitempty" mapstructure:"forward"`
	Component string `yaml:"component,omitempty" json:"component,omitempty" mapstructure:"component"`
}

// IsForward reports whether the step forwards a signal instead of firing an event.
func (s Step) IsForward() bool {
	return s.Forward != ""
}

func (s Step) String() string {
	if s.IsForward() {
		return fmt.Sprintf("forward %s on #%s", s.Forward, s.Component)
	}
	if s.Value != "" {
		return fmt.Sprintf("%s #%s %q", s.Type, s.Target, s.Value)
	}
	return fmt.Sprintf("%s #%s", s.Type, s.Target)
}

// TraceFormatter renders one dispatch record as a line of output.
// This allows for TUI rendering (ANSI colors) without coupling the core package.
type TraceFormatter func(*domain.DispatchEvent) string

// Runner replays a script against a mounted page and writes one line per dispatch.
type Runner struct {
	Output    io.Writer
	Headless  bool
	Formatter TraceFormatter
}

// NewRunner creates a Runner writing to w.
func NewRunner(w io.Writer) *Runner {
	return &Runner{Output: w}
}

// Run executes steps in order against doc. It stops at the first step that
// names an unknown element or component, or when ctx is done.
func (r *Runner) Run(ctx context.Context, eng *Engine, doc *memory.Document, steps []Step) error {
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	format := r.Formatter
	if format == nil {
		format = FormatTrace
	}

	untap := eng.Tap(func(_ context.Context, rec *domain.DispatchEvent) {
		fmt.Fprintln(r.Output, format(rec))
	})
	defer untap()

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.Headless {
			fmt.Fprintf(r.Output, "> %s\n", step)
		}

		var err error
		doc.Do(func() { err = r.apply(ctx, eng, doc, step) })
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
	}
	return nil
}

func (r *Runner) apply(ctx context.Context, eng *Engine, doc *memory.Document, step Step) error {
	if step.IsForward() {
		root := doc.GetElementByID(step.Component)
		if root == nil {
			return fmt.Errorf("%w: component %q", domain.ErrUnknownTarget, step.Component)
		}
		c, ok := eng.ComponentAt(root)
		if !ok {
			return fmt.Errorf("%w: %q is not a mounted component", domain.ErrUnknownTarget, step.Component)
		}
		c.Forward(ctx, step.Forward)
		return nil
	}

	target := doc.GetElementByID(step.Target)
	if target == nil {
		return fmt.Errorf("%w: element %q", domain.ErrUnknownTarget, step.Target)
	}
	doc.Fire(step.Type, target, step.Value)
	return nil
}

// FormatTrace is the plain-text rendering of a dispatch record.
func FormatTrace(rec *domain.DispatchEvent) string {
	var outcome string
	switch {
	case len(rec.Receivers) > 0:
		outcome = fmt.Sprintf("%d receiver(s) [%s]", len(rec.Receivers), strings.Join(rec.Receivers, ", "))
	case rec.Fallback:
		outcome = "fallback"
	default:
		outcome = "unhandled"
	}
	return fmt.Sprintf("  %s %s -> %s", rec.EventType, rec.Signal, outcome)
}
