package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/bitty"
	"github.com/aretw0/bitty/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ProfileFor returns the color profile to use when writing to f:
// plain ASCII unless f is a terminal.
func ProfileFor(f *os.File) termenv.Profile {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// NewTraceFormatter returns a trace formatter for profile. The Ascii profile
// yields bitty.FormatTrace output unchanged.
func NewTraceFormatter(profile termenv.Profile) bitty.TraceFormatter {
	if profile == termenv.Ascii {
		return bitty.FormatTrace
	}

	style := func(s, color string) termenv.Style {
		return termenv.String(s).Foreground(profile.Color(color))
	}
	return func(rec *domain.DispatchEvent) string {
		var outcome termenv.Style
		switch {
		case len(rec.Receivers) > 0:
			outcome = style(fmt.Sprintf("%d receiver(s) [%s]", len(rec.Receivers), strings.Join(rec.Receivers, ", ")), "#4ade80")
		case rec.Fallback:
			outcome = style("fallback", "#facc15")
		default:
			outcome = style("unhandled", "#f87171")
		}
		return fmt.Sprintf("  %s %s -> %s",
			termenv.String(rec.EventType).Faint(),
			style(rec.Signal, "#a78bfa").Bold(),
			outcome)
	}
}
