// Package ux renders problems and solutions for the terminal.
package ux

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/gitrdm/proxgen/pkg/generalize"
	"github.com/gitrdm/proxgen/pkg/problem"
)

var (
	ColorTealBright  = lipgloss.Color("#2CD7C7")
	ColorTealPrimary = lipgloss.Color("#20B9B4")
	ColorSlate       = lipgloss.Color("#2C4A54")
	ColorWarning     = lipgloss.Color("#F4D03F")
	ColorError       = lipgloss.Color("#E74C3C")
)

// Styles used by Printer.
var Styles = struct {
	Title     lipgloss.Style
	Label     lipgloss.Style
	Muted     lipgloss.Style
	Term      lipgloss.Style
	Degree    lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Label:     lipgloss.NewStyle().Foreground(ColorTealPrimary),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Term:      lipgloss.NewStyle().Bold(true),
	Degree:    lipgloss.NewStyle().Foreground(ColorTealBright),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError).Bold(true),
	Highlight: lipgloss.NewStyle().Foreground(ColorTealBright).Bold(true),
}

// Color modes accepted by ColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ColorEnabled decides whether output to w is styled. In auto mode styling
// is used for terminals only, and NO_COLOR disables it.
func ColorEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case ColorAlways:
		return true, nil
	case ColorNever:
		return false, nil
	case ColorAuto, "":
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false, nil
		}
		f, ok := w.(*os.File)
		if !ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	}
	return false, fmt.Errorf("unknown color mode %q (want %s, %s or %s)", mode, ColorAuto, ColorAlways, ColorNever)
}

// Printer writes problem reports to an output stream.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter returns a printer for w. Styles are applied only when color
// is true.
func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// Result prints the header of a solved problem followed by its
// solutions.
func (p *Printer) Result(res *problem.Result) {
	if res.Name != "" {
		fmt.Fprintln(p.w, p.style(Styles.Title, res.Name))
	}
	fmt.Fprintf(p.w, "%s %s %s %s   %s %s\n",
		p.style(Styles.Label, "problem"),
		p.style(Styles.Term, res.LHS.String()),
		p.style(Styles.Muted, "=^="),
		p.style(Styles.Term, res.RHS.String()),
		p.style(Styles.Label, "λ"),
		p.style(Styles.Degree, fmt.Sprintf("%g", res.Lambda)))
	fmt.Fprintf(p.w, "%s %s\n", p.style(Styles.Label, "R"), p.style(Styles.Muted, res.Relations))
	fmt.Fprintf(p.w, "%s %s\n", p.style(Styles.Label, "type"), res.Restriction)
	if res.Theoretical != res.Restriction {
		fmt.Fprintf(p.w, "%s %s\n", p.style(Styles.Label, "theoretical type"), res.Theoretical)
	}
	if !res.Restriction.Correspondence {
		fmt.Fprintln(p.w, p.style(Styles.Warning, "the solutions are not guaranteed to be a minimal complete set"))
	}
	p.Solutions(res.Solutions)
}

// Solutions prints every solution, numbered from 1.
func (p *Printer) Solutions(sols generalize.Solutions) {
	if len(sols) == 0 {
		fmt.Fprintln(p.w, p.style(Styles.Muted, "no solutions"))
		return
	}
	for i, s := range sols {
		fmt.Fprintf(p.w, "%s %s   %s (%s, %s)\n",
			p.style(Styles.Muted, fmt.Sprintf("%d.", i+1)),
			p.style(Styles.Highlight, s.Generalizer.String()),
			p.style(Styles.Label, "α"),
			p.style(Styles.Degree, fmt.Sprintf("%g", s.Alpha1)),
			p.style(Styles.Degree, fmt.Sprintf("%g", s.Alpha2)))
		if s.W1 != nil || s.W2 != nil {
			indent := strings.Repeat(" ", len(fmt.Sprintf("%d.", i+1))+1)
			fmt.Fprintf(p.w, "%s%s %s\n", indent, p.style(Styles.Label, "W1"), s.W1)
			fmt.Fprintf(p.w, "%s%s %s\n", indent, p.style(Styles.Label, "W2"), s.W2)
		}
	}
}

// Error prints err in the error style.
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.w, p.style(Styles.Error, "error: ")+err.Error())
}
