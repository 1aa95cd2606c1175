// Package report renders validation results for a terminal or CI log.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Threatwrix/drive-maturity-model/internal/runner"
	"github.com/Threatwrix/drive-maturity-model/internal/validate"
)

var (
	passColor    = lipgloss.Color("#04B575")
	warningColor = lipgloss.Color("#FFCC00")
	errorColor   = lipgloss.Color("#FF5F56")
	infoColor    = lipgloss.Color("#00BFFF")
	subtleColor  = lipgloss.Color("#626262")
)

const ruleWidth = 70

// Printer writes human-readable validation output. Colour is used only when
// the destination is a terminal and it has not been switched off.
type Printer struct {
	w io.Writer

	passed   lipgloss.Style
	warned   lipgloss.Style
	failed   lipgloss.Style
	errLabel lipgloss.Style
	wrnLabel lipgloss.Style
	infLabel lipgloss.Style
	heading  lipgloss.Style
	rule     lipgloss.Style
}

// New returns a Printer writing to w.
func New(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		w:        w,
		passed:   r.NewStyle().Bold(true).Foreground(passColor),
		warned:   r.NewStyle().Bold(true).Foreground(warningColor),
		failed:   r.NewStyle().Bold(true).Foreground(errorColor),
		errLabel: r.NewStyle().Foreground(errorColor),
		wrnLabel: r.NewStyle().Foreground(warningColor),
		infLabel: r.NewStyle().Foreground(infoColor),
		heading:  r.NewStyle().Bold(true),
		rule:     r.NewStyle().Foreground(subtleColor),
	}
}

// Header announces a directory run.
func (p *Printer) Header(count int) {
	fmt.Fprintf(p.w, "\n%s\n\n", p.heading.Render(fmt.Sprintf("Validating %d check files...", count)))
}

// Notice prints a run-level message such as an empty directory.
func (p *Printer) Notice(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.wrnLabel.Render("WARNING:"), msg)
}

// Record prints the status line for one file followed by its diagnostics.
func (p *Printer) Record(path string, r *validate.Result) {
	status := r.Status()
	var style lipgloss.Style
	switch status {
	case validate.Passed:
		style = p.passed
	case validate.PassedWithWarnings:
		style = p.warned
	default:
		style = p.failed
	}
	fmt.Fprintf(p.w, "%s: %s\n", path, style.Render(status.String()))

	for _, e := range r.Errors {
		fmt.Fprintf(p.w, "   %s %s\n", p.errLabel.Render("ERROR:"), e)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(p.w, "   %s %s\n", p.wrnLabel.Render("WARNING:"), w)
	}
	for _, i := range r.Info {
		fmt.Fprintf(p.w, "   %s %s\n", p.infLabel.Render("INFO:"), i)
	}
}

// Outcomes prints every record of a directory run, separated by blank lines.
func (p *Printer) Outcomes(outcomes []runner.Outcome) {
	for _, o := range outcomes {
		p.Record(o.Path, o.Result)
		fmt.Fprintln(p.w)
	}
}

// Summary prints the closing tally of a directory run.
func (p *Printer) Summary(t runner.Tally) {
	rule := p.rule.Render(strings.Repeat("=", ruleWidth))

	fmt.Fprintln(p.w, rule)
	fmt.Fprintln(p.w, p.heading.Render("Validation Summary:"))
	fmt.Fprintf(p.w, "   %s %d\n", p.passed.Render("Passed:"), t.Passed)
	fmt.Fprintf(p.w, "   %s %d\n", p.warned.Render("Passed with warnings:"), t.PassedWithWarnings)
	fmt.Fprintf(p.w, "   %s %d\n", p.failed.Render("Failed:"), t.Failed)
	fmt.Fprintf(p.w, "   %s %d\n", p.heading.Render("Total:"), t.Total)
	fmt.Fprintln(p.w, rule)
}
