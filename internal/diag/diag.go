// Package diag collects the (line, message) diagnostics that the scanner,
// parser, and resolver report, and renders them in the format the CLI
// prints to stderr. Runtime errors do not pass through here.
package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Diagnostic is a single reported problem, carrying an optional location
// hint ("where") beyond the source line.
type Diagnostic struct {
	Line    int
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("Error: [line %d] Error %s: %s", d.Line, d.Where, d.Message)
}

// Sink accumulates diagnostics for a single scan+parse+resolve pass. The
// scanner, parser, and resolver all report into the same Sink so static
// errors are collected in full before deciding whether to run the
// interpreter at all.
type Sink struct {
	diagnostics []Diagnostic
}

// Report records a diagnostic at the given line with an empty location hint.
func (s *Sink) Report(line int, message string) {
	s.ReportAt(line, "", message)
}

// ReportAt records a diagnostic with an explicit location hint, e.g. the
// lexeme of the offending token.
func (s *Sink) ReportAt(line int, where, message string) {
	s.diagnostics = append(s.diagnostics, Diagnostic{Line: line, Where: where, Message: message})
}

// HadError reports whether any diagnostic has been collected.
func (s *Sink) HadError() bool { return len(s.diagnostics) > 0 }

// Diagnostics returns the diagnostics collected so far, in report order.
func (s *Sink) Diagnostics() []Diagnostic { return s.diagnostics }

// Reset clears the sink for reuse across REPL lines.
func (s *Sink) Reset() { s.diagnostics = s.diagnostics[:0] }

// WriteTo prints every diagnostic to w, colorizing the "Error" tag in red
// when w is a color-capable terminal.
func (s *Sink) WriteTo(w io.Writer) {
	red := color.New(color.FgRed)
	for _, d := range s.diagnostics {
		red.Fprint(w, "Error:")
		fmt.Fprintf(w, " [line %d] Error %s: %s\n", d.Line, d.Where, d.Message)
	}
}
