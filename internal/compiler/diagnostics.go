package compiler

import (
	"fmt"
	"os"
	"strings"

	"github.com/rohanorton/tsickle-loader/internal/errors"
	"github.com/rohanorton/tsickle-loader/internal/output"
)

// DiagnosticError carries every diagnostic of a failed invocation as one
// error. The whole set is reported to the host in a single call, not one
// error per diagnostic.
type DiagnosticError struct {
	Diagnostics []Diagnostic

	formatted string
}

// NewDiagnosticError formats the set once, with color hints when stdout is a
// terminal.
func NewDiagnosticError(diags []Diagnostic) *DiagnosticError {
	return &DiagnosticError{
		Diagnostics: diags,
		formatted:   FormatDiagnostics(diags, output.IsTTY()),
	}
}

// Error returns the formatted multi-diagnostic text.
func (e *DiagnosticError) Error() string {
	return e.formatted
}

// Unwrap ties the error to the diagnostics sentinel.
func (e *DiagnosticError) Unwrap() error {
	return errors.ErrDiagnostics
}

// FormatDiagnostics renders a diagnostic set as one block of text with
// per-diagnostic source context. Color hints are applied when color is true.
func FormatDiagnostics(diags []Diagnostic, color bool) string {
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(formatOne(d, color))
	}
	return b.String()
}

func formatOne(d Diagnostic, color bool) string {
	var b strings.Builder

	loc := d.File
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Col)
	}
	sev := string(d.Severity)
	if color {
		loc = output.StyleNoun.Render(loc)
		switch d.Severity {
		case SeverityError:
			sev = output.StyleError.Render(sev)
		case SeverityWarning:
			sev = output.StyleWarning.Render(sev)
		}
	}

	b.WriteString(loc)
	b.WriteString(" - ")
	b.WriteString(sev)
	if d.Code != "" {
		b.WriteString(" " + d.Code)
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	b.WriteString("\n")

	if ctxLine, ok := sourceLine(d.File, d.Line); ok {
		gutter := fmt.Sprintf("  %d | ", d.Line)
		caretPad := len(gutter) + d.Col - 1
		if d.Col < 1 {
			caretPad = len(gutter)
		}
		if color {
			b.WriteString(output.StyleDim.Render(gutter))
		} else {
			b.WriteString(gutter)
		}
		b.WriteString(ctxLine)
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", caretPad))
		if color {
			b.WriteString(output.StyleError.Render("^"))
		} else {
			b.WriteString("^")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// sourceLine reads the 1-based line n from file. Unreadable files or
// out-of-range lines simply drop the context block.
func sourceLine(file string, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", false
	}
	lines := strings.Split(string(data), "\n")
	if n > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[n-1], "\r"), true
}
