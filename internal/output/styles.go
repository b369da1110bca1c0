package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette — named constants for all ANSI 256 colors used by the CLI and
// the diagnostic formatter. These are the single source of truth; never use
// inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: file paths, module names.
	ColorCyan = lipgloss.Color("14")

	// ColorRed is used for error-severity diagnostics.
	ColorRed = lipgloss.Color("196")

	// ColorYellow is used for warning-severity diagnostics.
	ColorYellow = lipgloss.Color("220")

	// ColorGreenCheck is used for the completion checkmark (✔).
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for gutters, carets and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles — map domain concepts to visual presentation.
var (
	// StyleNoun styles identifiable nouns (source paths, module names).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleError styles error-severity diagnostic labels.
	StyleError = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)

	// StyleWarning styles warning-severity diagnostic labels.
	StyleWarning = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleDim styles structural chrome (line-number gutters, carets).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
