package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format specifies the build report output format.
type Format string

const (
	// FormatText renders a human-readable report.
	FormatText Format = "text"

	// FormatJSON renders the report as JSON.
	FormatJSON Format = "json"

	// FormatYAML renders the report as YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, true
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	default:
		return FormatText, false
	}
}

// FileReport describes the outcome for one processed source file.
type FileReport struct {
	// Source is the normalized source path.
	Source string `json:"source" yaml:"source"`

	// Output is the path the corrected code was written to ("-" for stdout).
	Output string `json:"output" yaml:"output"`

	// ExternAppended reports whether an extern fragment was appended.
	ExternAppended bool `json:"externAppended" yaml:"externAppended"`

	// Warnings are the transform warnings forwarded for this file.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Error records why the file failed, empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// BuildReport summarizes one CLI run over one or more files.
type BuildReport struct {
	// Files holds per-file outcomes in processing order.
	Files []FileReport `json:"files" yaml:"files"`

	// ExternFile is the shared externs artifact path.
	ExternFile string `json:"externFile" yaml:"externFile"`
}

// Render renders the report in the requested format.
func (r *BuildReport) Render(format Format) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling report: %w", err)
		}
		return string(data) + "\n", nil
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("marshaling report: %w", err)
		}
		return string(data), nil
	default:
		return r.renderText(), nil
	}
}

func (r *BuildReport) renderText() string {
	var b strings.Builder
	for _, f := range r.Files {
		line := StyleNoun.Render(f.Source) + StyleDim.Render(" -> ") + f.Output
		if f.Error != "" {
			line = StyleNoun.Render(f.Source) + StyleDim.Render(" -> ") + StyleError.Render("failed: "+f.Error)
		} else if f.ExternAppended {
			line += StyleDim.Render("  (+extern)")
		}
		b.WriteString(line + "\n")
		for _, w := range f.Warnings {
			b.WriteString("  " + StyleWarning.Render("warning") + " " + w + "\n")
		}
	}
	b.WriteString(StyleSummary.Render(fmt.Sprintf("%d file(s) processed", len(r.Files))) + "\n")
	if r.ExternFile != "" {
		b.WriteString(StyleDim.Render("externs: ") + r.ExternFile + "\n")
	}
	return b.String()
}
