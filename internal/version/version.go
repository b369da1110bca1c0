// Package version provides version information for the tsickle-loader CLI.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// EmbeddedTSVersion is the TypeScript compiler version embedded in the
// binary. It is the version the in-process front-end and transform run on.
const EmbeddedTSVersion = "v4.9.3"

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`

	// TSVersion is the embedded TypeScript compiler version.
	TSVersion string `json:"tsVersion"`
}

// GetInfo returns the current version information.
func GetInfo() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		TSVersion: EmbeddedTSVersion,
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("tsickle-loader:\n  Version:  %s\n  Build ID: %s/%s\n\nTypeScript:\n  Embedded: %s",
		i.Version, i.BuildDate, i.GitCommit, i.TSVersion)
}

// TSVersionCompatible checks if a bridge-side compiler version works with
// the embedded one. Versions are compatible if MAJOR and MINOR components
// match.
func TSVersionCompatible(embedded, bridge string) bool {
	embedded = strings.TrimPrefix(embedded, "v")
	bridge = strings.TrimPrefix(bridge, "v")

	embParts := strings.Split(embedded, ".")
	brParts := strings.Split(bridge, ".")

	if len(embParts) < 2 || len(brParts) < 2 {
		return false
	}

	return embParts[0] == brParts[0] && embParts[1] == brParts[1]
}
