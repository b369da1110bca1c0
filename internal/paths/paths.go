// Package paths implements the path-space translation used across the
// pipeline. Source files live in ".ts" space, transformed code lives in ".js"
// space, and extern fragments are keyed back in ".ts" space. The mapping must
// stay exact and symmetric: every lookup between the three spaces relies on
// it, and an inexact swap makes lookups fail silently.
package paths

import (
	"path"
	"path/filepath"
	"strings"
)

const (
	// SourceExt is the extension of files handed to the loader.
	SourceExt = ".ts"

	// EmitExt is the extension of transformed output entries.
	EmitExt = ".js"
)

// Normalize returns p as an absolute path with forward slashes regardless of
// the host platform. Downstream matching compares paths as plain strings, so
// separators have to be folded before anything else sees the path.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if !strings.HasPrefix(p, "/") {
		if abs, err := filepath.Abs(p); err == nil {
			p = strings.ReplaceAll(abs, "\\", "/")
		}
	}
	return path.Clean(p)
}

// Emitted maps a source-space path to its emitted-code-space equivalent.
// Paths without the source extension are returned unchanged.
func Emitted(p string) string {
	if !strings.HasSuffix(p, SourceExt) {
		return p
	}
	return strings.TrimSuffix(p, SourceExt) + EmitExt
}

// Source maps an emitted-code-space path back to source space. It is the
// exact inverse of Emitted.
func Source(p string) string {
	if !strings.HasSuffix(p, EmitExt) {
		return p
	}
	return strings.TrimSuffix(p, EmitExt) + SourceExt
}
