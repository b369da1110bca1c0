package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rohanorton/tsickle-loader/internal/output"
	"github.com/rohanorton/tsickle-loader/internal/paths"
)

// importRe matches the module specifier of import/export-from declarations
// and require calls. Only relative specifiers are resolved to files; bare
// specifiers are external modules and stay outside the program.
var importRe = regexp.MustCompile(`(?m)(?:import|export)\s+(?:[^;'"]*?from\s+)?['"]([^'"]+)['"]|require\(\s*['"]([^'"]+)['"]\s*\)`)

// TypeScriptFrontend is the in-process front-end, backed by the embedded
// TypeScript compiler running on goja. Diagnose runs a full pre-emission
// check pass (syntactic, semantic, declaration) over the program.
type TypeScriptFrontend struct {
	// Version pins the embedded compiler version; empty uses the default.
	Version string
}

var _ Frontend = (*TypeScriptFrontend)(nil)

// NewTypeScriptFrontend returns a front-end using the default embedded
// compiler version.
func NewTypeScriptFrontend() *TypeScriptFrontend {
	return &TypeScriptFrontend{}
}

// LoadConfig parses the project configuration file.
func (f *TypeScriptFrontend) LoadConfig(path string) (Options, error) {
	return ParseTSConfig(path)
}

// BuildProgram resolves the relative-import closure of root by breadth-first
// scan. The returned file list has the root first and every path normalized.
func (f *TypeScriptFrontend) BuildProgram(_ context.Context, root string, opts Options) (*Program, error) {
	root = paths.Normalize(root)
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("source file %s: %w", root, err)
	}

	seen := map[string]bool{root: true}
	files := []string{root}

	for i := 0; i < len(files); i++ {
		deps, err := scanImports(files[i])
		if err != nil {
			return nil, err
		}
		for _, dep := range deps {
			if !seen[dep] {
				seen[dep] = true
				files = append(files, dep)
			}
		}
	}

	output.Debug("program built", "root", root, "files", len(files))

	return &Program{Root: root, Files: files, Options: opts}, nil
}

// scanImports returns the normalized on-disk dependencies of file, resolving
// relative specifiers against the file's directory.
func scanImports(file string) ([]string, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	dir := filepath.Dir(file)
	var deps []string
	for _, m := range importRe.FindAllStringSubmatch(string(src), -1) {
		spec := m[1]
		if spec == "" {
			spec = m[2]
		}
		if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
			continue
		}
		if resolved, ok := resolveSpecifier(dir, spec); ok {
			deps = append(deps, resolved)
		}
	}
	return deps, nil
}

// resolveSpecifier tries <spec>.ts, then <spec>/index.ts, then spec itself
// when it already names a source file.
func resolveSpecifier(dir, spec string) (string, bool) {
	base := filepath.Join(dir, spec)
	candidates := []string{base + paths.SourceExt, filepath.Join(base, "index"+paths.SourceExt)}
	if strings.HasSuffix(spec, paths.SourceExt) {
		candidates = append([]string{base}, candidates...)
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return paths.Normalize(c), true
		}
	}
	return "", false
}
