package transform

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/clarkmcc/go-typescript"

	"github.com/rohanorton/tsickle-loader/internal/compiler"
	"github.com/rohanorton/tsickle-loader/internal/paths"
)

// exportRe matches the exported surface of a source file: named exports of
// functions, classes, enums and bindings. Type-only exports carry no runtime
// name but still contribute to the extern surface.
var exportRe = regexp.MustCompile(`(?m)^export\s+(?:declare\s+)?(?:abstract\s+)?(?:async\s+)?(function|class|const|let|var|enum|interface|type|namespace)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)

// exportDefaultRe matches default exports.
var exportDefaultRe = regexp.MustCompile(`(?m)^export\s+default\b`)

// TypeScriptService is the in-process transform service, backed by the
// embedded TypeScript compiler. It emits one code entry per non-skipped
// program file and derives each file's extern fragment from its exported
// surface.
type TypeScriptService struct {
	// Version pins the embedded compiler version; empty uses the default.
	Version string
}

var _ Service = (*TypeScriptService)(nil)

// NewTypeScriptService returns an in-process service on the default compiler
// version.
func NewTypeScriptService() *TypeScriptService {
	return &TypeScriptService{}
}

// Transform transpiles every non-skipped program file and collects code and
// extern fragments keyed by emit-space and source-space paths respectively.
func (s *TypeScriptService) Transform(ctx context.Context, prog *compiler.Program, pol Policy) (*Output, error) {
	out := NewOutput()

	for _, file := range prog.Files {
		if pol.ShouldSkip != nil && pol.ShouldSkip(file) {
			continue
		}

		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}

		opts := []typescript.TranspileOptionFunc{
			typescript.WithCompileOptions(s.compileOptions(prog.Options, pol)),
		}
		if s.Version != "" {
			opts = append(opts, typescript.WithVersion(s.Version))
		}

		code, err := typescript.TranspileCtx(ctx, bytes.NewReader(src), opts...)
		if err != nil {
			return nil, fmt.Errorf("transforming %s: %w", file, err)
		}

		out.AddCode(paths.Emitted(file), code)

		moduleName := file
		if pol.ModuleName != nil {
			moduleName = pol.ModuleName(file)
		}
		if extern := externFragment(moduleName, string(src)); extern != "" {
			out.ExternsByPath[file] = extern
		}
	}

	return out, nil
}

// compileOptions merges the project compiler options with the policy's emit
// requirements. Policy wins where the two disagree.
func (s *TypeScriptService) compileOptions(opts compiler.Options, pol Policy) map[string]any {
	merged := map[string]any{}
	for k, v := range opts {
		merged[k] = v
	}
	if pol.ES5Mode {
		merged["target"] = "es5"
	}
	if pol.TransformDecorators {
		merged["experimentalDecorators"] = true
		merged["emitDecoratorMetadata"] = true
	}
	// Module wrapping stays off; the host bundler wraps output itself.
	merged["module"] = "commonjs"
	merged["newLine"] = "lf"
	return merged
}

// externFragment derives a Closure extern stub describing the file's exported
// surface. Returns "" for files exporting nothing.
func externFragment(moduleName, src string) string {
	root := mangleModuleName(moduleName)

	var names []string
	for _, m := range exportRe.FindAllStringSubmatch(src, -1) {
		names = append(names, m[2])
	}
	hasDefault := exportDefaultRe.MatchString(src)

	if len(names) == 0 && !hasDefault {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// externs for %s\n", moduleName)
	fmt.Fprintf(&b, "/** @const */\nvar %s = {};\n", root)
	for _, name := range names {
		fmt.Fprintf(&b, "%s.%s;\n", root, name)
	}
	if hasDefault {
		fmt.Fprintf(&b, "%s.default;\n", root)
	}
	return b.String()
}

// mangleModuleName folds a module name into a single identifier the way the
// transform's extern namespace does: strip the source extension, replace
// every non-identifier character with "$", prefix with "module".
func mangleModuleName(name string) string {
	name = strings.TrimSuffix(name, paths.SourceExt)
	var b strings.Builder
	b.WriteString("module")
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('$')
		}
	}
	return b.String()
}
