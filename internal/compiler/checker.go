package compiler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/clarkmcc/go-typescript/versions"
	_ "github.com/clarkmcc/go-typescript/versions/v4.9.3"
	"github.com/dop251/goja"

	"github.com/rohanorton/tsickle-loader/internal/output"
)

// defaultTSVersion is the embedded compiler loaded when no version is pinned.
const defaultTSVersion = "v4.9.3"

// libFileName is where the host serves the default library from.
const libFileName = "/lib.d.ts"

// minimalLib declares the globals the checker requires to exist. The embedded
// compiler bundle carries no lib files, so the host supplies this one; types
// a program actually uses beyond these still surface as diagnostics.
const minimalLib = `interface Array<T> { length: number; [n: number]: T; }
interface ReadonlyArray<T> { readonly length: number; readonly [n: number]: T; }
interface ConcatArray<T> { readonly length: number; readonly [n: number]: T; }
interface Boolean {}
interface CallableFunction {}
interface NewableFunction {}
interface Function { apply(thisArg: any, argArray?: any): any; call(thisArg: any, ...argArray: any[]): any; }
interface IArguments {}
interface Number { toFixed(fractionDigits?: number): string; }
interface Object {}
interface RegExp { test(s: string): boolean; }
interface String { readonly length: number; charAt(pos: number): string; }
interface TemplateStringsArray extends ReadonlyArray<string> { readonly raw: readonly string[]; }
interface PromiseLike<T> {
  then<TResult1 = T, TResult2 = never>(
    onfulfilled?: ((value: T) => TResult1 | PromiseLike<TResult1>) | undefined | null,
    onrejected?: ((reason: any) => TResult2 | PromiseLike<TResult2>) | undefined | null): PromiseLike<TResult1 | TResult2>;
}
interface Promise<T> {
  then<TResult1 = T, TResult2 = never>(
    onfulfilled?: ((value: T) => TResult1 | PromiseLike<TResult1>) | undefined | null,
    onrejected?: ((reason: any) => TResult2 | PromiseLike<TResult2>) | undefined | null): Promise<TResult1 | TResult2>;
}
interface PromiseConstructor {
  resolve<T>(value: T | PromiseLike<T>): Promise<T>;
  reject<T = never>(reason?: any): Promise<T>;
}
declare var Promise: PromiseConstructor;
declare var console: { log(...data: any[]): void; warn(...data: any[]): void; error(...data: any[]): void; };
`

// checkerScript builds a program over the in-memory host and returns the
// pre-emission diagnostic set as JSON. Expects __files, __roots and
// __options to be set on the runtime, with the compiler already loaded.
const checkerScript = `(function () {
  var conv = ts.convertCompilerOptionsFromJson(__options, "/");
  var options = conv.options;
  options.noEmit = true;
  options.lib = undefined;
  options.types = [];
  var host = {
    getSourceFile: function (fileName, languageVersion) {
      var text = __files[fileName];
      if (text === undefined) { return undefined; }
      return ts.createSourceFile(fileName, text, languageVersion, true);
    },
    getDefaultLibFileName: function () { return "/lib.d.ts"; },
    writeFile: function () {},
    getCurrentDirectory: function () { return "/"; },
    getDirectories: function () { return []; },
    fileExists: function (fileName) { return __files[fileName] !== undefined; },
    readFile: function (fileName) { return __files[fileName]; },
    getCanonicalFileName: function (fileName) { return fileName; },
    useCaseSensitiveFileNames: function () { return true; },
    getNewLine: function () { return "\n"; }
  };
  var program = ts.createProgram(__roots, options, host);
  var diags = conv.errors.concat(ts.getPreEmitDiagnostics(program));
  return JSON.stringify(diags.map(function (d) {
    var file = "";
    var line = 0;
    var col = 0;
    if (d.file && typeof d.start === "number") {
      var lc = d.file.getLineAndCharacterOfPosition(d.start);
      file = d.file.fileName;
      line = lc.line + 1;
      col = lc.character + 1;
    }
    return {
      code: d.code,
      category: d.category,
      message: ts.flattenDiagnosticMessageText(d.messageText, "\n"),
      file: file,
      line: line,
      col: col
    };
  }));
})()`

// ts.DiagnosticCategory values.
const (
	categoryWarning = 0
	categoryError   = 1
)

// codeModuleNotFound is TS2307 "Cannot find module ...".
const codeModuleNotFound = 2307

// quotedSpecifierRe pulls the module specifier out of a TS2307 message.
var quotedSpecifierRe = regexp.MustCompile(`'([^']+)'`)

type rawDiagnostic struct {
	Code     int    `json:"code"`
	Category int    `json:"category"`
	Message  string `json:"message"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
}

// Diagnose runs the full pre-emission check pass over the program: one
// compiler instance, all files, syntactic plus semantic plus declaration
// diagnostics.
func (f *TypeScriptFrontend) Diagnose(ctx context.Context, prog *Program) ([]Diagnostic, error) {
	files := map[string]string{libFileName: minimalLib}
	for _, file := range prog.Files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		files[file] = string(src)
	}

	tag := f.Version
	if tag == "" {
		tag = defaultTSVersion
	}
	source, err := versions.DefaultRegistry.Get(tag)
	if err != nil {
		return nil, fmt.Errorf("loading embedded compiler: %w", err)
	}

	runtime := goja.New()
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			runtime.Interrupt(ctx.Err())
		case <-done:
		}
	}()
	defer close(done)

	if _, err := runtime.RunProgram(source); err != nil {
		return nil, fmt.Errorf("running embedded compiler: %w", err)
	}
	if err := runtime.Set("__files", files); err != nil {
		return nil, fmt.Errorf("binding program sources: %w", err)
	}
	if err := runtime.Set("__roots", prog.Files); err != nil {
		return nil, fmt.Errorf("binding root files: %w", err)
	}
	if err := runtime.Set("__options", checkOptions(prog.Options)); err != nil {
		return nil, fmt.Errorf("binding compiler options: %w", err)
	}

	value, err := runtime.RunString(checkerScript)
	if err != nil {
		return nil, fmt.Errorf("type checking: %w", err)
	}

	var raw []rawDiagnostic
	if err := json.Unmarshal([]byte(value.String()), &raw); err != nil {
		return nil, fmt.Errorf("decoding diagnostics: %w", err)
	}

	diags := make([]Diagnostic, 0, len(raw))
	for _, r := range raw {
		diags = append(diags, r.toDiagnostic())
	}

	output.Debug("check pass complete", "files", len(prog.Files), "diagnostics", len(diags))

	return diags, nil
}

// checkOptions derives the option set used for the check pass from the
// project compiler options. Emit-shaping options are forced so the check
// pass stays independent of the project's output layout.
func checkOptions(opts Options) map[string]any {
	merged := map[string]any{}
	for k, v := range opts {
		merged[k] = v
	}
	merged["target"] = "es5"
	merged["module"] = "commonjs"
	return merged
}

// toDiagnostic maps a compiler diagnostic into the pipeline's shape. Module-
// not-found for a bare specifier is downgraded to a warning: externals are
// outside the program by construction, matching BuildProgram's relative-only
// closure.
func (r rawDiagnostic) toDiagnostic() Diagnostic {
	sev := SeverityWarning
	if r.Category == categoryError {
		sev = SeverityError
	}
	if r.Code == codeModuleNotFound && !namesRelativeSpecifier(r.Message) {
		sev = SeverityWarning
	}
	return Diagnostic{
		Severity: sev,
		File:     r.File,
		Line:     r.Line,
		Col:      r.Col,
		Code:     fmt.Sprintf("TS%d", r.Code),
		Message:  r.Message,
	}
}

func namesRelativeSpecifier(message string) bool {
	m := quotedSpecifierRe.FindStringSubmatch(message)
	if m == nil {
		return false
	}
	return strings.HasPrefix(m[1], ".") || strings.HasPrefix(m[1], "/")
}
