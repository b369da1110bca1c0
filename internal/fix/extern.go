// Package fix contains the two corrective passes applied to the transform's
// output before it leaves the pipeline. Both are pure text rewrites over
// defect classes observed in the upstream transform's emit; neither touches
// program semantics. The extern pass must stay idempotent because the externs
// artifact is append-only and may already contain fixed fragments.
package fix

import (
	"regexp"
	"strings"
)

// suppressDuplicate is the annotation Closure Compiler needs to accept the
// same extern root declared by fragments from independent invocations.
const suppressDuplicate = "/** @suppress {duplicate} */"

// rootDeclRe matches a top-level extern root declaration, with or without an
// object-literal initializer.
var rootDeclRe = regexp.MustCompile(`^var [A-Za-z_$][A-Za-z0-9_$]*( = \{\})?;$`)

// dottedDefaultRe matches dotted access to the reserved word "default", which
// the transform emits for default exports and which is invalid in ES5 externs.
var dottedDefaultRe = regexp.MustCompile(`\.default([^A-Za-z0-9_$]|$)`)

// Extern repairs a declaration fragment before it is appended to the shared
// externs artifact. Idempotent: Extern(Extern(x)) == Extern(x).
func Extern(text string) string {
	if text == "" {
		return text
	}

	text = dottedDefaultRe.ReplaceAllString(text, `["default"]$1`)

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if rootDeclRe.MatchString(line) && !precededBySuppress(lines, i) {
			out = append(out, suppressDuplicate)
		}
		out = append(out, line)
	}
	text = strings.Join(out, "\n")

	// Each appended fragment must be self-terminated so interleaved appends
	// from concurrent invocations stay independently parseable.
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text
}

func precededBySuppress(lines []string, i int) bool {
	return i > 0 && strings.TrimSpace(lines[i-1]) == suppressDuplicate
}
