package fix

import (
	"regexp"
)

// googStmtRe matches goog.require / goog.forwardDeclare statements. With
// module wrapping disabled the transform still leaves these behind for type
// references; at runtime the goog namespace does not exist, so the statements
// are dead references that fail to parse into anything usable.
var googStmtRe = regexp.MustCompile(`(?m)^[ \t]*(?:var [A-Za-z0-9_$]+ = )?goog\.(?:require|forwardDeclare)\([^)]*\);?[ \t]*\n?`)

// emptyStmtRe matches lines holding only empty statements, the residue of
// stripped type-only constructs. Anchoring to whole lines keeps the pass away
// from semicolons with meaning, like the header of a for loop or a string
// literal.
var emptyStmtRe = regexp.MustCompile(`(?m)^[ \t]*;[ \t]*\n`)

// Code repairs the emitted code text before it is returned to the host.
// Deterministic: identical input always yields identical output. It corrects
// emission artifacts only and never changes runtime behavior.
func Code(text string) string {
	if text == "" {
		return text
	}

	text = googStmtRe.ReplaceAllString(text, "")
	text = emptyStmtRe.ReplaceAllString(text, "")

	return text
}
