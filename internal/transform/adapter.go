package transform

import (
	"context"
	"strings"

	"github.com/rohanorton/tsickle-loader/internal/compiler"
	"github.com/rohanorton/tsickle-loader/internal/errors"
	"github.com/rohanorton/tsickle-loader/internal/output"
	"github.com/rohanorton/tsickle-loader/internal/paths"
)

// Adapter narrows the batch Service to a single-item contract: one source
// unit in, that unit's transformed code and optional extern fragment out.
type Adapter struct {
	service Service
}

// NewAdapter wraps a batch service.
func NewAdapter(service Service) *Adapter {
	return &Adapter{service: service}
}

// TransformOne runs the batch pass over the whole program and extracts the
// entry belonging to unit. The extern return is empty when the transform
// produced no declaration fragment for the unit.
func (a *Adapter) TransformOne(ctx context.Context, unit string, prog *compiler.Program, warn func(string)) (code string, extern string, err error) {
	out, err := a.service.Transform(ctx, prog, SingleFilePolicy(unit, warn))
	if err != nil {
		return "", "", err
	}

	code, matched, ok := SelectOutput(out, unit)
	if !ok {
		return "", "", errors.NewMissingOutputError(unit)
	}

	extern = out.ExternsByPath[paths.Source(matched)]

	output.Debug("transform output selected",
		"unit", unit,
		"matched", matched,
		"entries", out.Len(),
		"extern", extern != "",
	)

	return code, extern, nil
}

// SelectOutput locates the output entry for unit. The expected emitted path
// is the unit's source path mapped into emit space; the first entry (in
// production order) whose key contains it as a substring wins, which
// tolerates emit-root prefixes the compiler's output layout introduces.
func SelectOutput(out *Output, unit string) (code string, matched string, ok bool) {
	want := paths.Emitted(unit)
	for _, key := range out.Paths() {
		if strings.Contains(key, want) {
			code, _ = out.Code(key)
			return code, key, true
		}
	}
	return "", "", false
}
