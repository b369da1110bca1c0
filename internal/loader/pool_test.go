package loader

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohanorton/tsickle-loader/internal/compiler"
	"github.com/rohanorton/tsickle-loader/internal/externs"
	"github.com/rohanorton/tsickle-loader/internal/paths"
	"github.com/rohanorton/tsickle-loader/internal/transform"
)

func TestProcessAllOrderAndExterns(t *testing.T) {
	svc := &fakeService{
		build: func(prog *compiler.Program, _ transform.Policy) *transform.Output {
			out := transform.NewOutput()
			out.AddCode(paths.Emitted(prog.Root), "code for "+prog.Root)
			out.ExternsByPath[prog.Root] = "// externs for " + prog.Root + "\n"
			return out
		},
	}
	sink := &externs.Buffer{}
	l := newLoader(t, &fakeFrontend{}, svc, sink)

	files := []string{"/src/a.ts", "/src/b.ts", "/src/c.ts", "/src/d.ts"}
	results := l.ProcessAll(context.Background(), files)

	require.Len(t, results, len(files))
	for i, r := range results {
		assert.Equal(t, files[i], r.Source)
		require.NoError(t, r.Err)
		assert.Equal(t, "code for "+files[i], r.Code)
		assert.True(t, r.ExternAppended)
	}

	// Every fragment landed whole; interleaving order is unspecified.
	frags := sink.Fragments()
	require.Len(t, frags, len(files))
	for _, frag := range frags {
		assert.True(t, strings.HasPrefix(frag, "// externs for /src/"))
	}
}

func TestProcessAllIsolatesFailures(t *testing.T) {
	svc := &fakeService{
		build: func(prog *compiler.Program, pol transform.Policy) *transform.Output {
			out := transform.NewOutput()
			if prog.Root != "/src/bad.ts" {
				out.AddCode(paths.Emitted(prog.Root), "code")
			}
			return out
		},
	}
	l := newLoader(t, &fakeFrontend{}, svc, &externs.Buffer{})

	results := l.ProcessAll(context.Background(), []string{"/src/ok.ts", "/src/bad.ts"})

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
	assert.Contains(t, results[1].Err.Error(), "/src/bad.ts")
}

func TestProcessAllCollectsWarnings(t *testing.T) {
	svc := &fakeService{
		build: func(prog *compiler.Program, pol transform.Policy) *transform.Output {
			pol.Warn("notice about " + prog.Root)
			out := transform.NewOutput()
			out.AddCode(paths.Emitted(prog.Root), "code")
			return out
		},
	}
	l := newLoader(t, &fakeFrontend{}, svc, &externs.Buffer{})

	results := l.ProcessAll(context.Background(), []string{"/src/a.ts", "/src/b.ts"})

	require.Len(t, results, 2)
	require.Len(t, results[0].Warnings, 1)
	assert.Equal(t, "notice about /src/a.ts", results[0].Warnings[0])
	require.Len(t, results[1].Warnings, 1)
	assert.Equal(t, "notice about /src/b.ts", results[1].Warnings[0])
}

func TestProcessAllEmpty(t *testing.T) {
	l := newLoader(t, &fakeFrontend{}, &fakeService{err: errors.New("unused")}, &externs.Buffer{})
	assert.Empty(t, l.ProcessAll(context.Background(), nil))
}
