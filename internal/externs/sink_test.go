package externs

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohanorton/tsickle-loader/internal/testutil"
)

func TestFileSinkAppendAccumulates(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(filepath.Join(dir, "externs.js"))

	require.NoError(t, sink.Append("// fragment one\nvar a = {};\n"))
	require.NoError(t, sink.Append("// fragment two\nvar b = {};\n"))

	content := testutil.ReadFile(t, sink.Path())
	assert.Equal(t, "// fragment one\nvar a = {};\n// fragment two\nvar b = {};\n", content)
}

func TestFileSinkAppendCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "externs.js")

	require.NoError(t, NewFileSink(path).Append("x;\n"))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFileSinkEmptyFragmentIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "externs.js")

	require.NoError(t, NewFileSink(path).Append(""))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "empty append must not create the file")
}

func TestFileSinkConcurrentAppendsStayWhole(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(filepath.Join(dir, "externs.js"))

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		frag := strings.Repeat(string(rune('a'+i)), 64) + "\n"
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sink.Append(frag))
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(testutil.ReadFile(t, sink.Path()), "\n"), "\n")
	require.Len(t, lines, writers)
	for _, line := range lines {
		require.Len(t, line, 64)
		assert.Equal(t, strings.Repeat(line[:1], 64), line, "fragment interleaved: %q", line)
	}
}

func TestEnsureDirIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dist", "externs")

	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDefaultFile(t *testing.T) {
	assert.Equal(t, filepath.Join("dist", "externs", "externs.js"), DefaultFile(filepath.Join("dist", "externs")))
}

func TestBuffer(t *testing.T) {
	var b Buffer
	require.NoError(t, b.Append("one\n"))
	require.NoError(t, b.Append("two\n"))

	assert.Equal(t, []string{"one\n", "two\n"}, b.Fragments())
	assert.Equal(t, "one\ntwo\n", b.String())
}
