package compiler

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	loadererrors "github.com/rohanorton/tsickle-loader/internal/errors"
	"github.com/rohanorton/tsickle-loader/internal/testutil"
)

func TestParseTSConfig(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "tsconfig.json", `{
  // Line comment before options
  "compilerOptions": {
    "target": "es2017", /* inline block comment */
    "strict": true,
    "outDir": "./dist"
  }
}`)

	opts, err := ParseTSConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "es2017", opts["target"])
	assert.Equal(t, true, opts["strict"])
	assert.Equal(t, "./dist", opts["outDir"])
}

func TestParseTSConfigCommentInString(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "tsconfig.json",
		`{"compilerOptions": {"outDir": "dist//js"}}`)

	opts, err := ParseTSConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "dist//js", opts["outDir"])
}

func TestParseTSConfigEmpty(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "tsconfig.json", `{}`)

	opts, err := ParseTSConfig(path)
	require.NoError(t, err)
	assert.NotNil(t, opts)
	assert.Empty(t, opts)
}

func TestParseTSConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "tsconfig.json", `{"compilerOptions": {`)

	_, err := ParseTSConfig(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, loadererrors.ErrConfig))
	assert.Contains(t, err.Error(), path)
}

func TestParseTSConfigMissingFile(t *testing.T) {
	_, err := ParseTSConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, loadererrors.ErrConfig))
}

func TestStripJSONCommentsPreservesLength(t *testing.T) {
	in := []byte(`{"a": 1} // trailing`)
	out := stripJSONComments(in)
	assert.Len(t, out, len(in))
}
