package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.hcl"))
	writeFile(t, filepath.Join(dir, "nested", "b.hcl"))
	writeFile(t, filepath.Join(dir, "c.txt"))

	files, err := FindFilesByExtension(dir, ".hcl")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "nested", "b.hcl"),
	}, files)
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "conf", "a.hcl")
	b := filepath.Join(dir, "conf", "b.hcl")
	extra := filepath.Join(dir, "extra.vars")
	writeFile(t, a)
	writeFile(t, b)
	writeFile(t, extra)

	files, err := FindFiles([]string{b, filepath.Join(dir, "conf"), extra}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, extra}, files)

	_, err = FindFiles([]string{filepath.Join(dir, "missing")}, ".hcl")
	assert.Error(t, err)
}
