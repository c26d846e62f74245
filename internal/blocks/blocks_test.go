package blocks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBlock(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadLibraryMissingDir(t *testing.T) {
	lib := LoadLibrary(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Equal(t, 0, lib.Len())
	assert.Empty(t, lib.Names())
}

func TestLoadLibraryReadsTxtOnly(t *testing.T) {
	dir := t.TempDir()
	writeBlock(t, dir, "strict.txt", "Output only code.")
	writeBlock(t, dir, "review.txt", "You are reviewing.")
	writeBlock(t, dir, "notes.md", "not a block")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	lib := LoadLibrary(dir, nil)

	assert.Equal(t, []string{"review", "strict"}, lib.Names())

	b, ok := lib.Get("strict")
	require.True(t, ok)
	assert.Equal(t, "Output only code.", b.Body)
	assert.Equal(t, filepath.Join(dir, "strict.txt"), b.Path)

	_, ok = lib.Get("notes")
	assert.False(t, ok)
}

func TestMatchExactBeatsFuzzy(t *testing.T) {
	dir := t.TempDir()
	writeBlock(t, dir, "fix.txt", "a")
	writeBlock(t, dir, "fix-tests.txt", "b")

	lib := LoadLibrary(dir, nil)

	b, ok := lib.Match("fix")
	require.True(t, ok)
	assert.Equal(t, "fix", b.Name)
}

func TestMatchFuzzy(t *testing.T) {
	dir := t.TempDir()
	writeBlock(t, dir, "strict-json.txt", "a")

	lib := LoadLibrary(dir, nil)

	b, ok := lib.Match("json")
	require.True(t, ok)
	assert.Equal(t, "strict-json", b.Name)

	_, ok = lib.Match("zzzzzz")
	assert.False(t, ok)
}
