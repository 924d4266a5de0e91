package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumerank/internal/decoder"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func registry(t *testing.T) *decoder.Registry {
	t.Helper()
	reg, err := decoder.NewRegistry(nil)
	require.NoError(t, err)
	return reg
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "sub", "b.txt"), "b")
	writeFile(t, filepath.Join(dir, "sub", "deeper", "c.md"), "c")

	got, err := Expand([]string{
		filepath.Join(dir, "**", "*.txt"),
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "missing.txt"),
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "sub", "b.txt"),
		filepath.Join(dir, "missing.txt"),
	}, got)
	assert.Equal(t, filepath.Join(dir, "missing.txt"), got[len(got)-1])
}

func TestExpandBadPattern(t *testing.T) {
	_, err := Expand([]string{"[unterminated"})
	assert.Error(t, err)
}

func TestLoadCandidates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one", "jane.txt"), "python developer")
	writeFile(t, filepath.Join(dir, "two", "jane.txt"), "java developer")
	writeFile(t, filepath.Join(dir, "john.pdf"), "%PDF")
	writeFile(t, filepath.Join(dir, "bob.md"), "go developer")

	docs, skipped, err := LoadCandidates(registry(t), []string{
		filepath.Join(dir, "one", "jane.txt"),
		filepath.Join(dir, "john.pdf"),
		filepath.Join(dir, "two", "jane.txt"),
		filepath.Join(dir, "bob.md"),
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "jane.txt", docs[0].ID)
	assert.Equal(t, "python developer", docs[0].Text)
	assert.Equal(t, "bob.md", docs[1].ID)
	require.Len(t, skipped, 2)
	assert.Equal(t, "unsupported format", skipped[0].Reason)
	assert.Contains(t, skipped[1].Reason, "duplicate")
}

func TestLoadCandidatesMissingFile(t *testing.T) {
	_, _, err := LoadCandidates(registry(t), []string{filepath.Join(t.TempDir(), "ghost.txt")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeUsesBaseName(t *testing.T) {
	doc, err := Decode(registry(t), "../../etc/cv.txt", []byte("go"))
	require.NoError(t, err)
	assert.Equal(t, "cv.txt", doc.ID)
	assert.Equal(t, "go", doc.Text)

	_, err = Decode(registry(t), "cv.pdf", nil)
	assert.ErrorIs(t, err, decoder.ErrUnsupportedFormat)
}
