package snippets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qlaunch/internal/types"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"signature.txt": "Best regards,\nAlex",
		"address.md":    "221B Baker Street",
		"plain":         "no extension",
		".hidden.txt":   "skip me",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "inner.txt"), []byte("x"), 0o644))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []types.Snippet{
		{Name: "address", Content: "221B Baker Street"},
		{Name: "plain", Content: "no extension"},
		{Name: "signature", Content: "Best regards,\nAlex"},
	}, got)
}

func TestLoad_MissingDirectory(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoad_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := Load(file)
	assert.Error(t, err)
}

func TestLoad_SkipsOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.txt"), []byte(strings.Repeat("a", MaxSnippetSize+1)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.txt"), []byte("ok"), 0o644))

	got, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "small", got[0].Name)
}
