// Package snippets loads reusable text blocks from a directory.
package snippets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "qlaunch/internal/infrastructure/errors"
	"qlaunch/internal/types"
)

// MaxSnippetSize bounds how much of one file is loaded
const MaxSnippetSize = 1 << 20

// Load reads every regular file in dir as a snippet named after the file
// without its extension. A missing directory yields no snippets. Hidden
// files, subdirectories and oversized files are skipped.
func Load(dir string) ([]types.Snippet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []types.Snippet{}, nil
		}
		return nil, apperrors.WrapWithContext("GetSnippets", err, map[string]string{"dir": dir})
	}

	out := make([]types.Snippet, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() > MaxSnippetSize {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		out = append(out, types.Snippet{
			Name:    strings.TrimSuffix(name, filepath.Ext(name)),
			Content: string(content),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
