package finder

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xrash/smetrics"
)

func TestSimilarity_ComparesCharactersNotBytes(t *testing.T) {
	tests := []struct {
		query, name string
		want        float64
	}{
		// one shared character out of 3 and 6
		{"日本語", "日記.txt", 0.5},
		// four shared characters, one transposition
		{"данные", "дневник.txt", 0.5934},
		{"報告書", "報酬書.pdf", 0.6508},
		{"данные", "данные", 1},
	}

	for _, tt := range tests {
		t.Run(tt.query+"/"+tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.query, tt.name), 1e-4)
		})
	}
}

func TestSimilarity_ASCIIUnchanged(t *testing.T) {
	pairs := [][2]string{
		{"doc", "doc1.txt"},
		{"report", "quarterly_report.pdf"},
		{"README", "readme.md"},
		{"budget", "budget_2024.xlsx"},
	}
	for _, p := range pairs {
		assert.Equal(t, smetrics.JaroWinkler(p[0], p[1], 0.7, 4), Similarity(p[0], p[1]), "%s vs %s", p[0], p[1])
	}
}

func TestSimilarity_PrefixBoostCountsCharacters(t *testing.T) {
	// "й" and "и" share their UTF-8 lead byte; byte matching would see a
	// common prefix where there is none
	assert.Less(t, Similarity("йога", "иога.txt"), Similarity("йога", "йога.txt"))
	assert.InDelta(t, Similarity("abcd", "xbcd.txt"), Similarity("йога", "иога.txt"), 1e-9)
}

func TestSearch_NonASCIINamesUseCharacterThreshold(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "дневник.txt", "заметки/данные_2024.csv")

	results, err := New(WithRoots(root)).Search(context.Background(), "данные")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "заметки", "данные_2024.csv")}, results)

	results, err = New(WithRoots(root)).Search(context.Background(), "日本語")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSymbolize_TooManySharedCharacters(t *testing.T) {
	var runes []rune
	for r := rune(0x4E00); len(runes) < maxSharedRunes+1; r++ {
		runes = append(runes, r)
	}
	s := string(runes)

	_, _, ok := symbolize(s, s)
	assert.False(t, ok)
	assert.InDelta(t, 1.0, Similarity(s, s), 1e-9)
}
