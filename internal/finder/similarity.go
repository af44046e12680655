package finder

import (
	"unicode/utf8"

	"github.com/xrash/smetrics"
)

const (
	// the common-prefix boost applies only above this Jaro score
	boostThreshold = 0.7
	prefixSize     = 4

	queryOnly = 0x00
	nameOnly  = 0xFF
	// codes 0x01..0xFE are handed out to characters present in both strings
	maxSharedRunes = 0xFE
)

// Similarity scores name against query in [0,1] with Jaro-Winkler over
// characters, not bytes. The common-prefix boost applies only above a Jaro
// score of 0.7, over at most four characters. Comparison is case-sensitive.
func Similarity(query, name string) float64 {
	if query == "" && name == "" {
		return 1
	}
	if query == "" || name == "" {
		return 0
	}
	if a, b, ok := symbolize(query, name); ok {
		query, name = a, b
	}
	return smetrics.JaroWinkler(query, name, boostThreshold, prefixSize)
}

// symbolize rewrites both strings with one byte per character so that the
// byte-oriented metric compares characters. Characters found in both strings
// get a unique code; the rest collapse to a per-string filler that never
// matches the other side. ok is false only when more than 254 distinct
// characters are shared, which no file name reaches.
func symbolize(query, name string) (string, string, bool) {
	if isASCII(query) && isASCII(name) {
		return query, name, true
	}

	inName := make(map[rune]struct{}, len(name))
	for _, r := range name {
		inName[r] = struct{}{}
	}

	codes := make(map[rune]byte)
	a := make([]byte, 0, utf8.RuneCountInString(query))
	for _, r := range query {
		if _, shared := inName[r]; !shared {
			a = append(a, queryOnly)
			continue
		}
		code, ok := codes[r]
		if !ok {
			if len(codes) == maxSharedRunes {
				return "", "", false
			}
			code = byte(len(codes) + 1)
			codes[r] = code
		}
		a = append(a, code)
	}

	b := make([]byte, 0, utf8.RuneCountInString(name))
	for _, r := range name {
		if code, ok := codes[r]; ok {
			b = append(b, code)
		} else {
			b = append(b, nameOnly)
		}
	}
	return string(a), string(b), true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
