package lexicon

import (
	"strings"
	"unicode"
)

// Canonicalize lower-cases s and collapses punctuation and space runs into single
// spaces. Apostrophes are kept so "i'm" stays one token; marks are kept for
// Urdu script; symbols and emoji are dropped.
func Canonicalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r == '’':
			b.WriteByte('\'')
			prevSpace = false
		case unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) || r == '\'':
			b.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || unicode.IsPunct(r):
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// ContainsPhrase reports whether phrase occurs in canon on word boundaries.
// canon must come from Canonicalize; phrase is canonicalized here.
func ContainsPhrase(canon, phrase string) bool {
	p := Canonicalize(phrase)
	if p == "" || canon == "" {
		return false
	}
	return strings.Contains(" "+canon+" ", " "+p+" ")
}
