package enhance

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ent0n29/memoir/internal/lang"
	"github.com/ent0n29/memoir/internal/lexicon"
)

const (
	minReplyRunes         = 3
	minSingleTokenRunes   = 5
	DefaultShortThreshold = 35
)

// leadArtifacts are stray characters generators emit before the reply text.
const leadArtifacts = ":-–—|>*•,;"

// Enhancer accepts, rejects or lightly cleans candidate replies from a source.
type Enhancer struct {
	lex            *lexicon.Lexicon
	shortThreshold int
}

// New builds an Enhancer. A non-positive shortThreshold selects the default.
func New(lex *lexicon.Lexicon, shortThreshold int) *Enhancer {
	if shortThreshold <= 0 {
		shortThreshold = DefaultShortThreshold
	}
	return &Enhancer{lex: lex, shortThreshold: shortThreshold}
}

// Enhance returns the cleaned reply and true when raw carries conversational value.
// A false result means "try the next source", never an error.
func (e *Enhancer) Enhance(raw string, code lang.Code) (string, bool) {
	cleaned := clean(raw)
	n := utf8.RuneCountInString(cleaned)

	if n < minReplyRunes || !hasLetter(cleaned) {
		return "", false
	}
	if fields := strings.Fields(cleaned); len(fields) == 1 && n < minSingleTokenRunes {
		return "", false
	}
	if n < e.shortThreshold && e.isAcknowledgement(cleaned, code) {
		return "", false
	}
	return cleaned, true
}

func (e *Enhancer) isAcknowledgement(text string, code lang.Code) bool {
	canon := lexicon.Canonicalize(text)
	for _, phrase := range e.lex.Table(code).Acknowledgements {
		if lexicon.ContainsPhrase(canon, phrase) {
			return true
		}
	}
	return false
}

// clean strips leading punctuation artifacts and surrounding whitespace until stable.
func clean(raw string) string {
	out := strings.TrimSpace(raw)
	for {
		next := strings.TrimLeftFunc(out, func(r rune) bool {
			return unicode.IsSpace(r) || strings.ContainsRune(leadArtifacts, r)
		})
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimRightFunc(out, unicode.IsSpace)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
