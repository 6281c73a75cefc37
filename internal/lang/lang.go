package lang

import (
	"strings"

	"golang.org/x/text/language"
)

// Code is a normalized base language code used to select lexicon tables.
type Code string

const (
	English Code = "en"
	Urdu    Code = "ur"
)

// Clients send display names as often as tags.
var aliases = map[string]Code{
	"english": English,
	"eng":     English,
	"urdu":    Urdu,
	"urd":     Urdu,
	"اردو":    Urdu,
}

var builtin = NewMatcher([]Code{English, Urdu})

// Matcher maps client supplied languages onto a fixed set of codes.
type Matcher struct {
	codes   []Code
	matcher language.Matcher
}

// NewMatcher builds a Matcher over codes. Codes that do not parse as BCP 47 are ignored.
func NewMatcher(codes []Code) *Matcher {
	m := &Matcher{}
	tags := make([]language.Tag, 0, len(codes))
	for _, c := range codes {
		tag, err := language.Parse(string(c))
		if err != nil {
			continue
		}
		m.codes = append(m.codes, c)
		tags = append(tags, tag)
	}
	m.matcher = language.NewMatcher(tags)
	return m
}

// Normalize maps raw (tag or name) onto one of the matcher's codes.
// Unknown or empty input yields fallback.
func (m *Matcher) Normalize(raw string, fallback Code) Code {
	in := strings.ToLower(strings.TrimSpace(raw))
	if in == "" || len(m.codes) == 0 {
		return fallback
	}
	if c, ok := aliases[in]; ok && m.has(c) {
		return c
	}
	tag, err := language.Parse(in)
	if err != nil {
		return fallback
	}
	_, idx, conf := m.matcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(m.codes) {
		return fallback
	}
	return m.codes[idx]
}

func (m *Matcher) has(c Code) bool {
	for _, known := range m.codes {
		if known == c {
			return true
		}
	}
	return false
}

// Normalize maps raw onto English or Urdu, or fallback.
func Normalize(raw string, fallback Code) Code {
	return builtin.Normalize(raw, fallback)
}

// Tag returns the x/text tag for c, defaulting to English.
func (c Code) Tag() language.Tag {
	tag, err := language.Parse(string(c))
	if err != nil {
		return language.English
	}
	return tag
}

func (c Code) String() string { return string(c) }
