package biography

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/ent0n29/memoir/internal/fallback"
	"github.com/ent0n29/memoir/internal/lang"
	"github.com/ent0n29/memoir/internal/lexicon"
	"github.com/ent0n29/memoir/internal/topics"
)

const (
	maxLifeEvents       = 20
	maxStories          = 10
	minStoryRunes       = 100
	maxStoryRunes       = 300
	maxEventRunes       = 200
	maxSnippetRunes     = 200
	sentenceTerminators = ".!?\n۔؟"
)

var yearPattern = regexp.MustCompile(`\b(1[6-9]\d{2}|20\d{2})\b`)

// extraction is everything the deterministic path learns from the timeline.
type extraction struct {
	name          string
	topics        []lexicon.Topic
	events        []LifeEvent
	relationships []string
	traits        []string
	values        []string
	stories       []Story
	// childhood is the first entry mentioning early life, trimmed for quoting.
	childhood string
}

type extractor struct {
	lex        *lexicon.Lexicon
	classifier *topics.Classifier
}

func (x extractor) extract(entries []Entry) extraction {
	var out extraction

	byLang := make(map[lang.Code][]string)
	var langOrder []lang.Code
	for _, e := range entries {
		code := x.lex.Normalize(e.Language)
		if _, ok := byLang[code]; !ok {
			langOrder = append(langOrder, code)
		}
		byLang[code] = append(byLang[code], e.Text)

		table := x.lex.Table(code)
		if out.name == "" {
			if name, ok := fallback.ExtractName(table, code, e.Text); ok {
				out.name = name
			}
		}
		if out.childhood == "" && x.classifier.Classify(e.Text, code).Has(lexicon.Childhood) {
			out.childhood = truncate(strings.TrimSpace(e.Text), maxSnippetRunes)
		}
		if len(out.events) < maxLifeEvents {
			out.events = append(out.events, lifeEvents(table, e, maxLifeEvents-len(out.events))...)
		}
		if len(out.stories) < maxStories && utf8.RuneCountInString(strings.TrimSpace(e.Text)) > minStoryRunes {
			out.stories = append(out.stories, Story{
				Text:      truncate(strings.TrimSpace(e.Text), maxStoryRunes),
				Kind:      e.Kind,
				Timestamp: e.Timestamp,
			})
		}
	}

	tags := topics.Set{}
	for _, code := range langOrder {
		text := strings.Join(byLang[code], "\n")
		tags = tags.Union(x.classifier.Classify(text, code))

		table := x.lex.Table(code)
		canon := lexicon.Canonicalize(text)
		out.relationships = append(out.relationships, presentTerms(table.Relationships, canon)...)
		out.traits = append(out.traits, presentTerms(table.Personality, canon)...)
		out.values = append(out.values, presentTerms(table.Values, canon)...)
	}
	for _, code := range x.lex.Languages() {
		out.topics = append(out.topics, tags.Ordered(x.lex.Table(code).Topics)...)
	}
	out.topics = lo.Uniq(out.topics)
	out.relationships = lo.Uniq(out.relationships)
	out.traits = lo.Uniq(out.traits)
	out.values = lo.Uniq(out.values)
	return out
}

// lifeEvents returns up to limit sentences of e that mention a life-event keyword.
func lifeEvents(table *lexicon.Table, e Entry, limit int) []LifeEvent {
	var out []LifeEvent
	sentences := strings.FieldsFunc(e.Text, func(r rune) bool { return strings.ContainsRune(sentenceTerminators, r) })
	for _, sentence := range sentences {
		if len(out) >= limit {
			break
		}
		sentence = strings.TrimSpace(sentence)
		canon := lexicon.Canonicalize(sentence)
		keyword, ok := lo.Find(table.LifeEvents, func(kw string) bool { return lexicon.ContainsPhrase(canon, kw) })
		if !ok {
			continue
		}
		out = append(out, LifeEvent{
			Year:        eventYear(sentence, e),
			Description: truncate(sentence, maxEventRunes),
			Keyword:     keyword,
		})
	}
	return out
}

// eventYear prefers a year written in the sentence over the entry's timestamp.
func eventYear(sentence string, e Entry) int {
	if m := yearPattern.FindString(sentence); m != "" {
		if y, err := strconv.Atoi(m); err == nil {
			return y
		}
	}
	if e.Timestamp.IsZero() {
		return 0
	}
	return e.Timestamp.Year()
}

func presentTerms(terms []lexicon.Term, canon string) []string {
	return lo.FilterMap(terms, func(t lexicon.Term, _ int) (string, bool) {
		return t.Label, lo.ContainsBy(t.Keywords, func(kw string) bool { return lexicon.ContainsPhrase(canon, kw) })
	})
}

func truncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:maxRunes])) + "…"
}
