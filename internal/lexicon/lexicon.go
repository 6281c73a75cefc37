package lexicon

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ent0n29/memoir/internal/lang"
)

// Topic is a coarse conversation category derived from keyword presence.
type Topic string

const (
	Childhood  Topic = "childhood"
	Family     Topic = "family"
	Marriage   Topic = "marriage"
	Work       Topic = "work"
	Travel     Topic = "travel"
	Education  Topic = "education"
	Friendship Topic = "friendship"
)

// Title returns a display label for the topic. Casers keep state, so each call
// gets its own.
func (t Topic) Title() string {
	return cases.Title(language.Und, cases.NoLower).String(string(t))
}

// TopicRule binds a topic to its keyword substrings and its canned follow-up question.
type TopicRule struct {
	Topic    Topic    `yaml:"topic"`
	Keywords []string `yaml:"keywords"`
	Question string   `yaml:"question"`
}

// Term is a vocabulary entry detected by any of its keywords and reported by Label.
type Term struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

type Greeting struct {
	Words []string `yaml:"words"`
	// NamedReply must contain exactly one %s for the extracted name.
	NamedReply   string   `yaml:"named_reply"`
	Reply        string   `yaml:"reply"`
	NamePatterns []string `yaml:"name_patterns"`
	NotNames     []string `yaml:"not_names"`
}

// Table holds every language-specific rule used by the response pipeline.
// Tables are shared between requests and must not be mutated once compiled.
type Table struct {
	Topics           []TopicRule `yaml:"topics"`
	Greeting         Greeting    `yaml:"greeting"`
	GenericFollowUps []string    `yaml:"generic_follow_ups"`
	Acknowledgements []string    `yaml:"acknowledgements"`
	LifeEvents       []string    `yaml:"life_events"`
	Relationships    []Term      `yaml:"relationships"`
	Personality      []Term      `yaml:"personality"`
	Values           []Term      `yaml:"values"`

	namePatterns []*regexp.Regexp
	notNames     map[string]struct{}
}

// NamePatterns returns the compiled name patterns; each captures the name in group 1.
func (t *Table) NamePatterns() []*regexp.Regexp { return t.namePatterns }

// IsNotName reports whether a captured token is a known false positive ("I'm tired").
func (t *Table) IsNotName(token string) bool {
	_, ok := t.notNames[strings.ToLower(strings.TrimSpace(token))]
	return ok
}

// Rule returns the rule for topic, if the table defines one.
func (t *Table) Rule(topic Topic) (TopicRule, bool) {
	for _, r := range t.Topics {
		if r.Topic == topic {
			return r, true
		}
	}
	return TopicRule{}, false
}

func (t *Table) compile() error {
	t.namePatterns = t.namePatterns[:0]
	for _, p := range t.Greeting.NamePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("name pattern %q: %w", p, err)
		}
		if re.NumSubexp() < 1 {
			return fmt.Errorf("name pattern %q must capture the name", p)
		}
		t.namePatterns = append(t.namePatterns, re)
	}
	t.notNames = make(map[string]struct{}, len(t.Greeting.NotNames))
	for _, w := range t.Greeting.NotNames {
		t.notNames[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	if t.Greeting.NamedReply != "" && strings.Count(t.Greeting.NamedReply, "%s") != 1 {
		return fmt.Errorf("named_reply must contain exactly one %%s")
	}
	if len(t.GenericFollowUps) == 0 {
		return fmt.Errorf("generic_follow_ups must not be empty")
	}
	for _, r := range t.Topics {
		if r.Topic == "" || strings.TrimSpace(r.Question) == "" {
			return fmt.Errorf("topic rule %q requires a topic and a question", r.Topic)
		}
	}
	return nil
}

// Lexicon maps languages onto their tables.
type Lexicon struct {
	fallback lang.Code
	tables   map[lang.Code]*Table
	matcher  *lang.Matcher
}

// Table returns the table for code, or the fallback language table.
func (l *Lexicon) Table(code lang.Code) *Table {
	if t, ok := l.tables[code]; ok {
		return t
	}
	return l.tables[l.fallback]
}

// Languages lists the languages with a dedicated table, fallback first.
func (l *Lexicon) Languages() []lang.Code {
	out := make([]lang.Code, 0, len(l.tables))
	for c := range l.tables {
		if c != l.fallback {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return append([]lang.Code{l.fallback}, out...)
}

// Normalize maps a client supplied language onto a language with a table.
func (l *Lexicon) Normalize(raw string) lang.Code {
	return l.matcher.Normalize(raw, l.fallback)
}

// Lookup maps raw onto a language with a table and reports whether one matched.
func (l *Lexicon) Lookup(raw string) (lang.Code, bool) {
	code := l.matcher.Normalize(raw, "")
	return code, code != ""
}

// Fallback is the language used when a request names an unknown one.
func (l *Lexicon) Fallback() lang.Code { return l.fallback }

// WithFallback returns a Lexicon sharing l's tables with a different fallback language.
func (l *Lexicon) WithFallback(code lang.Code) (*Lexicon, error) {
	if _, ok := l.tables[code]; !ok {
		return nil, fmt.Errorf("lexicon: fallback language %q has no table", code)
	}
	out := &Lexicon{fallback: code, tables: l.tables}
	out.matcher = lang.NewMatcher(out.Languages())
	return out, nil
}

// New compiles tables into a Lexicon. The fallback language must be present.
func New(fallback lang.Code, tables map[lang.Code]*Table) (*Lexicon, error) {
	if _, ok := tables[fallback]; !ok {
		return nil, fmt.Errorf("lexicon: fallback language %q has no table", fallback)
	}
	out := &Lexicon{fallback: fallback, tables: make(map[lang.Code]*Table, len(tables))}
	for code, t := range tables {
		if t == nil {
			return nil, fmt.Errorf("lexicon: nil table for %q", code)
		}
		if err := t.compile(); err != nil {
			return nil, fmt.Errorf("lexicon %q: %w", code, err)
		}
		out.tables[code] = t
	}
	out.matcher = lang.NewMatcher(out.Languages())
	return out, nil
}
