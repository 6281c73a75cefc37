package fallback

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/ent0n29/memoir/internal/lang"
	"github.com/ent0n29/memoir/internal/lexicon"
	"github.com/ent0n29/memoir/internal/memory"
	"github.com/ent0n29/memoir/internal/topics"
)

// DefaultHistoryWindow is how many recent user messages feed topic detection.
const DefaultHistoryWindow = 3

type Config struct {
	// HistoryWindow bounds the trailing user texts classified alongside the message.
	HistoryWindow int
	// Rand selects from the generic pool. Nil uses the process-wide source.
	Rand Rand
}

// Synthesizer produces a canned follow-up when no generation source answered.
type Synthesizer struct {
	lex        *lexicon.Lexicon
	classifier *topics.Classifier
	window     int
	rand       Rand
}

func New(lex *lexicon.Lexicon, classifier *topics.Classifier, cfg Config) *Synthesizer {
	if classifier == nil {
		classifier = topics.NewClassifier(lex)
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultHistoryWindow
	}
	if cfg.Rand == nil {
		cfg.Rand = globalRand{}
	}
	return &Synthesizer{lex: lex, classifier: classifier, window: cfg.HistoryWindow, rand: cfg.Rand}
}

// Synthesize always returns a non-empty reply. Precedence: introduced name,
// greeting, first topic in priority order, then a generic follow-up.
func (s *Synthesizer) Synthesize(message string, code lang.Code, history []memory.HistoryEntry) string {
	table := s.lex.Table(code)

	if name, ok := ExtractName(table, code, message); ok && table.Greeting.NamedReply != "" {
		return fmt.Sprintf(table.Greeting.NamedReply, name)
	}
	if table.Greeting.Reply != "" && isGreeting(table, message) {
		return table.Greeting.Reply
	}

	tags := s.classifier.Classify(message, code).Union(s.classifier.Classify(recentUserText(history, s.window), code))
	for _, topic := range tags.Ordered(table.Topics) {
		if rule, ok := table.Rule(topic); ok {
			return rule.Question
		}
	}

	pool := table.GenericFollowUps
	return pool[s.rand.IntN(len(pool))]
}

// ExtractName returns the title-cased name a speaker introduced themselves with.
func ExtractName(table *lexicon.Table, code lang.Code, text string) (string, bool) {
	caser := cases.Title(code.Tag())
	for _, re := range table.NamePatterns() {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			token := strings.TrimRightFunc(m[1], func(r rune) bool { return r == '\'' || r == '’' || r == '-' })
			if token == "" || table.IsNotName(token) {
				continue
			}
			return caser.String(token), true
		}
	}
	return "", false
}

// isGreeting reports whether the message opens with one of the table's greeting words.
func isGreeting(table *lexicon.Table, message string) bool {
	words := tokens(message)
	if len(words) == 0 {
		return false
	}
	for _, g := range table.Greeting.Words {
		gw := tokens(g)
		if len(gw) == 0 || len(gw) > len(words) {
			continue
		}
		match := true
		for i := range gw {
			if words[i] != gw[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '\'' && r != '’')
	})
}

func recentUserText(history []memory.HistoryEntry, window int) string {
	if len(history) > window {
		history = history[len(history)-window:]
	}
	parts := make([]string, 0, len(history))
	for _, h := range history {
		if t := strings.TrimSpace(h.UserText); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
