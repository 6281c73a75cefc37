package fallback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ent0n29/memoir/internal/lang"
	"github.com/ent0n29/memoir/internal/lexicon"
	"github.com/ent0n29/memoir/internal/memory"
)

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func newTestSynthesizer(r Rand) *Synthesizer {
	return New(lexicon.Default(), nil, Config{Rand: r})
}

func TestSynthesizeGreetsIntroducedName(t *testing.T) {
	s := newTestSynthesizer(fixedRand(0))
	got := s.Synthesize("my name is Sara", lang.English, nil)
	assert.Contains(t, got, "Sara")
	assert.Contains(t, got, "Nice to meet you")
}

func TestSynthesizeTitleCasesName(t *testing.T) {
	s := newTestSynthesizer(fixedRand(0))
	assert.Contains(t, s.Synthesize("hello, call me ahmed please", lang.English, nil), "Ahmed")
}

func TestSynthesizeIgnoresNonNames(t *testing.T) {
	s := newTestSynthesizer(fixedRand(0))
	got := s.Synthesize("I'm Tired of waiting around", lang.English, nil)
	assert.NotContains(t, got, "Tired")
}

func TestSynthesizeGreetingWithoutName(t *testing.T) {
	s := newTestSynthesizer(fixedRand(0))
	table := lexicon.Default().Table(lang.English)
	assert.Equal(t, table.Greeting.Reply, s.Synthesize("Good morning!", lang.English, nil))
	assert.NotEqual(t, table.Greeting.Reply, s.Synthesize("I went hiking yesterday", lang.English, nil))
}

func TestSynthesizeUsesFamilyFromHistory(t *testing.T) {
	s := newTestSynthesizer(fixedRand(0))
	history := []memory.HistoryEntry{
		{UserText: "Our village was small and my family was big.", AIText: "..."},
		{UserText: "Everyone in the village knew my family.", AIText: "..."},
		{UserText: "The village festival brought the whole family together.", AIText: "..."},
	}
	got := s.Synthesize("It was a long time ago.", lang.English, history)
	assert.Equal(t, "Tell me more about your family! What were your parents like?", got)
}

func TestSynthesizeHistoryWindowIsBounded(t *testing.T) {
	s := New(lexicon.Default(), nil, Config{HistoryWindow: 1, Rand: fixedRand(0)})
	history := []memory.HistoryEntry{
		{UserText: "My job at the office was tiring."},
		{UserText: "The weather was nice."},
	}
	got := s.Synthesize("Anyway.", lang.English, history)
	assert.Equal(t, lexicon.Default().Table(lang.English).GenericFollowUps[0], got)
}

func TestSynthesizeTopicPriority(t *testing.T) {
	s := newTestSynthesizer(fixedRand(0))
	got := s.Synthesize("My friend and my wife met at school", lang.English, nil)
	rule, ok := lexicon.Default().Table(lang.English).Rule(lexicon.Marriage)
	require.True(t, ok)
	assert.Equal(t, rule.Question, got)
}

func TestSynthesizeGenericPoolIsDeterministicWithInjectedRand(t *testing.T) {
	pool := lexicon.Default().Table(lang.English).GenericFollowUps
	for i := range pool {
		s := newTestSynthesizer(fixedRand(i))
		assert.Equal(t, pool[i], s.Synthesize("The weather was nice.", lang.English, nil))
	}
}

func TestSynthesizeNeverEmpty(t *testing.T) {
	s := New(lexicon.Default(), nil, Config{Rand: NewLockedRand(7)})
	inputs := []string{"", "   ", "?!", "hmm", "میرا نام سارہ ہے", "بچپن میں ہم گاؤں میں رہتے تھے"}
	for _, in := range inputs {
		for _, code := range []lang.Code{lang.English, lang.Urdu, lang.Code("xx")} {
			assert.NotEmpty(t, strings.TrimSpace(s.Synthesize(in, code, nil)), "Synthesize(%q, %s)", in, code)
		}
	}
}

func TestExtractNameUrdu(t *testing.T) {
	table := lexicon.Default().Table(lang.Urdu)
	name, ok := ExtractName(table, lang.Urdu, "السلام علیکم، میرا نام سارہ ہے")
	require.True(t, ok)
	assert.Equal(t, "سارہ", name)
}
