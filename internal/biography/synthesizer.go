package biography

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ent0n29/memoir/internal/lexicon"
	"github.com/ent0n29/memoir/internal/memory"
	"github.com/ent0n29/memoir/internal/sources"
	"github.com/ent0n29/memoir/internal/topics"
)

const (
	DefaultMaxPromptChars = 12000
	DefaultTimeout        = 60 * time.Second
)

type Config struct {
	MaxPromptChars int
	Timeout        time.Duration
}

// Synthesizer turns a person's timeline into a Document. With a generator it
// asks for prose first and fills whatever is missing; without one, or when the
// generator fails, every section is assembled from the timeline.
type Synthesizer struct {
	cfg       Config
	extractor extractor
	generator sources.LongFormGenerator
	logger    *log.Logger
	now       func() time.Time
}

// NewSynthesizer builds a Synthesizer. generator may be nil.
func NewSynthesizer(lex *lexicon.Lexicon, generator sources.LongFormGenerator, cfg Config, logger *log.Logger) *Synthesizer {
	if cfg.MaxPromptChars <= 0 {
		cfg.MaxPromptChars = DefaultMaxPromptChars
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Synthesizer{
		cfg:       cfg,
		extractor: extractor{lex: lex, classifier: topics.NewClassifier(lex)},
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// Synthesize writes a biography for personID. It returns ErrNotFound when the
// merged timeline is empty.
func (s *Synthesizer) Synthesize(ctx context.Context, personID string, turns []memory.Turn, notes []memory.Note) (Document, error) {
	entries := MergeEntries(turns, notes)
	if len(entries) == 0 {
		return Document{}, ErrNotFound
	}
	personID = memory.NormalizePersonID(personID)

	x := s.extractor.extract(entries)
	assembled := assemble(x, len(entries))

	doc := Document{
		Title:    title(x.name),
		Sections: assembled,
		Source:   SourceAssembled,
	}
	if generated, ok := s.generate(ctx, personID, entries); ok {
		doc = generated
		doc.Sections = fillSections(generated.Sections, assembled)
		doc.Source = SourceGenerated
	}

	doc.PersonID = personID
	doc.Topics = orList(doc.Topics, topicTitles(x.topics))
	doc.PersonalityTraits = orList(doc.PersonalityTraits, x.traits)
	doc.Relationships = orList(doc.Relationships, x.relationships)
	doc.Values = orList(doc.Values, x.values)
	if len(doc.LifeEvents) == 0 {
		doc.LifeEvents = x.events
	}
	if len(doc.Stories) == 0 {
		doc.Stories = x.stories
	}
	doc.LifeEvents = nonNil(doc.LifeEvents)
	doc.Stories = nonNil(doc.Stories)
	doc.GeneratedAt = s.now().UTC()
	return doc, nil
}

func (s *Synthesizer) generate(ctx context.Context, personID string, entries []Entry) (Document, bool) {
	if s.generator == nil {
		return Document{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	raw, err := s.generator.Complete(ctx, buildPrompt(entries, s.cfg.MaxPromptChars))
	if err != nil {
		s.logger.Warn("biography generator failed", "person_id", personID, "outcome", sources.Outcome(err), "err", err)
		return Document{}, false
	}
	doc, err := parseGenerated(raw)
	if err != nil {
		s.logger.Warn("biography generator output rejected", "person_id", personID, "err", err)
		return Document{}, false
	}
	return doc, true
}

func orList(got, fallback []string) []string {
	got = cleanList(got)
	if len(got) == 0 {
		return nonNil(fallback)
	}
	return got
}

func cleanList(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
