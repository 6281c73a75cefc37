package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ent0n29/memoir/internal/lang"
)

// overlayDocument is the on-disk shape of a lexicon overlay. Only the fields a
// language sets replace the built-in ones.
type overlayDocument struct {
	Fallback  string            `yaml:"fallback"`
	Languages map[string]*Table `yaml:"languages"`
}

// LoadFile reads a YAML overlay and applies it on top of Default().
// An empty path returns the defaults.
func LoadFile(path string) (*Lexicon, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon file: %w", err)
	}
	return Parse(raw)
}

// Parse applies a YAML overlay document on top of Default().
func Parse(raw []byte) (*Lexicon, error) {
	var doc overlayDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}

	base := Default()
	tables := make(map[lang.Code]*Table, len(base.tables)+len(doc.Languages))
	for code, t := range base.tables {
		tables[code] = t
	}
	for key, over := range doc.Languages {
		if over == nil {
			continue
		}
		code := lang.Code(strings.ToLower(strings.TrimSpace(key)))
		if code == "" {
			return nil, fmt.Errorf("parse lexicon: empty language key")
		}
		cur, ok := tables[code]
		if !ok {
			tables[code] = over
			continue
		}
		tables[code] = merge(cur, over)
	}

	fallback := base.fallback
	if f := strings.TrimSpace(doc.Fallback); f != "" {
		fallback = lang.Code(strings.ToLower(f))
	}
	return New(fallback, tables)
}

func merge(base, over *Table) *Table {
	out := *base
	out.namePatterns = nil
	out.notNames = nil
	if len(over.Topics) > 0 {
		out.Topics = over.Topics
	}
	if len(over.Greeting.Words) > 0 {
		out.Greeting.Words = over.Greeting.Words
	}
	if over.Greeting.NamedReply != "" {
		out.Greeting.NamedReply = over.Greeting.NamedReply
	}
	if over.Greeting.Reply != "" {
		out.Greeting.Reply = over.Greeting.Reply
	}
	if len(over.Greeting.NamePatterns) > 0 {
		out.Greeting.NamePatterns = over.Greeting.NamePatterns
	}
	if len(over.Greeting.NotNames) > 0 {
		out.Greeting.NotNames = over.Greeting.NotNames
	}
	if len(over.GenericFollowUps) > 0 {
		out.GenericFollowUps = over.GenericFollowUps
	}
	if len(over.Acknowledgements) > 0 {
		out.Acknowledgements = over.Acknowledgements
	}
	if len(over.LifeEvents) > 0 {
		out.LifeEvents = over.LifeEvents
	}
	if len(over.Relationships) > 0 {
		out.Relationships = over.Relationships
	}
	if len(over.Personality) > 0 {
		out.Personality = over.Personality
	}
	if len(over.Values) > 0 {
		out.Values = over.Values
	}
	return &out
}
