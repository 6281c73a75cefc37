package topics

import (
	"strings"

	"github.com/samber/lo"

	"github.com/ent0n29/memoir/internal/lang"
	"github.com/ent0n29/memoir/internal/lexicon"
)

// Set is an unordered collection of topic tags.
type Set map[lexicon.Topic]struct{}

func (s Set) Has(t lexicon.Topic) bool {
	_, ok := s[t]
	return ok
}

func (s Set) Add(t lexicon.Topic) { s[t] = struct{}{} }

// Union returns a new set holding the tags of s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for t := range s {
		out.Add(t)
	}
	for t := range other {
		out.Add(t)
	}
	return out
}

// Ordered lists the tags of s following the priority of rules.
func (s Set) Ordered(rules []lexicon.TopicRule) []lexicon.Topic {
	ordered := lo.FilterMap(rules, func(r lexicon.TopicRule, _ int) (lexicon.Topic, bool) {
		return r.Topic, s.Has(r.Topic)
	})
	return lo.Uniq(ordered)
}

// Classifier tags free text with topics by keyword substring presence.
type Classifier struct {
	lex *lexicon.Lexicon
}

func NewClassifier(lex *lexicon.Lexicon) *Classifier {
	return &Classifier{lex: lex}
}

// Classify returns every topic with at least one keyword present in text.
func (c *Classifier) Classify(text string, code lang.Code) Set {
	out := make(Set)
	in := strings.ToLower(text)
	if strings.TrimSpace(in) == "" {
		return out
	}
	for _, rule := range c.lex.Table(code).Topics {
		if out.Has(rule.Topic) {
			continue
		}
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(kw)
			if kw != "" && strings.Contains(in, kw) {
				out.Add(rule.Topic)
				break
			}
		}
	}
	return out
}

// Rules exposes the priority-ordered topic rules for code.
func (c *Classifier) Rules(code lang.Code) []lexicon.TopicRule {
	return c.lex.Table(code).Topics
}
