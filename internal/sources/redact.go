package sources

import (
	"context"

	"github.com/ent0n29/memoir/internal/memory"
	"github.com/ent0n29/memoir/internal/policy"
)

// redacting masks personal identifiers before a payload leaves the process.
type redacting struct {
	inner    Source
	redactor *policy.Redactor
}

// Redacting wraps src so its payloads pass through r first.
func Redacting(src Source, r *policy.Redactor) Source {
	if r == nil {
		r = policy.NewRedactor()
	}
	return &redacting{inner: src, redactor: r}
}

func (s *redacting) Name() string { return s.inner.Name() }

func (s *redacting) Generate(ctx context.Context, p Payload) (string, error) {
	p.Message, _ = s.redactor.Redact(p.Message)
	if len(p.History) > 0 {
		history := make([]memory.HistoryEntry, len(p.History))
		for i, h := range p.History {
			pair, _ := s.redactor.RedactAll(h.UserText, h.AIText)
			history[i] = memory.HistoryEntry{UserText: pair[0], AIText: pair[1]}
		}
		p.History = history
	}
	return s.inner.Generate(ctx, p)
}
