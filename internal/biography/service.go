package biography

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ent0n29/memoir/internal/memory"
	"github.com/ent0n29/memoir/internal/observability"
)

// Service loads a person's turns and notes from the store and synthesizes a Report.
type Service struct {
	store   memory.Store
	synth   *Synthesizer
	metrics *observability.Metrics
}

func NewService(store memory.Store, synth *Synthesizer, metrics *observability.Metrics) *Service {
	return &Service{store: store, synth: synth, metrics: metrics}
}

// Report builds the biography of personID. A blank id is rejected with
// ErrInvalidInput before the store is read; "unassigned" names the anonymous turns.
func (s *Service) Report(ctx context.Context, personID string) (Report, error) {
	if strings.TrimSpace(personID) == "" {
		return Report{}, ErrInvalidInput
	}
	start := time.Now()
	report, err := s.report(ctx, personID)
	switch {
	case err == nil:
		s.metrics.ObserveBiography(report.Biography.Source, time.Since(start))
	case errors.Is(err, ErrNotFound):
		s.metrics.ObserveBiography("not_found", time.Since(start))
	default:
		s.metrics.ObserveBiography("error", time.Since(start))
	}
	return report, err
}

func (s *Service) report(ctx context.Context, personID string) (Report, error) {
	personID = memory.NormalizePersonID(personID)
	filter := memory.Filter{PersonID: personID, Order: memory.Ascending}

	turns, err := s.store.QueryTurns(ctx, filter)
	if err != nil {
		return Report{}, fmt.Errorf("load turns: %w", err)
	}
	notes, err := s.store.QueryNotes(ctx, filter)
	if err != nil {
		return Report{}, fmt.Errorf("load notes: %w", err)
	}

	doc, err := s.synth.Synthesize(ctx, personID, turns, notes)
	if err != nil {
		return Report{}, err
	}

	stats := Stats{TurnCount: len(turns), NoteCount: len(notes)}
	if entries := MergeEntries(turns, notes); len(entries) > 0 {
		stats.FirstEntry = entries[0].Timestamp
		stats.LastEntry = entries[len(entries)-1].Timestamp
	}
	return Report{Biography: doc, Stats: stats}, nil
}
