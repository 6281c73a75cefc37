package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process store for local/dev use and tests.
type InMemoryStore struct {
	mu    sync.RWMutex
	turns []Turn
	notes []Note
	now   func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{now: time.Now}
}

func (s *InMemoryStore) AppendTurn(ctx context.Context, turn Turn) (Turn, error) {
	if err := ctx.Err(); err != nil {
		return Turn{}, err
	}
	turn = prepareTurn(turn, s.now, uuid.NewString)
	turn.HistorySnapshot = slices.Clone(turn.HistorySnapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	return turn, nil
}

func (s *InMemoryStore) QueryTurns(ctx context.Context, filter Filter) ([]Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := filter.normalized()

	s.mu.RLock()
	out := make([]Turn, 0, len(s.turns))
	for _, t := range s.turns {
		if f.PersonID != "" && t.PersonID != f.PersonID {
			continue
		}
		if f.SessionID != "" && t.SessionID != f.SessionID {
			continue
		}
		t.HistorySnapshot = slices.Clone(t.HistorySnapshot)
		out = append(out, t)
	}
	s.mu.RUnlock()

	// Stable sort keeps insertion order for equal timestamps.
	slices.SortStableFunc(out, func(a, b Turn) int { return a.Timestamp.Compare(b.Timestamp) })
	return window(out, f), nil
}

func (s *InMemoryStore) AppendNote(ctx context.Context, note Note) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, err
	}
	note, err := prepareNote(note, s.now, uuid.NewString)
	if err != nil {
		return Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, note)
	return note, nil
}

func (s *InMemoryStore) QueryNotes(ctx context.Context, filter Filter) ([]Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := filter.normalized()

	s.mu.RLock()
	out := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		if f.PersonID != "" && n.PersonID != f.PersonID {
			continue
		}
		out = append(out, n)
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b Note) int { return a.Timestamp.Compare(b.Timestamp) })
	return window(out, f), nil
}

func (s *InMemoryStore) DeletePerson(ctx context.Context, personID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	id := NormalizePersonID(personID)

	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.turns) + len(s.notes)
	s.turns = slices.DeleteFunc(s.turns, func(t Turn) bool { return t.PersonID == id })
	s.notes = slices.DeleteFunc(s.notes, func(n Note) bool { return n.PersonID == id })
	return int64(before - len(s.turns) - len(s.notes)), nil
}

func (s *InMemoryStore) Close() error { return nil }

// window applies order and limit to an ascending slice.
func window[T any](asc []T, f Filter) []T {
	if f.Order == Descending {
		slices.Reverse(asc)
	}
	if f.Limit > 0 && f.Limit < len(asc) {
		asc = asc[:f.Limit]
	}
	return asc
}
