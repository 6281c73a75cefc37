package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Unassigned is the person id used when a caller does not name a person.
const Unassigned = "unassigned"

const (
	maxNoteRunes     = 10000
	maxLanguageRunes = 50
)

// ErrInvalidNote marks a note rejected by validation.
var ErrInvalidNote = errors.New("invalid note")

// HistoryEntry is one prior exchange as supplied by the client.
type HistoryEntry struct {
	UserText string `json:"userText"`
	AIText   string `json:"aiText"`
}

// Turn is a persisted record of one completed exchange.
type Turn struct {
	ID              string         `json:"id"`
	PersonID        string         `json:"personId"`
	SessionID       string         `json:"sessionId"`
	UserMessage     string         `json:"userMessage"`
	AIResponse      string         `json:"aiResponse"`
	Language        string         `json:"language"`
	Timestamp       time.Time      `json:"timestamp"`
	HistorySnapshot []HistoryEntry `json:"historySnapshot"`
}

// Note is a free-text memory recorded outside a conversation.
type Note struct {
	ID        string    `json:"id"`
	PersonID  string    `json:"personId"`
	Text      string    `json:"text"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

// NewNote validates and builds a note for personID.
func NewNote(personID, text, language string, now time.Time) (Note, error) {
	text = strings.TrimSpace(text)
	language = strings.TrimSpace(language)
	switch {
	case text == "":
		return Note{}, fmt.Errorf("%w: text is required", ErrInvalidNote)
	case utf8.RuneCountInString(text) > maxNoteRunes:
		return Note{}, fmt.Errorf("%w: text exceeds %d characters", ErrInvalidNote, maxNoteRunes)
	case utf8.RuneCountInString(language) > maxLanguageRunes:
		return Note{}, fmt.Errorf("%w: language exceeds %d characters", ErrInvalidNote, maxLanguageRunes)
	}
	return Note{
		PersonID:  NormalizePersonID(personID),
		Text:      text,
		Language:  language,
		Timestamp: now,
	}, nil
}

// NormalizePersonID maps blank, "default" and "unassigned" ids onto Unassigned.
// Any other value is returned trimmed.
func NormalizePersonID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || strings.EqualFold(id, "default") || strings.EqualFold(id, Unassigned) {
		return Unassigned
	}
	return id
}

type Order int

const (
	Ascending Order = iota
	Descending
)

// Filter selects turns or notes. Empty PersonID and SessionID match everything;
// a PersonID is normalized and then matched exactly against stored ids.
// Limit <= 0 is unbounded and applies after ordering.
type Filter struct {
	PersonID  string
	SessionID string
	Limit     int
	Order     Order
}

func (f Filter) normalized() Filter {
	if strings.TrimSpace(f.PersonID) != "" {
		f.PersonID = NormalizePersonID(f.PersonID)
	}
	f.SessionID = strings.TrimSpace(f.SessionID)
	return f
}

// Store persists turns and notes.
type Store interface {
	AppendTurn(ctx context.Context, turn Turn) (Turn, error)
	QueryTurns(ctx context.Context, filter Filter) ([]Turn, error)
	AppendNote(ctx context.Context, note Note) (Note, error)
	QueryNotes(ctx context.Context, filter Filter) ([]Note, error)
	// DeletePerson removes every turn and note of personID and reports how many rows went.
	DeletePerson(ctx context.Context, personID string) (int64, error)
	Close() error
}

// prepareTurn assigns the store-owned fields and leaves everything else as given.
func prepareTurn(turn Turn, now func() time.Time, newID func() string) Turn {
	if turn.ID == "" {
		turn.ID = newID()
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = now()
	}
	return turn
}

func prepareNote(note Note, now func() time.Time, newID func() string) (Note, error) {
	if strings.TrimSpace(note.Text) == "" {
		return Note{}, fmt.Errorf("%w: text is required", ErrInvalidNote)
	}
	if note.ID == "" {
		note.ID = newID()
	}
	if note.Timestamp.IsZero() {
		note.Timestamp = now()
	}
	return note, nil
}

// zoneOffset is the UTC offset, in seconds, the SQL backends keep next to each
// timestamp so rows come back in the zone they were written in.
func zoneOffset(ts time.Time) int {
	_, offset := ts.Zone()
	return offset
}

func inZone(ts time.Time, offset int) time.Time {
	if offset == 0 {
		return ts.UTC()
	}
	return ts.In(time.FixedZone("", offset))
}
