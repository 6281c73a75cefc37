package biography

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a person has neither turns nor notes.
	ErrNotFound = errors.New("no turns or notes for person")
	// ErrInvalidInput is returned when a report is requested without a person id.
	ErrInvalidInput = errors.New("person id is required")
)

const (
	SourceGenerated = "generated"
	SourceAssembled = "assembled"
)

// EntryKind tells where a merged entry came from.
type EntryKind string

const (
	KindTurn EntryKind = "turn"
	KindNote EntryKind = "note"
)

// Entry is one piece of first-person text in the merged timeline.
type Entry struct {
	Kind      EntryKind `json:"kind"`
	Text      string    `json:"text"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

type LifeEvent struct {
	Year        int    `json:"year,omitempty"`
	Description string `json:"description"`
	Keyword     string `json:"keyword,omitempty"`
}

type Story struct {
	Text      string    `json:"text"`
	Kind      EntryKind `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// Sections holds the narrative prose of a biography. Every field is non-empty
// in a synthesized Document.
type Sections struct {
	Introduction  string `json:"introduction"`
	EarlyLife     string `json:"earlyLife"`
	Personality   string `json:"personality"`
	LifeJourney   string `json:"lifeJourney"`
	Relationships string `json:"relationships"`
	Values        string `json:"values"`
	Stories       string `json:"stories"`
	Themes        string `json:"themes"`
	Conclusion    string `json:"conclusion"`
	Summary       string `json:"summary"`
}

// Document is a synthesized biography. It is built fresh per request and never stored.
type Document struct {
	PersonID          string      `json:"personId"`
	Title             string      `json:"title"`
	Sections          Sections    `json:"sections"`
	Topics            []string    `json:"topics"`
	PersonalityTraits []string    `json:"personalityTraits"`
	LifeEvents        []LifeEvent `json:"lifeEvents"`
	Relationships     []string    `json:"relationships"`
	Values            []string    `json:"values"`
	Stories           []Story     `json:"stories"`
	// Source is SourceGenerated when the long-form generator wrote the prose.
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type Stats struct {
	TurnCount  int       `json:"turnCount"`
	NoteCount  int       `json:"noteCount"`
	FirstEntry time.Time `json:"firstEntry"`
	LastEntry  time.Time `json:"lastEntry"`
}

// Report is a biography plus the counts it was built from.
type Report struct {
	Biography Document `json:"biography"`
	Stats     Stats    `json:"stats"`
}
