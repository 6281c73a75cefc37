package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists turns and notes in a local SQLite file. Timestamps are
// stored as unix nanoseconds plus the writer's UTC offset, so ordering is numeric
// and rows read back in their original zone.
type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

type sqliteTurnRow struct {
	ID          string `db:"id"`
	PersonID    string `db:"person_id"`
	SessionID   string `db:"session_id"`
	UserMessage string `db:"user_message"`
	AIResponse  string `db:"ai_response"`
	Language    string `db:"language"`
	TS          int64  `db:"ts"`
	TSOffset    int    `db:"ts_offset"`
	History     string `db:"history"`
}

type sqliteNoteRow struct {
	ID       string `db:"id"`
	PersonID string `db:"person_id"`
	Text     string `db:"text"`
	Language string `db:"language"`
	TS       int64  `db:"ts"`
	TSOffset int    `db:"ts_offset"`
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise open its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS turns (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			person_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			user_message TEXT NOT NULL,
			ai_response TEXT NOT NULL,
			language TEXT NOT NULL,
			ts INTEGER NOT NULL,
			ts_offset INTEGER NOT NULL DEFAULT 0,
			history TEXT NOT NULL DEFAULT '[]'
		);
		CREATE INDEX IF NOT EXISTS idx_turns_person_ts ON turns(person_id, ts);
		CREATE INDEX IF NOT EXISTS idx_turns_session_ts ON turns(session_id, ts);

		CREATE TABLE IF NOT EXISTS notes (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			person_id TEXT NOT NULL,
			text TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT '',
			ts INTEGER NOT NULL,
			ts_offset INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_notes_person_ts ON notes(person_id, ts);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) AppendTurn(ctx context.Context, turn Turn) (Turn, error) {
	turn = prepareTurn(turn, s.now, uuid.NewString)
	history, err := json.Marshal(turn.HistorySnapshot)
	if err != nil {
		return Turn{}, fmt.Errorf("encode history: %w", err)
	}
	row := sqliteTurnRow{
		ID:          turn.ID,
		PersonID:    turn.PersonID,
		SessionID:   turn.SessionID,
		UserMessage: turn.UserMessage,
		AIResponse:  turn.AIResponse,
		Language:    turn.Language,
		TS:          turn.Timestamp.UnixNano(),
		TSOffset:    zoneOffset(turn.Timestamp),
		History:     string(history),
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO turns (id, person_id, session_id, user_message, ai_response, language, ts, ts_offset, history)
		VALUES (:id, :person_id, :session_id, :user_message, :ai_response, :language, :ts, :ts_offset, :history)
	`, row)
	if err != nil {
		return Turn{}, fmt.Errorf("append turn: %w", err)
	}
	return turn, nil
}

func (s *SQLiteStore) QueryTurns(ctx context.Context, filter Filter) ([]Turn, error) {
	query, args := selectQuery(sqlx.QUESTION, turnColumns, "turns", filter.normalized(), true)
	var rows []sqliteTurnRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}

	out := make([]Turn, 0, len(rows))
	for _, r := range rows {
		t := Turn{
			ID:          r.ID,
			PersonID:    r.PersonID,
			SessionID:   r.SessionID,
			UserMessage: r.UserMessage,
			AIResponse:  r.AIResponse,
			Language:    r.Language,
			Timestamp:   inZone(time.Unix(0, r.TS), r.TSOffset),
		}
		if err := decodeHistory([]byte(r.History), &t.HistorySnapshot); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *SQLiteStore) AppendNote(ctx context.Context, note Note) (Note, error) {
	note, err := prepareNote(note, s.now, uuid.NewString)
	if err != nil {
		return Note{}, err
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO notes (id, person_id, text, language, ts, ts_offset)
		VALUES (:id, :person_id, :text, :language, :ts, :ts_offset)
	`, sqliteNoteRow{
		ID:       note.ID,
		PersonID: note.PersonID,
		Text:     note.Text,
		Language: note.Language,
		TS:       note.Timestamp.UnixNano(),
		TSOffset: zoneOffset(note.Timestamp),
	})
	if err != nil {
		return Note{}, fmt.Errorf("append note: %w", err)
	}
	return note, nil
}

func (s *SQLiteStore) QueryNotes(ctx context.Context, filter Filter) ([]Note, error) {
	query, args := selectQuery(sqlx.QUESTION, noteColumns, "notes", filter.normalized(), false)
	var rows []sqliteNoteRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}

	out := make([]Note, 0, len(rows))
	for _, r := range rows {
		out = append(out, Note{
			ID:        r.ID,
			PersonID:  r.PersonID,
			Text:      r.Text,
			Language:  r.Language,
			Timestamp: inZone(time.Unix(0, r.TS), r.TSOffset),
		})
	}
	return out, nil
}

func (s *SQLiteStore) DeletePerson(ctx context.Context, personID string) (int64, error) {
	id := NormalizePersonID(personID)
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var total int64
	for _, stmt := range []string{`DELETE FROM turns WHERE person_id = ?`, `DELETE FROM notes WHERE person_id = ?`} {
		res, err := tx.ExecContext(ctx, stmt, id)
		if err != nil {
			return 0, fmt.Errorf("delete person rows: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("delete person rows: %w", err)
		}
		total += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete: %w", err)
	}
	return total, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
