package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/ent0n29/memoir/internal/reliability"
)

const (
	pingAttempts    = 5
	pingBackoffBase = 200 * time.Millisecond
	pingBackoffCap  = 3 * time.Second

	turnColumns = "id, person_id, session_id, user_message, ai_response, language, ts, ts_offset, history"
	noteColumns = "id, person_id, text, language, ts, ts_offset"
)

// PostgresStore persists turns and notes in PostgreSQL. TIMESTAMPTZ keeps
// microseconds, so finer precision is dropped; the UTC offset is kept in ts_offset.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pingWithBackoff(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool, now: time.Now}, nil
}

func pingWithBackoff(ctx context.Context, pool *pgxpool.Pool) error {
	var err error
	for attempt := 0; attempt < pingAttempts; attempt++ {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("ping postgres: %w", ctx.Err())
		case <-time.After(reliability.ExponentialBackoff(attempt, pingBackoffBase, pingBackoffCap)):
		}
	}
	return fmt.Errorf("ping postgres after %d attempts: %w", pingAttempts, err)
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS turns (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			person_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			user_message TEXT NOT NULL,
			ai_response TEXT NOT NULL,
			language TEXT NOT NULL,
			ts TIMESTAMPTZ NOT NULL DEFAULT now(),
			history JSONB NOT NULL DEFAULT '[]'::jsonb
		);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_person_ts ON turns (person_id, ts);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_session_ts ON turns (session_id, ts);`,
		`CREATE TABLE IF NOT EXISTS notes (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			person_id TEXT NOT NULL,
			text TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT '',
			ts TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_notes_person_ts ON notes (person_id, ts);`,
		`ALTER TABLE turns ADD COLUMN IF NOT EXISTS ts_offset INTEGER NOT NULL DEFAULT 0;`,
		`ALTER TABLE notes ADD COLUMN IF NOT EXISTS ts_offset INTEGER NOT NULL DEFAULT 0;`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) AppendTurn(ctx context.Context, turn Turn) (Turn, error) {
	turn = prepareTurn(turn, s.now, uuid.NewString)
	history, err := json.Marshal(turn.HistorySnapshot)
	if err != nil {
		return Turn{}, fmt.Errorf("encode history: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO turns (id, person_id, session_id, user_message, ai_response, language, ts, ts_offset, history)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		turn.ID,
		turn.PersonID,
		turn.SessionID,
		turn.UserMessage,
		turn.AIResponse,
		turn.Language,
		turn.Timestamp,
		zoneOffset(turn.Timestamp),
		history,
	)
	if err != nil {
		return Turn{}, fmt.Errorf("append turn: %w", err)
	}
	return turn, nil
}

func (s *PostgresStore) QueryTurns(ctx context.Context, filter Filter) ([]Turn, error) {
	query, args := selectQuery(sqlx.DOLLAR, turnColumns, "turns", filter.normalized(), true)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var items []Turn
	for rows.Next() {
		var (
			t       Turn
			offset  int
			history []byte
		)
		if err := rows.Scan(&t.ID, &t.PersonID, &t.SessionID, &t.UserMessage, &t.AIResponse, &t.Language, &t.Timestamp, &offset, &history); err != nil {
			return nil, fmt.Errorf("scan turn row: %w", err)
		}
		if err := decodeHistory(history, &t.HistorySnapshot); err != nil {
			return nil, err
		}
		t.Timestamp = inZone(t.Timestamp, offset)
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turn rows: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) AppendNote(ctx context.Context, note Note) (Note, error) {
	note, err := prepareNote(note, s.now, uuid.NewString)
	if err != nil {
		return Note{}, err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO notes (id, person_id, text, language, ts, ts_offset) VALUES ($1, $2, $3, $4, $5, $6)`,
		note.ID, note.PersonID, note.Text, note.Language, note.Timestamp, zoneOffset(note.Timestamp),
	)
	if err != nil {
		return Note{}, fmt.Errorf("append note: %w", err)
	}
	return note, nil
}

func (s *PostgresStore) QueryNotes(ctx context.Context, filter Filter) ([]Note, error) {
	query, args := selectQuery(sqlx.DOLLAR, noteColumns, "notes", filter.normalized(), false)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var items []Note
	for rows.Next() {
		var (
			n      Note
			offset int
		)
		if err := rows.Scan(&n.ID, &n.PersonID, &n.Text, &n.Language, &n.Timestamp, &offset); err != nil {
			return nil, fmt.Errorf("scan note row: %w", err)
		}
		n.Timestamp = inZone(n.Timestamp, offset)
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate note rows: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) DeletePerson(ctx context.Context, personID string) (int64, error) {
	id := NormalizePersonID(personID)
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	turns, err := tx.Exec(ctx, `DELETE FROM turns WHERE person_id=$1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete turns: %w", err)
	}
	notes, err := tx.Exec(ctx, `DELETE FROM notes WHERE person_id=$1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete notes: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit delete: %w", err)
	}
	return turns.RowsAffected() + notes.RowsAffected(), nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func decodeHistory(raw []byte, out *[]HistoryEntry) error {
	*out = []HistoryEntry{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode history: %w", err)
	}
	return nil
}
