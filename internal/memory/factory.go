package memory

import (
	"context"
	"fmt"
	"strings"
)

// NewStore picks a backend from databaseURL: empty selects the in-memory store,
// postgres:// and postgresql:// select PostgreSQL, sqlite://, file: and *.db select SQLite.
func NewStore(ctx context.Context, databaseURL string) (Store, error) {
	raw := strings.TrimSpace(databaseURL)
	lower := strings.ToLower(raw)
	switch {
	case raw == "":
		return NewInMemoryStore(), nil
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return NewPostgresStore(ctx, raw)
	case strings.HasPrefix(lower, "sqlite://"):
		return NewSQLiteStore(ctx, raw[len("sqlite://"):])
	case strings.HasPrefix(lower, "file:"), strings.HasSuffix(lower, ".db"), raw == ":memory:":
		return NewSQLiteStore(ctx, raw)
	default:
		return nil, fmt.Errorf("unsupported database url scheme in %q", redactURL(raw))
	}
}

// redactURL drops credentials from a connection string before it reaches an error message.
func redactURL(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = rest[at+1:]
	}
	return scheme + "://" + rest
}
