package memory

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// selectQuery renders a filtered, ordered select using "?" placeholders, rebound
// to the bind style of the target driver.
func selectQuery(bind int, columns, table string, f Filter, bySession bool) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.PersonID != "" {
		where = append(where, "person_id = ?")
		args = append(args, f.PersonID)
	}
	if bySession && f.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, f.SessionID)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(columns)
	b.WriteString(" FROM ")
	b.WriteString(table)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	if f.Order == Descending {
		b.WriteString(" ORDER BY ts DESC, seq DESC")
	} else {
		b.WriteString(" ORDER BY ts ASC, seq ASC")
	}
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}
	return sqlx.Rebind(bind, b.String()), args
}
