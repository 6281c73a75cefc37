package biography

import (
	"slices"
	"strings"

	"github.com/ent0n29/memoir/internal/memory"
)

// MergeEntries combines the user side of turns with notes into one timeline,
// oldest first. Entries with equal timestamps keep turns before notes, each in
// input order. Blank texts are dropped.
func MergeEntries(turns []memory.Turn, notes []memory.Note) []Entry {
	out := make([]Entry, 0, len(turns)+len(notes))
	for _, t := range turns {
		if strings.TrimSpace(t.UserMessage) == "" {
			continue
		}
		out = append(out, Entry{Kind: KindTurn, Text: t.UserMessage, Language: t.Language, Timestamp: t.Timestamp})
	}
	for _, n := range notes {
		if strings.TrimSpace(n.Text) == "" {
			continue
		}
		out = append(out, Entry{Kind: KindNote, Text: n.Text, Language: n.Language, Timestamp: n.Timestamp})
	}
	slices.SortStableFunc(out, func(a, b Entry) int { return a.Timestamp.Compare(b.Timestamp) })
	return out
}
