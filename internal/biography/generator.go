package biography

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var errMalformed = errors.New("generator output is not a usable biography")

const promptHeader = `You are a biographer. Write a warm, respectful life story from the first-person memories below.
Use only facts present in the memories. Refer to the person in the third person.
Answer with a single JSON object and nothing else, shaped like:
{"title": "...", "sections": {"introduction": "...", "earlyLife": "...", "personality": "...",
"lifeJourney": "...", "relationships": "...", "values": "...", "stories": "...", "themes": "...",
"conclusion": "...", "summary": "..."}, "topics": ["..."], "personalityTraits": ["..."],
"lifeEvents": [{"year": 1975, "description": "..."}], "relationships": ["..."], "values": ["..."]}

Memories, oldest first:
`

// buildPrompt renders entries newest-kept within maxChars. Older entries that do
// not fit are dropped and counted in a trailing note.
func buildPrompt(entries []Entry, maxChars int) string {
	var lines []string
	used := utf8.RuneCountInString(promptHeader)
	kept := 0
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		line := fmt.Sprintf("[%s %s] %s", e.Timestamp.UTC().Format("2006-01-02"), e.Kind, strings.TrimSpace(e.Text))
		n := utf8.RuneCountInString(line) + 1
		if maxChars > 0 && used+n > maxChars && kept > 0 {
			break
		}
		used += n
		kept++
		lines = append(lines, line)
	}
	// Collected newest first.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}

	var b strings.Builder
	b.WriteString(promptHeader)
	if omitted := len(entries) - kept; omitted > 0 {
		fmt.Fprintf(&b, "(%d older memories omitted for length)\n", omitted)
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// parseGenerated pulls a Document out of raw generator output. The JSON may be
// wrapped in a fenced block or surrounded by prose.
func parseGenerated(raw string) (Document, error) {
	body := strings.TrimSpace(raw)
	if i := strings.Index(body, "```"); i >= 0 {
		rest := body[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			body = strings.TrimSpace(rest[:j])
		}
	}
	start, end := strings.Index(body, "{"), strings.LastIndex(body, "}")
	if start < 0 || end <= start {
		return Document{}, errMalformed
	}

	var doc Document
	if err := json.Unmarshal([]byte(body[start:end+1]), &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if strings.TrimSpace(doc.Title) == "" ||
		strings.TrimSpace(doc.Sections.Introduction) == "" ||
		strings.TrimSpace(doc.Sections.Conclusion) == "" {
		return Document{}, errMalformed
	}
	return doc, nil
}
