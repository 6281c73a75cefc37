package policy

import "regexp"

// rule replaces every match of pattern with marker. Rules run in order.
type rule struct {
	pattern *regexp.Regexp
	marker  string
}

// Redactor masks personal identifiers before text leaves the process.
type Redactor struct {
	rules []rule
}

// NewRedactor returns a Redactor for e-mail addresses, card numbers, national
// identity numbers (CNIC) and phone numbers.
func NewRedactor() *Redactor {
	return &Redactor{rules: []rule{
		{regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`), "[REDACTED_EMAIL]"},
		// Identity and card numbers run before phone so long digit runs keep their kind.
		{regexp.MustCompile(`\b\d{5}-\d{7}-\d\b`), "[REDACTED_ID]"},
		{regexp.MustCompile(`\b(?:\d[ -]*?){13,19}\b`), "[REDACTED_CARD]"},
		{regexp.MustCompile(`\+?[0-9][0-9\-() ]{7,}[0-9]`), "[REDACTED_PHONE]"},
	}}
}

// Redact masks identifiers in input and reports whether anything changed.
func (r *Redactor) Redact(input string) (redacted string, changed bool) {
	out := input
	for _, rl := range r.rules {
		next := rl.pattern.ReplaceAllString(out, rl.marker)
		changed = changed || next != out
		out = next
	}
	return out, changed
}

// RedactAll masks each of texts and reports whether any changed.
func (r *Redactor) RedactAll(texts ...string) ([]string, bool) {
	out := make([]string, len(texts))
	changedAny := false
	for i, t := range texts {
		var changed bool
		out[i], changed = r.Redact(t)
		changedAny = changedAny || changed
	}
	return out, changedAny
}
