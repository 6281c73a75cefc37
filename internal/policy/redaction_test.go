package policy

import (
	"strings"
	"testing"
)

func TestRedact(t *testing.T) {
	input := "Email me at nani@example.com or +92 (300) 123-9876 and use 4242 4242 4242 4242."
	out, changed := NewRedactor().Redact(input)
	if !changed {
		t.Fatalf("changed = false, want true")
	}
	for _, marker := range []string{"[REDACTED_EMAIL]", "[REDACTED_PHONE]", "[REDACTED_CARD]"} {
		if !strings.Contains(out, marker) {
			t.Fatalf("output missing marker %q: %q", marker, out)
		}
	}
}

func TestRedactNationalID(t *testing.T) {
	out, changed := NewRedactor().Redact("My CNIC is 35202-1234567-1.")
	if !changed || !strings.Contains(out, "[REDACTED_ID]") {
		t.Fatalf("Redact() = %q, %v; want national id masked", out, changed)
	}
}

func TestRedactLeavesStoriesAlone(t *testing.T) {
	in := "I was born in 1952 and married in 1975."
	out, changed := NewRedactor().Redact(in)
	if changed || out != in {
		t.Fatalf("Redact(%q) = %q, %v; want unchanged", in, out, changed)
	}
}

func TestRedactAll(t *testing.T) {
	out, changed := NewRedactor().RedactAll("plain", "write to a@b.io")
	if !changed {
		t.Fatalf("changed = false, want true")
	}
	if out[0] != "plain" || out[1] != "write to [REDACTED_EMAIL]" {
		t.Fatalf("RedactAll() = %q", out)
	}
}
