package lang

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want Code
	}{
		{"", English},
		{"en", English},
		{"en-US", English},
		{"English", English},
		{"ur", Urdu},
		{"ur-PK", Urdu},
		{"urdu", Urdu},
		{"not a tag!!", English},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in, English); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeUsesFallbackForUnknown(t *testing.T) {
	if got := Normalize("???", Urdu); got != Urdu {
		t.Fatalf("Normalize() = %q, want %q", got, Urdu)
	}
}

func TestMatcherCoversOverlayLanguages(t *testing.T) {
	m := NewMatcher([]Code{English, Urdu, Code("es")})
	if got := m.Normalize("es-MX", English); got != Code("es") {
		t.Fatalf("Normalize(es-MX) = %q, want es", got)
	}
	if got := m.Normalize("urdu", English); got != Urdu {
		t.Fatalf("Normalize(urdu) = %q, want %q", got, Urdu)
	}
	if got := m.Normalize("de", Urdu); got != Urdu {
		t.Fatalf("Normalize(de) = %q, want %q", got, Urdu)
	}
}
