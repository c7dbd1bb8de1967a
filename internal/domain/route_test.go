package domain

import "testing"

func TestNormalizePlace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Chicago", "chicago"},
		{"trims and lowercases", "  Poplar Bluff ", "poplar bluff"},
		{"strips punctuation", "St. Louis", "st louis"},
		{"collapses whitespace", "Salt   Lake\tCity", "salt lake city"},
		{"hyphen is a word break", "Winston-Salem", "winston salem"},
		{"apostrophe dropped in place", "O'Fallon", "ofallon"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePlace(tt.in); got != tt.want {
				t.Fatalf("NormalizePlace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRouteKeyEquality(t *testing.T) {
	a := NewRouteKey(" CHICAGO ", "il", "St. Louis", "MO")
	b := NewRouteKey("Chicago", "IL", "st louis", "mo")
	if a != b {
		t.Fatalf("route keys should be equal: %+v vs %+v", a, b)
	}
	if a.Key() != b.Key() {
		t.Fatalf("Key() mismatch: %q vs %q", a.Key(), b.Key())
	}

	c := NewRouteKey("Chicago", "IL", "Saint Louis", "MO")
	if a == c {
		t.Fatalf("different city spellings must not fuzzy-match")
	}
}

func FuzzNormalizePlace(f *testing.F) {
	seeds := []string{"Chicago", " St. Louis ", "Winston-Salem", "", "  ", "#!?", "A  B\tC"}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, in string) {
		out := NormalizePlace(in)
		// Normalization is idempotent.
		if again := NormalizePlace(out); again != out {
			t.Fatalf("not idempotent: %q -> %q -> %q", in, out, again)
		}
		if len(out) > 0 && (out[0] == ' ' || out[len(out)-1] == ' ') {
			t.Fatalf("output not trimmed: %q", out)
		}
	})
}
