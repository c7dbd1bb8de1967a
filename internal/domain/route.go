package domain

import "strings"

// RouteKey identifies a shipment lane at city/state granularity. Two
// geocodes that resolve to the same city and state are the same route.
type RouteKey struct {
	FromCity  string
	FromState string
	ToCity    string
	ToState   string
}

// NewRouteKey builds a normalized route key from raw place fields.
func NewRouteKey(fromCity, fromState, toCity, toState string) RouteKey {
	return RouteKey{
		FromCity:  NormalizePlace(fromCity),
		FromState: NormalizePlace(fromState),
		ToCity:    NormalizePlace(toCity),
		ToState:   NormalizePlace(toState),
	}
}

// Key renders the canonical lookup string for this route. It doubles as the
// grouping key during aggregation and the subject key in the ratings table.
func (k RouteKey) Key() string {
	return k.FromCity + "," + k.FromState + "->" + k.ToCity + "," + k.ToState
}

// String renders a human-readable form for logs and responses.
func (k RouteKey) String() string {
	return k.FromCity + ", " + k.FromState + " -> " + k.ToCity + ", " + k.ToState
}

// NormalizePlace canonicalizes a city or state name: lowercase, trimmed,
// punctuation stripped, internal whitespace collapsed to single spaces.
// Equality of normalized forms is the route-matching contract; typo or
// alias matching is deliberately not attempted.
func NormalizePlace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '-', r == '_':
			pendingSpace = true
		default:
			// Punctuation (periods in "St. Louis", apostrophes, commas)
			// is dropped without introducing a word break.
		}
	}
	return b.String()
}

// NormalizeParty canonicalizes a liable-party name the same way route
// places are canonicalized.
func NormalizeParty(name string) string {
	return NormalizePlace(name)
}
