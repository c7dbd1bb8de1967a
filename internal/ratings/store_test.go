package ratings

import (
	"testing"

	"github.com/weighpoint/weighpoint/internal/domain"
)

func TestSnapshotLookups(t *testing.T) {
	key := domain.NewRouteKey("Chicago", "IL", "Dallas", "TX")
	snapshot := NewSnapshot([]domain.RiskRating{
		{SubjectType: domain.SubjectRoute, SubjectKey: key.Key(), NormalizedScore: 0.8},
		{SubjectType: domain.SubjectParty, SubjectKey: "acme freight", NormalizedScore: 0.3},
	})

	if snapshot.Len() != 2 {
		t.Fatalf("Len = %d, want 2", snapshot.Len())
	}

	r, ok := snapshot.LookupRoute(key)
	if !ok || r.NormalizedScore != 0.8 {
		t.Fatalf("route lookup = %+v, %v", r, ok)
	}

	// Lookups normalize their input: case and whitespace variants match.
	variant := domain.NewRouteKey(" CHICAGO ", "il", "dallas", "tx")
	if _, ok := snapshot.LookupRoute(variant); !ok {
		t.Fatalf("normalized route variant should match")
	}

	p, ok := snapshot.LookupParty("  ACME Freight ")
	if !ok || p.NormalizedScore != 0.3 {
		t.Fatalf("party lookup = %+v, %v", p, ok)
	}

	if _, ok := snapshot.LookupParty("Unknown Carrier"); ok {
		t.Fatalf("missing party must report not-found, not an error")
	}
	if _, ok := snapshot.LookupRoute(domain.NewRouteKey("a", "b", "c", "d")); ok {
		t.Fatalf("missing route must report not-found")
	}
}

func TestSnapshotIgnoresUnknownSubjectTypes(t *testing.T) {
	snapshot := NewSnapshot([]domain.RiskRating{
		{SubjectType: "bogus", SubjectKey: "x", NormalizedScore: 1},
	})
	if snapshot.Len() != 0 {
		t.Fatalf("unknown subject types must not be indexed")
	}
}
