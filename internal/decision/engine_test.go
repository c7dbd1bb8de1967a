package decision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/weighpoint/weighpoint/internal/domain"
	"github.com/weighpoint/weighpoint/internal/geocode"
	"github.com/weighpoint/weighpoint/internal/geoindex"
	"github.com/weighpoint/weighpoint/internal/ratings"
	"github.com/weighpoint/weighpoint/internal/risk"
)

// fakeGeocoder resolves from a fixed table, keyed case-insensitively.
type fakeGeocoder map[string]geocode.Location

func (f fakeGeocoder) Resolve(ctx context.Context, place string) (geocode.Location, error) {
	loc, ok := f[strings.ToLower(strings.TrimSpace(place))]
	if !ok {
		return geocode.Location{}, fmt.Errorf("geocode %q: %w", place, geocode.ErrUnresolvable)
	}
	return loc, nil
}

func testGeocoder() fakeGeocoder {
	return fakeGeocoder{
		"ayr, ne":   {Point: domain.Point{Lat: 40.43, Lon: -98.44}, City: "Ayr", State: "NE"},
		"byron, ne": {Point: domain.Point{Lat: 40.00, Lon: -97.77}, City: "Byron", State: "NE"},
	}
}

func testIndex() *geoindex.Index {
	return geoindex.New([]domain.CatScale{
		{TruckstopName: "Hastings Travel Plaza", City: "Hastings", State: "NE",
			Location: domain.Point{Lat: 40.58, Lon: -98.39}},
		{TruckstopName: "Fairfield Fuel Stop", City: "Fairfield", State: "NE",
			Location: domain.Point{Lat: 40.43, Lon: -98.10}},
	})
}

func newEngine(t *testing.T, snapshot *ratings.Snapshot, opts Options) *Engine {
	t.Helper()
	engine, err := New(testGeocoder(), snapshot, testIndex(), opts, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return engine
}

func snapshotWithScores(routeScore, partyScore float64) *ratings.Snapshot {
	key := domain.NewRouteKey("Ayr", "NE", "Byron", "NE")
	return ratings.NewSnapshot([]domain.RiskRating{
		{SubjectType: domain.SubjectRoute, SubjectKey: key.Key(), NormalizedScore: routeScore},
		{SubjectType: domain.SubjectParty, SubjectKey: "acme freight", NormalizedScore: partyScore},
	})
}

func TestDecide_TierBoundaries(t *testing.T) {
	tests := []struct {
		score        float64
		wantTier     domain.RiskTier
		wantWeighing bool
	}{
		{0.7, domain.TierHigh, true},
		{0.69999, domain.TierMedium, true},
		{0.4, domain.TierMedium, true},
		{0.39999, domain.TierLow, false},
		{1.0, domain.TierHigh, true},
		{0.0, domain.TierLow, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score=%v", tt.score), func(t *testing.T) {
			// Equal route and party scores with 0.5/0.5 weights reproduce
			// the score exactly, so the boundary values are hit precisely.
			engine := newEngine(t, snapshotWithScores(tt.score, tt.score), DefaultOptions())

			rec, err := engine.Decide(context.Background(), "Ayr, NE", "Byron, NE", "Acme Freight")
			if err != nil {
				t.Fatalf("Decide: %v", err)
			}
			if rec.CombinedScore != tt.score {
				t.Fatalf("combined = %v, want %v", rec.CombinedScore, tt.score)
			}
			if rec.Tier != tt.wantTier {
				t.Fatalf("tier = %s, want %s", rec.Tier, tt.wantTier)
			}
			if rec.WeighingRequired != tt.wantWeighing {
				t.Fatalf("weighing = %v, want %v", rec.WeighingRequired, tt.wantWeighing)
			}
			if tt.wantWeighing && len(rec.Candidates) == 0 {
				t.Fatalf("weighing recommendations must carry scale candidates")
			}
			if !tt.wantWeighing && len(rec.Candidates) != 0 {
				t.Fatalf("low-risk recommendations must not carry candidates")
			}
		})
	}
}

func TestDecide_MissingRatingsFallBackToNeutral(t *testing.T) {
	engine := newEngine(t, ratings.NewSnapshot(nil), DefaultOptions())

	rec, err := engine.Decide(context.Background(), "Ayr, NE", "Byron, NE", "Unknown Carrier")
	if err != nil {
		t.Fatalf("absence of ratings must never fail a request: %v", err)
	}
	if rec.RouteScore != 0 || rec.PartyScore != 0 || rec.CombinedScore != 0 {
		t.Fatalf("neutral defaults expected: %+v", rec)
	}
	if rec.Tier != domain.TierLow || rec.WeighingRequired {
		t.Fatalf("neutral score must classify LOW: %+v", rec)
	}
}

func TestDecide_RouteOnlySignal(t *testing.T) {
	// Route 1.0, unknown party 0.0, weights 0.5/0.5: the §-scenario midpoint.
	engine := newEngine(t, snapshotWithScores(1.0, 0.9), DefaultOptions())

	rec, err := engine.Decide(context.Background(), "Ayr, NE", "Byron, NE", "Unknown Carrier")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if rec.CombinedScore != 0.5 {
		t.Fatalf("combined = %v, want 0.5", rec.CombinedScore)
	}
	if rec.Tier != domain.TierMedium || !rec.WeighingRequired {
		t.Fatalf("0.5 must be MEDIUM with weighing required: %+v", rec)
	}
	if len(rec.Candidates) == 0 {
		t.Fatalf("candidates must be populated from the index")
	}
}

func TestDecide_GeocodeFailurePropagates(t *testing.T) {
	engine := newEngine(t, ratings.NewSnapshot(nil), DefaultOptions())

	_, err := engine.Decide(context.Background(), "Atlantis", "Byron, NE", "Acme Freight")
	if !errors.Is(err, geocode.ErrUnresolvable) {
		t.Fatalf("ship-from geocode failure must propagate: %v", err)
	}

	_, err = engine.Decide(context.Background(), "Ayr, NE", "Atlantis", "Acme Freight")
	if !errors.Is(err, geocode.ErrUnresolvable) {
		t.Fatalf("ship-to geocode failure must propagate: %v", err)
	}
}

func TestDecide_CandidateOrderingAndCosts(t *testing.T) {
	engine := newEngine(t, snapshotWithScores(1.0, 1.0), DefaultOptions())

	rec, err := engine.Decide(context.Background(), "Ayr, NE", "Byron, NE", "Acme Freight")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if len(rec.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(rec.Candidates))
	}
	if rec.Candidates[0].DistanceMiles > rec.Candidates[1].DistanceMiles {
		t.Fatalf("candidates must be ordered by proximity: %+v", rec.Candidates)
	}
	for _, c := range rec.Candidates {
		if c.DetourMiles < 0 {
			t.Fatalf("detour miles must not be negative: %+v", c)
		}
		if c.DetourCost < DefaultOptions().ScaleFee {
			t.Fatalf("detour cost must include the weigh fee: %+v", c)
		}
	}
	if rec.RouteMiles <= 0 {
		t.Fatalf("direct route distance must be positive")
	}
}

func TestDecide_EndToEndFromAggregation(t *testing.T) {
	// Aggregate a claim history, serve it through a snapshot, then decide.
	claims := make([]domain.ClaimRecord, 0, 11)
	for i := 0; i < 10; i++ {
		claims = append(claims, domain.ClaimRecord{
			ShipFromCity: "Ayr", ShipFromState: "NE",
			ShipToCity: "Byron", ShipToState: "NE",
			LiableParty: "Acme Freight", Incident: true, Penalty: "5000",
		})
	}
	claims = append(claims, domain.ClaimRecord{
		ShipFromCity: "Cairo", ShipFromState: "NE",
		ShipToCity: "Davey", ShipToState: "NE",
		LiableParty: "Borealis Haul", Incident: true, Penalty: "500",
	})

	result, err := risk.Aggregate(claims, risk.Options{IncidentWeight: 1.0, PenaltyWeight: 0.0001})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	engine := newEngine(t, ratings.NewSnapshot(append(result.Routes, result.Parties...)), DefaultOptions())

	rec, err := engine.Decide(context.Background(), "Ayr, NE", "Byron, NE", "Unknown Party")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if rec.RouteScore != 1.0 {
		t.Fatalf("hot route must normalize to 1.0: %+v", rec)
	}
	if rec.CombinedScore != 0.5 {
		t.Fatalf("combined = %v, want 0.5 (route 1.0, unknown party 0.0)", rec.CombinedScore)
	}
	if rec.Tier != domain.TierMedium || !rec.WeighingRequired {
		t.Fatalf("want MEDIUM with weighing required: %+v", rec)
	}
	if len(rec.Candidates) == 0 {
		t.Fatalf("candidate scales must be populated")
	}
}

func TestNew_ValidatesPolicy(t *testing.T) {
	bad := []Options{
		func() Options { o := DefaultOptions(); o.RouteWeight, o.PartyWeight = 0.6, 0.6; return o }(),
		func() Options { o := DefaultOptions(); o.RouteWeight = -0.1; o.PartyWeight = 1.1; return o }(),
		func() Options { o := DefaultOptions(); o.MediumThreshold = 0.8; return o }(),
		func() Options { o := DefaultOptions(); o.ResultLimit = 0; return o }(),
		func() Options { o := DefaultOptions(); o.AverageSpeedMPH = 0; return o }(),
	}
	for i, opts := range bad {
		if _, err := New(testGeocoder(), ratings.NewSnapshot(nil), testIndex(), opts, nil); err == nil {
			t.Fatalf("case %d: expected policy validation error", i)
		}
	}
}
