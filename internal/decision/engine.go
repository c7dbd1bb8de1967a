// Package decision combines route and liable-party risk signals with route
// geometry into a single weigh-or-skip recommendation.
package decision

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/weighpoint/weighpoint/internal/domain"
	"github.com/weighpoint/weighpoint/internal/geocode"
	"github.com/weighpoint/weighpoint/internal/geoindex"
	"github.com/weighpoint/weighpoint/internal/ratings"
)

// Options is the decision policy: signal weights, tier thresholds, scale
// search parameters and the detour cost model. All of it is configuration;
// none of it is hardcoded in the decision logic.
type Options struct {
	RouteWeight     float64
	PartyWeight     float64
	MediumThreshold float64
	HighThreshold   float64

	SearchRadiusMiles float64
	ResultLimit       int

	// Detour cost model, applied per candidate scale.
	ScaleFee          float64
	DriverCostPerHour float64
	PerMileCost       float64
	AverageSpeedMPH   float64
}

// DefaultOptions returns the production decision policy.
func DefaultOptions() Options {
	return Options{
		RouteWeight:       0.5,
		PartyWeight:       0.5,
		MediumThreshold:   0.4,
		HighThreshold:     0.7,
		SearchRadiusMiles: 100,
		ResultLimit:       5,
		ScaleFee:          14.0,
		DriverCostPerHour: 30.0,
		PerMileCost:       2.0,
		AverageSpeedMPH:   50.0,
	}
}

func (o Options) validate() error {
	if o.RouteWeight < 0 || o.PartyWeight < 0 {
		return fmt.Errorf("decision: signal weights must be non-negative")
	}
	if math.Abs(o.RouteWeight+o.PartyWeight-1.0) > 1e-9 {
		return fmt.Errorf("decision: route and party weights must sum to 1.0, got %v",
			o.RouteWeight+o.PartyWeight)
	}
	if o.MediumThreshold < 0 || o.HighThreshold > 1 || o.MediumThreshold >= o.HighThreshold {
		return fmt.Errorf("decision: thresholds must satisfy 0 <= medium < high <= 1, got %v/%v",
			o.MediumThreshold, o.HighThreshold)
	}
	if o.ResultLimit <= 0 {
		return fmt.Errorf("decision: result limit must be positive")
	}
	if o.AverageSpeedMPH <= 0 {
		return fmt.Errorf("decision: average speed must be positive")
	}
	return nil
}

// Engine is the synchronous recommendation pipeline. It holds no mutable
// state: the snapshot and index are startup-time immutables, so concurrent
// Decide calls are independent.
type Engine struct {
	geocoder geocode.Client
	snapshot *ratings.Snapshot
	index    *geoindex.Index
	opts     Options
	logger   *log.Logger
}

// New constructs an Engine, validating the decision policy up front.
func New(geocoder geocode.Client, snapshot *ratings.Snapshot, index *geoindex.Index, opts Options, logger *log.Logger) (*Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		geocoder: geocoder,
		snapshot: snapshot,
		index:    index,
		opts:     opts,
		logger:   logger,
	}, nil
}

// Decide produces a recommendation for one shipment. Both endpoints must
// geocode; either failure fails the request (no partial recommendation).
// Missing route or party ratings fall back to a neutral 0.0 score.
func (e *Engine) Decide(ctx context.Context, shipFrom, shipTo, liableParty string) (domain.Recommendation, error) {
	from, err := e.geocoder.Resolve(ctx, shipFrom)
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("resolve ship-from %q: %w", shipFrom, err)
	}
	to, err := e.geocoder.Resolve(ctx, shipTo)
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("resolve ship-to %q: %w", shipTo, err)
	}

	key := domain.NewRouteKey(from.City, from.State, to.City, to.State)

	routeScore := 0.0
	if r, ok := e.snapshot.LookupRoute(key); ok {
		routeScore = r.NormalizedScore
	}
	partyScore := 0.0
	if r, ok := e.snapshot.LookupParty(liableParty); ok {
		partyScore = r.NormalizedScore
	}

	combined := e.opts.RouteWeight*routeScore + e.opts.PartyWeight*partyScore
	tier := e.classify(combined)

	rec := domain.Recommendation{
		Route:            key,
		RouteScore:       routeScore,
		PartyScore:       partyScore,
		CombinedScore:    combined,
		Tier:             tier,
		WeighingRequired: tier != domain.TierLow,
		Reason:           reasonFor(tier),
		RouteMiles:       geoindex.Haversine(from.Point, to.Point),
	}

	if rec.WeighingRequired {
		nearest := e.index.Nearest(from.Point, e.opts.ResultLimit, e.opts.SearchRadiusMiles)
		rec.Candidates = e.costCandidates(from.Point, to.Point, rec.RouteMiles, nearest)
		if len(rec.Candidates) == 0 {
			e.logger.Printf("decision: no scale within %.0f miles of %s", e.opts.SearchRadiusMiles, key)
		}
	}
	return rec, nil
}

// classify maps a combined score onto a tier. Boundary inclusivity (>=) is
// a fixed external contract.
func (e *Engine) classify(score float64) domain.RiskTier {
	switch {
	case score >= e.opts.HighThreshold:
		return domain.TierHigh
	case score >= e.opts.MediumThreshold:
		return domain.TierMedium
	default:
		return domain.TierLow
	}
}

func reasonFor(tier domain.RiskTier) string {
	switch tier {
	case domain.TierHigh:
		return "high risk route and/or liable party history"
	case domain.TierMedium:
		return "moderate risk from route and liable party history"
	default:
		return "low risk route and liable party history"
	}
}

// costCandidates annotates nearest-scale results with the detour cost model:
// extra miles through the scale versus the direct route, converted to driver
// time, mileage and the fixed weigh fee.
func (e *Engine) costCandidates(from, to domain.Point, directMiles float64, nearest []geoindex.Candidate) []domain.ScaleCandidate {
	out := make([]domain.ScaleCandidate, 0, len(nearest))
	for _, c := range nearest {
		detour := geoindex.Haversine(from, c.Scale.Location) +
			geoindex.Haversine(c.Scale.Location, to) - directMiles
		if detour < 0 {
			detour = 0
		}
		cost := (detour/e.opts.AverageSpeedMPH)*e.opts.DriverCostPerHour +
			detour*e.opts.PerMileCost + e.opts.ScaleFee
		out = append(out, domain.ScaleCandidate{
			Scale:         c.Scale,
			DistanceMiles: c.DistanceMiles,
			DetourMiles:   detour,
			DetourCost:    cost,
		})
	}
	return out
}
