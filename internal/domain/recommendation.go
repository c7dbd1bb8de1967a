package domain

// RiskTier classifies a combined risk score.
type RiskTier string

const (
	TierLow    RiskTier = "LOW"
	TierMedium RiskTier = "MEDIUM"
	TierHigh   RiskTier = "HIGH"
)

// ScaleCandidate is one weigh-station option for a recommendation, with its
// straight-line distance from the shipment origin and the estimated cost of
// detouring through it.
type ScaleCandidate struct {
	Scale         CatScale
	DistanceMiles float64
	DetourMiles   float64
	DetourCost    float64
}

// Recommendation is the per-request decision output. It is ephemeral:
// constructed for a single request and never persisted.
type Recommendation struct {
	Route            RouteKey
	RouteScore       float64
	PartyScore       float64
	CombinedScore    float64
	Tier             RiskTier
	WeighingRequired bool
	Reason           string
	RouteMiles       float64
	Candidates       []ScaleCandidate
}
