package domain

// Subject kinds for risk ratings. Route ratings and party ratings are
// normalized independently and never compared across kinds.
const (
	SubjectRoute = "route"
	SubjectParty = "party"
)

// RiskRating is one aggregated, normalized risk entry produced by the
// offline aggregation run and served read-only afterwards.
type RiskRating struct {
	SubjectType     string
	SubjectKey      string
	IncidentCount   int64
	TotalPenalty    float64
	RawScore        float64
	NormalizedScore float64
}
