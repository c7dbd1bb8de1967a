package domain

import "time"

// ClaimRecord is one row of the historical cargo-claims dataset. The source
// spreadsheets are hand-maintained, so the penalty amount is carried as raw
// text and parsed (with skip-and-warn tolerance) at aggregation time.
type ClaimRecord struct {
	ShipFromCity  string
	ShipFromState string
	ShipToCity    string
	ShipToState   string
	LiableParty   string
	Incident      bool
	Penalty       string
	OccurredAt    *time.Time
}

// Route returns the normalized route key for this claim.
func (c ClaimRecord) Route() RouteKey {
	return NewRouteKey(c.ShipFromCity, c.ShipFromState, c.ShipToCity, c.ShipToState)
}
