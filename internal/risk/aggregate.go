// Package risk turns raw historical claim records into normalized
// per-route and per-liable-party risk ratings.
package risk

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/weighpoint/weighpoint/internal/domain"
)

// Options holds the aggregation weights. They are configuration, not code:
// callers pass them explicitly and the batch binary exposes them as flags.
type Options struct {
	// IncidentWeight scales the incident-count contribution to the raw score.
	IncidentWeight float64
	// PenaltyWeight scales the total-penalty contribution to the raw score.
	PenaltyWeight float64
}

// DefaultOptions returns the production weighting: one point per incident,
// one point per $10,000 of penalties.
func DefaultOptions() Options {
	return Options{IncidentWeight: 1.0, PenaltyWeight: 0.0001}
}

// MalformedRecordError reports a claim row that was skipped because its
// penalty amount did not parse as a non-negative number.
type MalformedRecordError struct {
	Index   int
	Penalty string
	Reason  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("claim %d: malformed penalty %q: %s", e.Index, e.Penalty, e.Reason)
}

// Result is the output of one aggregation run. Route and party ratings are
// normalized independently; each slice is sorted by normalized score
// descending, then subject key ascending, so reruns over the same claims
// produce identical output.
type Result struct {
	Routes  []domain.RiskRating
	Parties []domain.RiskRating
	Skipped []MalformedRecordError
}

type group struct {
	key          string
	count        int64
	totalPenalty float64
}

// Aggregate computes risk ratings from a claim set. It is a pure function
// of its input: no randomness, no wall-clock dependency. Records with an
// unparsable penalty are skipped and reported in Result.Skipped rather than
// aborting the run; the source spreadsheets are hand-maintained and partial
// tolerance is required.
func Aggregate(claims []domain.ClaimRecord, opts Options) (Result, error) {
	if opts.IncidentWeight < 0 || opts.PenaltyWeight < 0 {
		return Result{}, fmt.Errorf("risk: weights must be non-negative (incident=%v, penalty=%v)",
			opts.IncidentWeight, opts.PenaltyWeight)
	}

	routes := make(map[string]*group)
	parties := make(map[string]*group)
	var skipped []MalformedRecordError

	for i, claim := range claims {
		penalty, err := parsePenalty(claim.Penalty)
		if err != nil {
			skipped = append(skipped, MalformedRecordError{
				Index:   i,
				Penalty: claim.Penalty,
				Reason:  err.Error(),
			})
			continue
		}

		routeKey := claim.Route().Key()
		partyKey := domain.NormalizeParty(claim.LiableParty)
		accumulate(routes, routeKey, penalty)
		if partyKey != "" {
			accumulate(parties, partyKey, penalty)
		}
	}

	return Result{
		Routes:  normalize(routes, domain.SubjectRoute, opts),
		Parties: normalize(parties, domain.SubjectParty, opts),
		Skipped: skipped,
	}, nil
}

func accumulate(groups map[string]*group, key string, penalty float64) {
	g, ok := groups[key]
	if !ok {
		g = &group{key: key}
		groups[key] = g
	}
	g.count++
	g.totalPenalty += penalty
}

// normalize converts groups of one subject kind into ratings with min-max
// scaled scores. When every raw score is identical (including the
// single-group case) all normalized scores are 0.0; there is no division
// by zero.
func normalize(groups map[string]*group, subjectType string, opts Options) []domain.RiskRating {
	if len(groups) == 0 {
		return nil
	}

	ratings := make([]domain.RiskRating, 0, len(groups))
	for _, g := range groups {
		raw := opts.IncidentWeight*float64(g.count) + opts.PenaltyWeight*g.totalPenalty
		ratings = append(ratings, domain.RiskRating{
			SubjectType:   subjectType,
			SubjectKey:    g.key,
			IncidentCount: g.count,
			TotalPenalty:  g.totalPenalty,
			RawScore:      raw,
		})
	}

	min, max := ratings[0].RawScore, ratings[0].RawScore
	for _, r := range ratings[1:] {
		if r.RawScore < min {
			min = r.RawScore
		}
		if r.RawScore > max {
			max = r.RawScore
		}
	}
	if max > min {
		for i := range ratings {
			ratings[i].NormalizedScore = (ratings[i].RawScore - min) / (max - min)
		}
	}

	sort.Slice(ratings, func(i, j int) bool {
		if ratings[i].NormalizedScore != ratings[j].NormalizedScore {
			return ratings[i].NormalizedScore > ratings[j].NormalizedScore
		}
		return ratings[i].SubjectKey < ratings[j].SubjectKey
	})
	return ratings
}

// parsePenalty parses a hand-entered penalty amount. Blank means zero;
// currency symbols, commas, and surrounding whitespace are tolerated.
func parsePenalty(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if value < 0 {
		return 0, fmt.Errorf("negative amount")
	}
	return value, nil
}
