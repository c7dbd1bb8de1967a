// Package ratings serves point lookups over the precomputed risk-ratings
// dataset. The dataset is loaded once at startup into an immutable snapshot
// that is safe for concurrent reads.
package ratings

import (
	"context"
	"errors"
	"fmt"

	"github.com/weighpoint/weighpoint/internal/domain"
	"github.com/weighpoint/weighpoint/internal/repository"
)

// ErrDataUnavailable is returned when the ratings dataset cannot be read at
// startup. The store cannot serve any lookups in that case.
var ErrDataUnavailable = errors.New("ratings: rating data unavailable")

// Snapshot is a read-only view over one generation of risk ratings.
type Snapshot struct {
	routes  map[string]domain.RiskRating
	parties map[string]domain.RiskRating
}

// NewSnapshot indexes ratings by subject kind and key.
func NewSnapshot(ratings []domain.RiskRating) *Snapshot {
	s := &Snapshot{
		routes:  make(map[string]domain.RiskRating),
		parties: make(map[string]domain.RiskRating),
	}
	for _, r := range ratings {
		switch r.SubjectType {
		case domain.SubjectRoute:
			s.routes[r.SubjectKey] = r
		case domain.SubjectParty:
			s.parties[r.SubjectKey] = r
		}
	}
	return s
}

// Load reads the full ratings dataset from the repository. Any failure is
// wrapped in ErrDataUnavailable; callers treat it as fatal at startup.
func Load(ctx context.Context, repo *repository.RatingsRepository) (*Snapshot, error) {
	rows, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	return NewSnapshot(rows), nil
}

// LookupRoute returns the rating for a route, if one exists. Absence is a
// normal outcome, never an error; callers substitute a neutral default.
func (s *Snapshot) LookupRoute(key domain.RouteKey) (domain.RiskRating, bool) {
	r, ok := s.routes[key.Key()]
	return r, ok
}

// LookupParty returns the rating for a liable party, if one exists.
func (s *Snapshot) LookupParty(name string) (domain.RiskRating, bool) {
	r, ok := s.parties[domain.NormalizeParty(name)]
	return r, ok
}

// Len reports the total number of indexed ratings.
func (s *Snapshot) Len() int {
	return len(s.routes) + len(s.parties)
}
