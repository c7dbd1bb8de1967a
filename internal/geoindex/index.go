// Package geoindex answers nearest-scale queries over the static CAT scale
// dataset. The dataset is a few hundred locations, so a linear scan is
// sufficient; the ordering and cutoff contract is what matters.
package geoindex

import (
	"math"
	"sort"

	"github.com/weighpoint/weighpoint/internal/domain"
)

const earthRadiusMiles = 3958.8

// Candidate pairs a scale with its great-circle distance from a query point.
type Candidate struct {
	Scale         domain.CatScale
	DistanceMiles float64
}

// Index is an immutable snapshot of scale locations, built once at startup
// and safe for concurrent reads.
type Index struct {
	scales []domain.CatScale
}

// New builds an index over the given scales. Rows without coordinates are
// expected to have been dropped at load time.
func New(scales []domain.CatScale) *Index {
	copied := make([]domain.CatScale, len(scales))
	copy(copied, scales)
	return &Index{scales: copied}
}

// Size reports how many scales the index holds.
func (ix *Index) Size() int {
	return len(ix.scales)
}

// Nearest returns up to limit scales within maxRadiusMiles of p, ordered by
// ascending distance with ties broken by label ascending. maxRadiusMiles <= 0
// means no radius cutoff. An empty result is a valid answer, not an error.
func (ix *Index) Nearest(p domain.Point, limit int, maxRadiusMiles float64) []Candidate {
	if limit <= 0 {
		return nil
	}

	candidates := make([]Candidate, 0, len(ix.scales))
	for _, scale := range ix.scales {
		d := Haversine(p, scale.Location)
		if maxRadiusMiles > 0 && d > maxRadiusMiles {
			continue
		}
		candidates = append(candidates, Candidate{Scale: scale, DistanceMiles: d})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DistanceMiles != candidates[j].DistanceMiles {
			return candidates[i].DistanceMiles < candidates[j].DistanceMiles
		}
		return candidates[i].Scale.Label() < candidates[j].Scale.Label()
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// Haversine returns the great-circle distance between two points in miles.
func Haversine(a, b domain.Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
