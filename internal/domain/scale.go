package domain

import "fmt"

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// CatScale is one commercial weigh-station location from the CAT scale
// reference dataset. The dataset is static and read-only at request time.
type CatScale struct {
	Number        string
	TruckstopName string
	City          string
	State         string
	Address       string
	Location      Point
}

// Label renders the display name used in recommendations, e.g.
// "Heartland Express - Poplar Bluff, MO (#1018)".
func (s CatScale) Label() string {
	label := s.TruckstopName
	if s.City != "" || s.State != "" {
		label = fmt.Sprintf("%s - %s, %s", s.TruckstopName, s.City, s.State)
	}
	if s.Number != "" {
		label += " (#" + s.Number + ")"
	}
	return label
}
