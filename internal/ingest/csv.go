// Package ingest parses the hand-maintained CSV exports (claims and CAT
// scale locations) into validated records for loading into the database.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/weighpoint/weighpoint/internal/domain"
)

// Warning reports a row that was dropped during ingestion. Partial
// tolerance is the rule: bad rows never abort a load.
type Warning struct {
	Line   int
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Reason)
}

// header maps lowercased column names to their positions.
type header map[string]int

func readHeader(rec []string) header {
	h := make(header, len(rec))
	for i, name := range rec {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return h
}

// get returns the trimmed cell under the first matching column name.
func (h header) get(rec []string, names ...string) string {
	for _, name := range names {
		if idx, ok := h[name]; ok && idx < len(rec) {
			return strings.TrimSpace(rec[idx])
		}
	}
	return ""
}

func (h header) has(names ...string) bool {
	for _, name := range names {
		if _, ok := h[name]; ok {
			return true
		}
	}
	return false
}

// ReadScales parses the CAT scale dataset. Required columns: truckstop
// name, state, latitude, longitude. Rows with missing or unparsable
// coordinates are dropped with a warning.
func ReadScales(r io.Reader) ([]domain.CatScale, []Warning, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read scale header: %w", err)
	}
	h := readHeader(first)
	for _, required := range [][]string{
		{"truckstopname", "truckstop name"},
		{"state"},
		{"latitude"},
		{"longitude"},
	} {
		if !h.has(required...) {
			return nil, nil, fmt.Errorf("scale dataset missing required column %q", required[0])
		}
	}

	var scales []domain.CatScale
	var warnings []Warning
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			warnings = append(warnings, Warning{Line: line, Reason: fmt.Sprintf("unreadable row: %v", err)})
			continue
		}

		lat, latErr := strconv.ParseFloat(h.get(rec, "latitude"), 64)
		lon, lonErr := strconv.ParseFloat(h.get(rec, "longitude"), 64)
		if latErr != nil || lonErr != nil {
			warnings = append(warnings, Warning{Line: line, Reason: "missing coordinates"})
			continue
		}

		name := h.get(rec, "truckstopname", "truckstop name")
		state := h.get(rec, "state")
		if name == "" || state == "" {
			warnings = append(warnings, Warning{Line: line, Reason: "missing name or state"})
			continue
		}

		scales = append(scales, domain.CatScale{
			Number:        h.get(rec, "catscalenumber", "cat scale number"),
			TruckstopName: name,
			City:          h.get(rec, "interstatecity", "city"),
			State:         state,
			Address:       h.get(rec, "interstateaddress", "address"),
			Location:      domain.Point{Lat: lat, Lon: lon},
		})
	}
	return scales, warnings, nil
}

// ReadClaims parses the historical claims dataset. Required columns: the
// four route fields and the liable party name. The penalty amount is kept
// verbatim; the aggregator parses it with its own skip-and-warn handling.
func ReadClaims(r io.Reader) ([]domain.ClaimRecord, []Warning, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read claims header: %w", err)
	}
	h := readHeader(first)
	for _, required := range [][]string{
		{"ship from city"},
		{"ship from state"},
		{"ship to city"},
		{"ship to state"},
		{"liable party name", "liable party"},
	} {
		if !h.has(required...) {
			return nil, nil, fmt.Errorf("claims dataset missing required column %q", required[0])
		}
	}

	var claims []domain.ClaimRecord
	var warnings []Warning
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			warnings = append(warnings, Warning{Line: line, Reason: fmt.Sprintf("unreadable row: %v", err)})
			continue
		}

		claim := domain.ClaimRecord{
			ShipFromCity:  h.get(rec, "ship from city"),
			ShipFromState: h.get(rec, "ship from state"),
			ShipToCity:    h.get(rec, "ship to city"),
			ShipToState:   h.get(rec, "ship to state"),
			LiableParty:   h.get(rec, "liable party name", "liable party"),
			Penalty:       h.get(rec, "total expense", "penalty"),
			Incident:      parseIncident(h.get(rec, "incident", "primary incident cause desc")),
		}
		if claim.ShipFromCity == "" || claim.ShipToCity == "" {
			warnings = append(warnings, Warning{Line: line, Reason: "missing route endpoint"})
			continue
		}

		if raw := h.get(rec, "date", "loss date"); raw != "" {
			if ts, err := time.Parse("2006-01-02", raw); err == nil {
				claim.OccurredAt = &ts
			} else {
				warnings = append(warnings, Warning{Line: line, Reason: fmt.Sprintf("unparsable date %q", raw)})
			}
		}

		claims = append(claims, claim)
	}
	return claims, warnings, nil
}

// parseIncident interprets the incident indicator column. Anything that is
// not blank or an explicit negative counts as an incident.
func parseIncident(raw string) bool {
	switch strings.ToLower(raw) {
	case "", "0", "no", "false", "n":
		return false
	default:
		return true
	}
}
