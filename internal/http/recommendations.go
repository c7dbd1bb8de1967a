package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/weighpoint/weighpoint/internal/domain"
	"github.com/weighpoint/weighpoint/internal/geocode"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type recommendationRequest struct {
	ShipFrom    string `json:"shipFrom"`
	ShipTo      string `json:"shipTo"`
	LiableParty string `json:"liableParty"`
}

type recommendationResponse struct {
	Route            string                   `json:"route"`
	RouteScore       float64                  `json:"routeScore"`
	PartyScore       float64                  `json:"partyScore"`
	CombinedScore    float64                  `json:"combinedScore"`
	Tier             string                   `json:"tier"`
	WeighingRequired bool                     `json:"weighingRequired"`
	Reason           string                   `json:"reason"`
	RouteMiles       float64                  `json:"routeMiles"`
	CandidateScales  []scaleCandidateResponse `json:"candidateScales"`
}

type scaleCandidateResponse struct {
	Label         string  `json:"label"`
	State         string  `json:"state"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	DistanceMiles float64 `json:"distanceMiles"`
	DetourMiles   float64 `json:"detourMiles"`
	DetourCost    float64 `json:"detourCost"`
}

type ratingResponse struct {
	SubjectType     string  `json:"subjectType"`
	SubjectKey      string  `json:"subjectKey"`
	IncidentCount   int64   `json:"incidentCount"`
	TotalPenalty    float64 `json:"totalPenalty"`
	RawScore        float64 `json:"rawScore"`
	NormalizedScore float64 `json:"normalizedScore"`
}

func (s *Server) handleCreateRecommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	if strings.TrimSpace(req.ShipFrom) == "" || strings.TrimSpace(req.ShipTo) == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "shipFrom and shipTo are required")
		return
	}
	if strings.TrimSpace(req.LiableParty) == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "liableParty is required")
		return
	}

	rec, err := s.engine.Decide(r.Context(), req.ShipFrom, req.ShipTo, req.LiableParty)
	if err != nil {
		if errors.Is(err, geocode.ErrUnresolvable) {
			s.respondError(w, http.StatusUnprocessableEntity, "GEOCODE_FAILED", err.Error())
			return
		}
		s.logger.Printf("recommendation error: %v", err)
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to resolve route endpoints")
		return
	}

	s.respondJSON(w, http.StatusOK, toRecommendationResponse(rec))
}

// nearestQuery carries the parsed parameters of GET /scales/nearest.
type nearestQuery struct {
	Point  domain.Point
	Limit  int
	Radius float64
}

func buildNearestQuery(query url.Values) (nearestQuery, error) {
	var q nearestQuery

	lat, err := strconv.ParseFloat(strings.TrimSpace(query.Get("lat")), 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return q, fmt.Errorf("invalid lat value")
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(query.Get("lon")), 64)
	if err != nil || math.IsNaN(lon) || lon < -180 || lon > 180 {
		return q, fmt.Errorf("invalid lon value")
	}
	q.Point = domain.Point{Lat: lat, Lon: lon}

	q.Limit = 5
	if val := strings.TrimSpace(query.Get("limit")); val != "" {
		limit, err := strconv.Atoi(val)
		if err != nil || limit <= 0 {
			return q, fmt.Errorf("invalid limit value")
		}
		if limit > 50 {
			limit = 50
		}
		q.Limit = limit
	}

	q.Radius = 100
	if val := strings.TrimSpace(query.Get("radius")); val != "" {
		radius, err := strconv.ParseFloat(val, 64)
		if err != nil || radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
			return q, fmt.Errorf("invalid radius value")
		}
		q.Radius = radius
	}

	return q, nil
}

func (s *Server) handleNearestScales(w http.ResponseWriter, r *http.Request) {
	q, err := buildNearestQuery(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	candidates := s.index.Nearest(q.Point, q.Limit, q.Radius)
	items := make([]scaleCandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, scaleCandidateResponse{
			Label:         c.Scale.Label(),
			State:         c.Scale.State,
			Latitude:      c.Scale.Location.Lat,
			Longitude:     c.Scale.Location.Lon,
			DistanceMiles: c.DistanceMiles,
		})
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) handleRouteRating(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	fields := make([]string, 4)
	for i, name := range []string{"fromCity", "fromState", "toCity", "toState"} {
		fields[i] = strings.TrimSpace(query.Get(name))
		if fields[i] == "" {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST",
				fmt.Sprintf("missing %s parameter", name))
			return
		}
	}

	key := domain.NewRouteKey(fields[0], fields[1], fields[2], fields[3])
	rating, ok := s.snapshot.LookupRoute(key)
	if !ok {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "No rating recorded for this route")
		return
	}
	s.respondJSON(w, http.StatusOK, toRatingResponse(rating))
}

func (s *Server) handlePartyRating(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing name parameter")
		return
	}

	rating, ok := s.snapshot.LookupParty(name)
	if !ok {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "No rating recorded for this party")
		return
	}
	s.respondJSON(w, http.StatusOK, toRatingResponse(rating))
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{Code: code, Message: message})
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

func toRecommendationResponse(rec domain.Recommendation) recommendationResponse {
	resp := recommendationResponse{
		Route:            rec.Route.String(),
		RouteScore:       rec.RouteScore,
		PartyScore:       rec.PartyScore,
		CombinedScore:    rec.CombinedScore,
		Tier:             string(rec.Tier),
		WeighingRequired: rec.WeighingRequired,
		Reason:           rec.Reason,
		RouteMiles:       roundToTenth(rec.RouteMiles),
		CandidateScales:  make([]scaleCandidateResponse, 0, len(rec.Candidates)),
	}
	for _, c := range rec.Candidates {
		resp.CandidateScales = append(resp.CandidateScales, scaleCandidateResponse{
			Label:         c.Scale.Label(),
			State:         c.Scale.State,
			Latitude:      c.Scale.Location.Lat,
			Longitude:     c.Scale.Location.Lon,
			DistanceMiles: roundToTenth(c.DistanceMiles),
			DetourMiles:   roundToTenth(c.DetourMiles),
			DetourCost:    roundToCent(c.DetourCost),
		})
	}
	return resp
}

func toRatingResponse(rating domain.RiskRating) ratingResponse {
	return ratingResponse{
		SubjectType:     rating.SubjectType,
		SubjectKey:      rating.SubjectKey,
		IncidentCount:   rating.IncidentCount,
		TotalPenalty:    rating.TotalPenalty,
		RawScore:        rating.RawScore,
		NormalizedScore: rating.NormalizedScore,
	}
}

func roundToTenth(value float64) float64 {
	return math.Round(value*10) / 10
}

func roundToCent(value float64) float64 {
	return math.Round(value*100) / 100
}
