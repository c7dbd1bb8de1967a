package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/weighpoint/weighpoint/internal/domain"
)

// ErrUnresolvable is returned when the geocoding service cannot resolve a
// place name to coordinates.
var ErrUnresolvable = errors.New("geocode: location not found")

// Location is a resolved place: its coordinates plus the city/state fields
// used to build route keys.
type Location struct {
	Query string
	Point domain.Point
	City  string
	State string
}

// Client defines the contract for the external geocoding collaborator.
type Client interface {
	Resolve(ctx context.Context, place string) (Location, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	client  *http.Client
	logger  *log.Logger
}

// NewHTTPClient constructs an HTTP-backed geocoding client.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *log.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = log.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse geocoder url: %w", err)
	}
	return &HTTPClient{
		baseURL: parsed,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// Resolve looks up coordinates for a free-text place name.
func (c *HTTPClient) Resolve(ctx context.Context, place string) (Location, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return Location{}, fmt.Errorf("geocode: empty place: %w", ErrUnresolvable)
	}

	rel := &url.URL{Path: "/geocode"}
	q := rel.Query()
	q.Set("q", place)
	rel.RawQuery = q.Encode()
	endpoint := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Location{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload apiResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return Location{}, fmt.Errorf("decode geocode response: %w", err)
		}
		return convertToLocation(place, payload)
	case http.StatusNotFound:
		return Location{}, fmt.Errorf("geocode %q: %w", place, ErrUnresolvable)
	default:
		c.logger.Printf("geocode: unexpected status %d for place %q", resp.StatusCode, place)
		return Location{}, fmt.Errorf("geocode: upstream returned %d", resp.StatusCode)
	}
}

type apiResponse struct {
	Query     string   `json:"query"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      string   `json:"city"`
	State     string   `json:"state"`
}

func convertToLocation(place string, payload apiResponse) (Location, error) {
	if payload.Latitude == nil || payload.Longitude == nil {
		return Location{}, fmt.Errorf("geocode %q: response missing coordinates: %w", place, ErrUnresolvable)
	}
	loc := Location{
		Query: place,
		Point: domain.Point{Lat: *payload.Latitude, Lon: *payload.Longitude},
		City:  strings.TrimSpace(payload.City),
		State: strings.TrimSpace(payload.State),
	}
	// Upstreams that omit city/state still resolve; the raw query then
	// stands in for the city so route keys stay non-empty.
	if loc.City == "" {
		loc.City = place
	}
	return loc, nil
}
