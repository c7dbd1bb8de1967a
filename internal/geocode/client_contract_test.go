package geocode

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"
)

// TestHTTPClientSmoke runs against a live geocoder (usually cmd/geocoder-mock)
// to verify the wire contract end to end.
func TestHTTPClientSmoke(t *testing.T) {
	baseURL := os.Getenv("GEOCODER_URL")
	if baseURL == "" {
		t.Skip("GEOCODER_URL not provided")
	}

	client, err := NewHTTPClient(baseURL, 3*time.Second, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("create http client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	loc, err := client.Resolve(ctx, "Chicago, IL")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if loc.Point.Lat == 0 && loc.Point.Lon == 0 {
		t.Fatalf("unexpected zero coordinates: %+v", loc)
	}
	if loc.City == "" {
		t.Fatalf("city must never be empty: %+v", loc)
	}
}
