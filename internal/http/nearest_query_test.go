package httpserver

import (
	"net/url"
	"testing"
)

func TestBuildNearestQuery(t *testing.T) {
	values, _ := url.ParseQuery("lat=41.8781&lon=-87.6298&limit=3&radius=50")

	q, err := buildNearestQuery(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Point.Lat != 41.8781 || q.Point.Lon != -87.6298 {
		t.Fatalf("point = %+v", q.Point)
	}
	if q.Limit != 3 {
		t.Fatalf("limit = %d, want 3", q.Limit)
	}
	if q.Radius != 50 {
		t.Fatalf("radius = %v, want 50", q.Radius)
	}
}

func TestBuildNearestQuery_Defaults(t *testing.T) {
	values, _ := url.ParseQuery("lat=0&lon=0")

	q, err := buildNearestQuery(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Limit != 5 || q.Radius != 100 {
		t.Fatalf("defaults = %d/%v, want 5/100", q.Limit, q.Radius)
	}
}

func TestBuildNearestQuery_Invalid(t *testing.T) {
	cases := []string{
		"",
		"lat=91&lon=0",
		"lat=0&lon=-181",
		"lat=abc&lon=0",
		"lat=0&lon=0&limit=0",
		"lat=0&lon=0&limit=x",
		"lat=0&lon=0&radius=-1",
		"lat=0&lon=0&radius=NaN",
	}
	for _, raw := range cases {
		values, _ := url.ParseQuery(raw)
		if _, err := buildNearestQuery(values); err == nil {
			t.Fatalf("expected error for query %q", raw)
		}
	}
}

func TestBuildNearestQuery_CapsLimit(t *testing.T) {
	values, _ := url.ParseQuery("lat=0&lon=0&limit=500")
	q, err := buildNearestQuery(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Limit != 50 {
		t.Fatalf("limit = %d, want capped at 50", q.Limit)
	}
}

func FuzzBuildNearestQuery(f *testing.F) {
	seeds := []string{
		"lat=41.8&lon=-87.6&limit=3&radius=50",
		"lat=91&lon=0",
		"lat=0&lon=0&radius=Inf",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		q, err := buildNearestQuery(values)
		if err != nil {
			return
		}
		if q.Limit <= 0 || q.Limit > 50 {
			t.Fatalf("accepted limit out of range: %d", q.Limit)
		}
		if q.Radius <= 0 {
			t.Fatalf("accepted non-positive radius: %v", q.Radius)
		}
		if q.Point.Lat < -90 || q.Point.Lat > 90 || q.Point.Lon < -180 || q.Point.Lon > 180 {
			t.Fatalf("accepted out-of-range point: %+v", q.Point)
		}
	})
}
