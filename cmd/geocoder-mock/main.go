package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
)

type placeEntry struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      string   `json:"city"`
	State     string   `json:"state"`
}

type geocodeResponse struct {
	Query     string   `json:"query"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      string   `json:"city"`
	State     string   `json:"state"`
}

func main() {
	var (
		port = flag.String("port", "9098", "port to listen on")
		data = flag.String("data", "mock-geocoder.json", "path to mock data file")
	)
	flag.Parse()

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read mock data: %v", err)
	}

	var raw map[string]placeEntry
	if err := json.Unmarshal(file, &raw); err != nil {
		log.Fatalf("parse mock data: %v", err)
	}

	// Keys are matched case-insensitively after trimming.
	payload := make(map[string]placeEntry, len(raw))
	for key, entry := range raw {
		payload[strings.ToLower(strings.TrimSpace(key))] = entry
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/geocode", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		entry, ok := payload[strings.ToLower(strings.TrimSpace(query))]
		if !ok {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		resp := geocodeResponse{
			Query:     query,
			Latitude:  entry.Latitude,
			Longitude: entry.Longitude,
			City:      entry.City,
			State:     entry.State,
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	addr := ":" + *port
	log.Printf("mock geocoder listening on %s with %d places", addr, len(payload))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
