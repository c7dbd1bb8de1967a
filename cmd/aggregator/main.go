// The aggregator recomputes risk ratings from the stored claims dataset
// and atomically swaps the risk_ratings table to the new generation. It is
// meant to run offline, after each claims refresh.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weighpoint/weighpoint/internal/repository"
	"github.com/weighpoint/weighpoint/internal/risk"
)

func main() {
	var (
		dbURL          = flag.String("db-url", os.Getenv("DB_URL"), "postgres connection string")
		incidentWeight = flag.Float64("incident-weight", 1.0, "weight of the incident count in the raw score")
		penaltyWeight  = flag.Float64("penalty-weight", 0.0001, "weight of the total penalty in the raw score")
	)
	flag.Parse()

	if *dbURL == "" {
		log.Fatal("database URL required: pass -db-url or set DB_URL")
	}

	logger := log.New(os.Stdout, "[weighpoint-aggregator] ", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, *dbURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	repo := repository.NewWithPool(pool)

	claims, err := repo.Claims.List(ctx)
	if err != nil {
		log.Fatalf("load claims: %v", err)
	}
	logger.Printf("loaded %d claims", len(claims))

	result, err := risk.Aggregate(claims, risk.Options{
		IncidentWeight: *incidentWeight,
		PenaltyWeight:  *penaltyWeight,
	})
	if err != nil {
		log.Fatalf("aggregate claims: %v", err)
	}
	for _, skip := range result.Skipped {
		logger.Printf("skipped claim %d: %v", skip.Index, skip)
	}

	ratings := append(result.Routes, result.Parties...)
	generatedAt := time.Now().UTC()
	if err := repo.Ratings.Replace(ctx, ratings, generatedAt); err != nil {
		log.Fatalf("replace ratings: %v", err)
	}

	logger.Printf("wrote generation %s: %d route ratings, %d party ratings, %d rows skipped",
		generatedAt.Format(time.RFC3339), len(result.Routes), len(result.Parties), len(result.Skipped))
}
