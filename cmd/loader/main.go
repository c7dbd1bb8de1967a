// The loader imports the claims and CAT scale CSV exports into the
// database. Either dataset can be loaded on its own.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weighpoint/weighpoint/internal/ingest"
	"github.com/weighpoint/weighpoint/internal/repository"
)

func main() {
	var (
		dbURL      = flag.String("db-url", os.Getenv("DB_URL"), "postgres connection string")
		claimsPath = flag.String("claims", "", "path to the claims CSV export")
		scalesPath = flag.String("scales", "", "path to the CAT scale CSV export")
	)
	flag.Parse()

	if *dbURL == "" {
		log.Fatal("database URL required: pass -db-url or set DB_URL")
	}
	if *claimsPath == "" && *scalesPath == "" {
		log.Fatal("nothing to load: pass -claims and/or -scales")
	}

	logger := log.New(os.Stdout, "[weighpoint-loader] ", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, *dbURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	repo := repository.NewWithPool(pool)

	if *claimsPath != "" {
		loadClaims(ctx, logger, repo, *claimsPath)
	}
	if *scalesPath != "" {
		loadScales(ctx, logger, repo, *scalesPath)
	}
}

func loadClaims(ctx context.Context, logger *log.Logger, repo *repository.Repository, path string) {
	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("open claims file: %v", err)
	}
	defer file.Close()

	claims, warnings, err := ingest.ReadClaims(file)
	if err != nil {
		log.Fatalf("parse claims: %v", err)
	}
	for _, w := range warnings {
		logger.Printf("claims %s", w)
	}

	inserted, err := repo.Claims.BulkInsert(ctx, claims)
	if err != nil {
		log.Fatalf("insert claims: %v", err)
	}
	logger.Printf("loaded %d claims from %s (%d rows dropped)", inserted, path, len(warnings))
}

func loadScales(ctx context.Context, logger *log.Logger, repo *repository.Repository, path string) {
	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("open scales file: %v", err)
	}
	defer file.Close()

	scales, warnings, err := ingest.ReadScales(file)
	if err != nil {
		log.Fatalf("parse scales: %v", err)
	}
	for _, w := range warnings {
		logger.Printf("scales %s", w)
	}

	inserted, err := repo.Scales.BulkInsert(ctx, scales)
	if err != nil {
		log.Fatalf("insert scales: %v", err)
	}
	logger.Printf("loaded %d cat scales from %s (%d rows dropped)", inserted, path, len(warnings))
}
