package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/weighpoint/weighpoint/internal/config"
	"github.com/weighpoint/weighpoint/internal/decision"
	"github.com/weighpoint/weighpoint/internal/geocode"
	"github.com/weighpoint/weighpoint/internal/geoindex"
	httpserver "github.com/weighpoint/weighpoint/internal/http"
	"github.com/weighpoint/weighpoint/internal/ratings"
	"github.com/weighpoint/weighpoint/internal/repository"
	"github.com/weighpoint/weighpoint/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[weighpoint-api] ", log.LstdFlags|log.Lshortfile)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:        int32(cfg.DBMaxConns),
		MinConns:        int32(cfg.DBMinConns),
		MaxConnIdleTime: time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime: time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:     time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		Logger:          logger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	repo := repository.New(st)

	// The serving path works off immutable in-memory datasets; the database
	// is only read at startup and by the health check.
	snapshot, err := ratings.Load(dbCtx, repo.Ratings)
	if err != nil {
		log.Fatalf("load risk ratings: %v (run the aggregator first)", err)
	}
	generatedAt, err := repo.Ratings.GeneratedAt(dbCtx)
	if err != nil {
		log.Fatalf("read ratings generation: %v", err)
	}
	logger.Printf("loaded %d risk ratings generated at %s", snapshot.Len(), generatedAt.Format(time.RFC3339))

	scales, err := repo.Scales.List(dbCtx)
	if err != nil {
		log.Fatalf("load cat scales: %v", err)
	}
	index := geoindex.New(scales)
	logger.Printf("indexed %d cat scale locations", index.Size())

	geocoder, err := geocode.NewHTTPClient(cfg.GeocoderURL, time.Duration(cfg.GeocoderTimeoutSecs)*time.Second, logger)
	if err != nil {
		log.Fatalf("init geocoder client: %v", err)
	}

	engineOpts := decision.Options{
		RouteWeight:       cfg.RouteWeight,
		PartyWeight:       cfg.PartyWeight,
		MediumThreshold:   cfg.MediumThreshold,
		HighThreshold:     cfg.HighThreshold,
		SearchRadiusMiles: cfg.ScaleSearchRadiusMiles,
		ResultLimit:       cfg.ScaleResultLimit,
		ScaleFee:          cfg.ScaleFee,
		DriverCostPerHour: cfg.DriverCostPerHour,
		PerMileCost:       cfg.PerMileCost,
		AverageSpeedMPH:   cfg.AverageSpeedMPH,
	}
	engine, err := decision.New(geocoder, snapshot, index, engineOpts, logger)
	if err != nil {
		log.Fatalf("init decision engine: %v", err)
	}

	server := httpserver.New(cfg, st, engine, snapshot, index, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("graceful shutdown error: %v", err)
	}
}
