package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
)

// Config captures all runtime configuration derived from environment
// variables. Decision policy (weights, thresholds, search parameters) lives
// here rather than in code so it can be tuned without a deploy.
type Config struct {
	Port                string
	DBURL               string
	GeocoderURL         string
	GeocoderTimeoutSecs int

	ReadTimeoutSecs  int
	WriteTimeoutSecs int
	IdleTimeoutSecs  int

	DBMaxConns        int
	DBMinConns        int
	DBMaxIdleSecs     int
	DBMaxLifeSecs     int
	DBConnTimeoutSecs int

	IncidentWeight float64
	PenaltyWeight  float64

	RouteWeight            float64
	PartyWeight            float64
	MediumThreshold        float64
	HighThreshold          float64
	ScaleSearchRadiusMiles float64
	ScaleResultLimit       int

	ScaleFee          float64
	DriverCostPerHour float64
	PerMileCost       float64
	AverageSpeedMPH   float64
}

// Load reads configuration from environment variables, applying defaults
// and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		DBURL:               os.Getenv("DB_URL"),
		GeocoderURL:         os.Getenv("GEOCODER_URL"),
		GeocoderTimeoutSecs: getEnvInt("GEOCODER_TIMEOUT_SECS", 5),

		ReadTimeoutSecs:  getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),

		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:     getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:     getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs: getEnvInt("DB_CONN_TIMEOUT_SECS", 10),

		IncidentWeight: getEnvFloat("INCIDENT_WEIGHT", 1.0),
		PenaltyWeight:  getEnvFloat("PENALTY_WEIGHT", 0.0001),

		RouteWeight:            getEnvFloat("ROUTE_WEIGHT", 0.5),
		PartyWeight:            getEnvFloat("PARTY_WEIGHT", 0.5),
		MediumThreshold:        getEnvFloat("RISK_TIER_MEDIUM", 0.4),
		HighThreshold:          getEnvFloat("RISK_TIER_HIGH", 0.7),
		ScaleSearchRadiusMiles: getEnvFloat("SCALE_SEARCH_RADIUS_MILES", 100),
		ScaleResultLimit:       getEnvInt("SCALE_RESULT_LIMIT", 5),

		ScaleFee:          getEnvFloat("SCALE_FEE", 14.0),
		DriverCostPerHour: getEnvFloat("DRIVER_COST_PER_HOUR", 30.0),
		PerMileCost:       getEnvFloat("PER_MILE_COST", 2.0),
		AverageSpeedMPH:   getEnvFloat("AVERAGE_SPEED_MPH", 50.0),
	}

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.GeocoderURL == "" {
		return Config{}, fmt.Errorf("GEOCODER_URL is required")
	}
	if cfg.GeocoderTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("GEOCODER_TIMEOUT_SECS must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.IncidentWeight < 0 || cfg.PenaltyWeight < 0 {
		return Config{}, fmt.Errorf("INCIDENT_WEIGHT and PENALTY_WEIGHT must be non-negative")
	}
	if cfg.RouteWeight < 0 || cfg.PartyWeight < 0 {
		return Config{}, fmt.Errorf("ROUTE_WEIGHT and PARTY_WEIGHT must be non-negative")
	}
	if math.Abs(cfg.RouteWeight+cfg.PartyWeight-1.0) > 1e-9 {
		return Config{}, fmt.Errorf("ROUTE_WEIGHT and PARTY_WEIGHT must sum to 1.0")
	}
	if cfg.MediumThreshold < 0 || cfg.HighThreshold > 1 || cfg.MediumThreshold >= cfg.HighThreshold {
		return Config{}, fmt.Errorf("RISK_TIER_MEDIUM and RISK_TIER_HIGH must satisfy 0 <= medium < high <= 1")
	}
	if cfg.ScaleSearchRadiusMiles <= 0 {
		return Config{}, fmt.Errorf("SCALE_SEARCH_RADIUS_MILES must be positive")
	}
	if cfg.ScaleResultLimit <= 0 {
		return Config{}, fmt.Errorf("SCALE_RESULT_LIMIT must be positive")
	}
	if cfg.AverageSpeedMPH <= 0 {
		return Config{}, fmt.Errorf("AVERAGE_SPEED_MPH must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
