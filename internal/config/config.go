package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/harukit/journeys-backend-go/internal/engine"
)

// Config holds the application configuration
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string

	// Engine thresholds
	MovementRadiusMeters float64
	SuddenJumpMeters     float64
	StaleGap             time.Duration
	WindowHorizon        time.Duration
	CacheCapacity        int
	StoreTimeout         time.Duration

	// Ingest rate limiting, per client IP
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads configuration from the environment with defaults
func Load() *Config {
	v := viper.New()

	v.SetDefault("port", ":8080")
	v.SetDefault("db_path", "./data/journeys/journeys.db")
	v.SetDefault("jwt_secret", "your-secret-key-change-in-production")

	v.SetDefault("movement_radius_m", 50.0)
	v.SetDefault("sudden_jump_m", 5000.0)
	v.SetDefault("stale_gap", "5m")
	v.SetDefault("window_horizon", "5m")
	v.SetDefault("cache_capacity", 1024)
	v.SetDefault("store_timeout", "5s")

	v.SetDefault("rate_limit_per_second", 10.0)
	v.SetDefault("rate_limit_burst", 30)

	v.AutomaticEnv()

	return &Config{
		Port:      v.GetString("port"),
		DBPath:    v.GetString("db_path"),
		JWTSecret: v.GetString("jwt_secret"),

		MovementRadiusMeters: v.GetFloat64("movement_radius_m"),
		SuddenJumpMeters:     v.GetFloat64("sudden_jump_m"),
		StaleGap:             v.GetDuration("stale_gap"),
		WindowHorizon:        v.GetDuration("window_horizon"),
		CacheCapacity:        v.GetInt("cache_capacity"),
		StoreTimeout:         v.GetDuration("store_timeout"),

		RateLimitPerSecond: v.GetFloat64("rate_limit_per_second"),
		RateLimitBurst:     v.GetInt("rate_limit_burst"),
	}
}

// EngineConfig maps the configuration onto the engine's thresholds
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		MovementRadiusMeters: c.MovementRadiusMeters,
		SuddenJumpMeters:     c.SuddenJumpMeters,
		StaleGap:             c.StaleGap,
		WindowHorizon:        c.WindowHorizon,
		CacheCapacity:        c.CacheCapacity,
		StoreTimeout:         c.StoreTimeout,
	}
}
