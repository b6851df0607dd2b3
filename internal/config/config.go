// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New(); Load layers file and env on top.
// - A configuration fault is fatal: the process must refuse to start
//   rather than run with a silently repaired value.
package config

import (
	"fmt"
	"runtime"

	"github.com/pitchside/refrank/internal/domain/aggregate"
	"github.com/pitchside/refrank/internal/domain/difficulty"
	"github.com/pitchside/refrank/internal/domain/rating"
)

// ComponentWeights configures the base-rating formula.
type ComponentWeights struct {
	DecisionAccuracy float64 `koanf:"decision_accuracy"`
	FoulManagement   float64 `koanf:"foul_management"`
	VARAccuracy      float64 `koanf:"var_accuracy"`
	GameFlow         float64 `koanf:"game_flow"`
}

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory match queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of rating workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// RollingWindow sets how many recent matches the rolling average covers.
	RollingWindow int `koanf:"rolling_window"`

	// ComponentWeights configures the base-rating formula. The four
	// weights must sum to exactly 1.0.
	ComponentWeights ComponentWeights `koanf:"component_weights"`

	// DifficultyWeights maps difficulty sub-factor names to their weights.
	DifficultyWeights map[string]float64 `koanf:"difficulty_weights"`

	// MinMultiplier and MaxMultiplier bound the difficulty multiplier.
	MinMultiplier float64 `koanf:"min_multiplier"`
	MaxMultiplier float64 `koanf:"max_multiplier"`

	// PostgresDSN enables the write-behind rating archive when set.
	PostgresDSN string `koanf:"postgres_dsn"`
}

// New creates a Config holding the documented defaults.
func New() *Config {
	defaults := rating.DefaultWeights()
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		QueueSize:           100_000,
		WorkerCount:         runtime.NumCPU() * 4,
		DedupeSize:          500_000,
		MaxLeaderboardLimit: 100,
		RollingWindow:       aggregate.DefaultWindow,
		ComponentWeights: ComponentWeights{
			DecisionAccuracy: defaults.DecisionAccuracy,
			FoulManagement:   defaults.FoulManagement,
			VARAccuracy:      defaults.VARAccuracy,
			GameFlow:         defaults.GameFlow,
		},
		DifficultyWeights: difficulty.DefaultWeights(),
		MinMultiplier:     difficulty.DefaultMinMultiplier,
		MaxMultiplier:     difficulty.DefaultMaxMultiplier,
	}
}

// RatingWeights converts the configured component weights to the domain type.
func (c *Config) RatingWeights() rating.Weights {
	return rating.Weights{
		DecisionAccuracy: c.ComponentWeights.DecisionAccuracy,
		FoulManagement:   c.ComponentWeights.FoulManagement,
		VARAccuracy:      c.ComponentWeights.VARAccuracy,
		GameFlow:         c.ComponentWeights.GameFlow,
	}
}

// Validate checks the configuration. Any failure is a startup-aborting
// configuration fault.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size %d must be positive", ErrInvalidConfig, c.QueueSize)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count %d must be positive", ErrInvalidConfig, c.WorkerCount)
	}
	if c.MaxLeaderboardLimit <= 0 {
		return fmt.Errorf("%w: max_leaderboard_limit %d must be positive", ErrInvalidConfig, c.MaxLeaderboardLimit)
	}
	if c.RollingWindow <= 0 {
		return fmt.Errorf("%w: rolling_window %d must be positive", ErrInvalidConfig, c.RollingWindow)
	}
	if err := c.RatingWeights().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.MinMultiplier >= c.MaxMultiplier {
		return fmt.Errorf("%w: multiplier bounds [%.2f, %.2f] are inverted",
			ErrInvalidConfig, c.MinMultiplier, c.MaxMultiplier)
	}
	if err := difficulty.ValidateWeights(c.DifficultyWeights); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
