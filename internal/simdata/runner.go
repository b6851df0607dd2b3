package simdata

import (
	"context"
	"fmt"
	"time"

	"github.com/pitchside/refrank/pkg/logger"
)

// Run executes a full seeding cycle: generate matches, submit them
// concurrently, fetch the resulting leaderboard, and print a summary.
func Run(ctx context.Context, config *Config) error {
	log := logger.Get()
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting seeding run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("matches", config.NumMatches),
		logger.Int("referees", config.Referees),
	)

	matches := generateMatches(ctx, config, stats)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := submitMatches(ctx, config, matches, stats); err != nil {
		return fmt.Errorf("failed to submit matches: %w", err)
	}

	entries, err := fetchLeaderboard(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	stats.Duration = time.Since(stats.StartTime)
	printSummary(ctx, stats, entries)
	return nil
}

func printSummary(ctx context.Context, stats *Stats, entries []Entry) {
	log := logger.Get()
	log.Info(ctx, "seeding run complete",
		logger.Int("generated", stats.MatchesGenerated),
		logger.Int("submitted", stats.MatchesSubmitted),
		logger.Int("successful", stats.MatchesSuccessful),
		logger.Int("duplicate", stats.MatchesDuplicate),
		logger.Int("failed", stats.MatchesFailed),
		logger.String("duration", stats.Duration.Round(time.Millisecond).String()),
	)

	for _, entry := range entries {
		log.Info(ctx, "leaderboard entry",
			logger.Int("rank", entry.Rank),
			logger.String("refereeID", entry.RefereeID),
			logger.String("league", entry.League),
			logger.Float64("rating", entry.Rating),
			logger.Int("matches", entry.MatchCount),
		)
	}
}
