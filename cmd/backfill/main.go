package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	app "github.com/pitchside/refrank/internal/app"
	"github.com/pitchside/refrank/internal/config"
	"github.com/pitchside/refrank/internal/domain/types"
	"github.com/pitchside/refrank/internal/ingest"
	"github.com/pitchside/refrank/pkg/logger"
)

const defaultRunTimeout = 30 * time.Minute

func main() {
	var (
		inputFile  = flag.String("input", "", "Input CSV file of match statistics (required)")
		topN       = flag.Int("top", 10, "Number of leaderboard entries to print")
		league     = flag.String("league", "", "Restrict the leaderboard to one league")
		recentView = flag.Bool("recent", false, "Rank by the rolling window instead of the season average")
		archiveDSN = flag.String("archive", "", "Optional Postgres DSN to persist ratings to")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	if *inputFile == "" {
		os.Stderr.WriteString("missing required -input flag\n")
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*inputFile)
	if err != nil {
		log.Error(ctx, "failed to open input file", logger.Error(err))
		os.Exit(1)
	}
	defer f.Close()

	matches, rowErrs, err := ingest.ReadMatches(f)
	if err != nil {
		log.Error(ctx, "failed to read input file", logger.Error(err))
		os.Exit(1)
	}
	for _, rowErr := range rowErrs {
		log.Warn(ctx, "skipped malformed row",
			logger.Int("line", rowErr.Line),
			logger.Error(rowErr.Err),
		)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithWindow(cfg.RollingWindow),
		app.WithRatingWeights(cfg.RatingWeights()),
		app.WithDifficultyWeights(cfg.DifficultyWeights),
		app.WithMultiplierBounds(cfg.MinMultiplier, cfg.MaxMultiplier),
		app.WithArchiveDSN(*archiveDSN),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	result := svc.ProcessBatch(ctx, matches)
	log.Info(ctx, "backfill complete",
		logger.Int("processed", result.Processed),
		logger.Int("duplicates", result.Duplicates),
		logger.Int("failures", len(result.Failures)),
	)
	for _, failure := range result.Failures {
		log.Warn(ctx, "match rejected",
			logger.String("matchID", failure.MatchID),
			logger.String("refereeID", failure.RefereeID),
			logger.String("reason", failure.Reason),
		)
	}

	view := types.ViewSeason
	if *recentView {
		view = types.ViewRecent
	}
	entries, err := svc.Leaderboard(ctx, *league, view, *topN)
	if err != nil {
		log.Error(ctx, "failed to build leaderboard", logger.Error(err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		log.Error(ctx, "failed to encode leaderboard", logger.Error(err))
		os.Exit(1)
	}
}
