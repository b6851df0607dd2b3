package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/pitchside/refrank/internal/simdata"
	"github.com/pitchside/refrank/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumMatches = 1000
	defaultReferees   = 25
	defaultTopN       = 10
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numMatches = flag.Int("matches", defaultNumMatches, "Number of matches to generate and submit")
		referees   = flag.Int("referees", defaultReferees, "Number of distinct referees")
		topN       = flag.Int("top", defaultTopN, "Number of leaderboard entries to fetch afterwards")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simdata.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simdata.Config{
		BaseURL:    *baseURL,
		NumMatches: *numMatches,
		Referees:   *referees,
		TopN:       *topN,
		Workers:    *workers,
		Timeout:    *timeout,
		Verbose:    *verbose,
	}

	if err := simdata.Run(ctx, config); err != nil {
		logger.Get().Error(ctx, "seeding run failed", logger.Error(err))
		os.Exit(1)
	}
}
