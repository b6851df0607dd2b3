package service

import (
	"github.com/pitchside/refrank/internal/domain/rating"
	"github.com/pitchside/refrank/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of rating workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the match queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithWindow sets the rolling-average window.
func WithWindow(window int) Option {
	return func(s *Service) {
		if window > 0 {
			s.window = window
		}
	}
}

// WithRatingWeights sets the component weights of the base rating.
// The weights are validated on Start.
func WithRatingWeights(weights rating.Weights) Option {
	return func(s *Service) {
		s.ratingWeights = weights
	}
}

// WithDifficultyWeights sets the difficulty sub-factor weights.
func WithDifficultyWeights(weights map[string]float64) Option {
	return func(s *Service) {
		if len(weights) > 0 {
			s.difficultyWeights = weights
		}
	}
}

// WithMultiplierBounds sets the difficulty multiplier range.
func WithMultiplierBounds(minMultiplier, maxMultiplier float64) Option {
	return func(s *Service) {
		s.minMultiplier = minMultiplier
		s.maxMultiplier = maxMultiplier
	}
}

// WithArchiveDSN enables the write-behind Postgres archive.
func WithArchiveDSN(dsn string) Option {
	return func(s *Service) {
		s.archiveDSN = dsn
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
