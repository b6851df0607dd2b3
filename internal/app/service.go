// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	matchqueue "github.com/pitchside/refrank/internal/adapters/mq/queue"
	workerpool "github.com/pitchside/refrank/internal/adapters/mq/worker"
	repository "github.com/pitchside/refrank/internal/adapters/repository"
	"github.com/pitchside/refrank/internal/domain/dedupe"
	"github.com/pitchside/refrank/internal/domain/difficulty"
	"github.com/pitchside/refrank/internal/domain/model"
	"github.com/pitchside/refrank/internal/domain/rating"
	"github.com/pitchside/refrank/internal/domain/types"
	"github.com/pitchside/refrank/pkg/logger"
	"github.com/pitchside/refrank/pkg/metrics"
)

// Service wires the rating pipeline: queue, workers, engine, and store.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	matchQueue matchqueue.Queue
	engine     *rating.Engine
	workerPool *workerpool.Pool
	archive    *repository.Archive

	// Configuration
	workerCount       int
	queueSize         int
	dedupeSize        int
	window            int
	ratingWeights     rating.Weights
	difficultyWeights map[string]float64
	minMultiplier     float64
	maxMultiplier     float64
	archiveDSN        string

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:       runtime.NumCPU() * 2,
		queueSize:         100000,
		dedupeSize:        50000,
		window:            0, // store default applies
		ratingWeights:     rating.DefaultWeights(),
		difficultyWeights: difficulty.DefaultWeights(),
		minMultiplier:     difficulty.DefaultMinMultiplier,
		maxMultiplier:     difficulty.DefaultMaxMultiplier,
		stopCh:            make(chan struct{}),
		logger:            nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
// A configuration fault (such as a weight table that does not sum to 1.0)
// is returned as an error and must abort startup.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting rating service...")

	calculator, err := rating.NewCalculator(rating.WithWeights(s.ratingWeights))
	if err != nil {
		return err
	}
	evaluator, err := difficulty.NewEvaluator(
		difficulty.WithWeights(s.difficultyWeights),
		difficulty.WithMultiplierBounds(s.minMultiplier, s.maxMultiplier),
	)
	if err != nil {
		return err
	}
	s.engine = rating.NewEngine(evaluator, calculator)

	storeOpts := []repository.Option{}
	if s.window > 0 {
		storeOpts = append(storeOpts, repository.WithWindow(s.window))
	}
	s.store = repository.NewMemStore(storeOpts...)

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.matchQueue = matchqueue.NewInMemoryQueue(
		matchqueue.WithCapacity(s.queueSize),
		matchqueue.WithBufferSize(s.queueSize),
	)

	var recorder workerpool.Recorder = s.store
	if s.archiveDSN != "" {
		archive, err := repository.OpenArchive(ctx, s.archiveDSN)
		if err != nil {
			return err
		}
		s.archive = archive
		if err := s.replayArchive(ctx); err != nil {
			return err
		}
		recorder = &archivingRecorder{
			store:   s.store,
			archive: archive,
			logger:  s.logger.Named("archive"),
		}
	}

	s.workerPool = workerpool.NewPool(s.workerCount, s.matchQueue, s.engine, recorder)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "rating service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// replayArchive rebuilds the in-memory rating log from the archive.
func (s *Service) replayArchive(ctx context.Context) error {
	replayed := 0
	err := s.archive.Replay(ctx, func(r model.MatchRating) error {
		if recorded, err := s.store.Record(ctx, r); err != nil {
			return err
		} else if recorded {
			s.deduper.SeenAndRecord(ctx, r.Key())
			replayed++
		}
		return nil
	})
	if err != nil {
		return err
	}
	if replayed > 0 {
		s.logger.Info(ctx, "replayed archived ratings", logger.Int("count", replayed))
	}
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping rating service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	if q, ok := s.matchQueue.(*matchqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	if s.archive != nil {
		_ = s.archive.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "rating service stopped")
}

// SeenAndRecord atomically checks if a (referee, match) identity was
// seen and records it if not. Returns true for a duplicate submission.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordMatchDuplicate()
	}
	return seen
}

// Unrecord removes an identity from the seen set, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits raw match statistics for asynchronous rating.
// Returns false when the queue rejected the match. The store remains
// the final duplicate guard; Enqueue itself does not deduplicate.
func (s *Service) Enqueue(ctx context.Context, stats model.MatchStatistics) bool {
	if !s.matchQueue.Enqueue(ctx, stats) {
		s.logger.Warn(ctx, "match queue rejected submission",
			logger.String("matchID", stats.MatchID),
			logger.String("refereeID", stats.RefereeID),
		)
		return false
	}

	metrics.UpdateQueueSize(s.matchQueue.Len(ctx))
	return true
}

// Leaderboard returns the top-limit entries under view, optionally
// filtered by league.
func (s *Service) Leaderboard(ctx context.Context, league string, view types.View, limit int) ([]types.LeaderboardEntry, error) {
	return s.store.Leaderboard(ctx, league, view, limit)
}

// Rank returns the referee's standing under the given view.
func (s *Service) Rank(ctx context.Context, refereeID string, view types.View) (types.RefereeSummary, error) {
	return s.store.Rank(ctx, refereeID, view)
}

// Ratings returns the referee's full rating history in match-date order.
func (s *Service) Ratings(ctx context.Context, refereeID string) ([]model.MatchRating, error) {
	return s.store.Ratings(ctx, refereeID)
}

// Aggregate returns the referee's season and rolling averages.
func (s *Service) Aggregate(ctx context.Context, refereeID string) (model.RefereeAggregate, error) {
	return s.store.Aggregate(ctx, refereeID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.matchQueue.Len(ctx)
		totalReferees := s.store.Count(ctx)
		totalRatings := s.store.TotalRatings(ctx)

		stats["queueLength"] = queueLen
		stats["totalReferees"] = totalReferees
		stats["totalRatings"] = totalRatings

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalReferees(totalReferees)
		metrics.UpdateTotalRatings(totalRatings)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// archivingRecorder writes accepted ratings through to the Postgres
// archive after the in-memory store takes them. An archive failure is
// logged, never propagated: durability is best-effort, the in-memory
// log stays authoritative.
type archivingRecorder struct {
	store   repository.Store
	archive *repository.Archive
	logger  logger.Logger
}

func (r *archivingRecorder) Record(ctx context.Context, rating model.MatchRating) (bool, error) {
	recorded, err := r.store.Record(ctx, rating)
	if err != nil || !recorded {
		return recorded, err
	}
	if err := r.archive.Save(ctx, rating); err != nil {
		r.logger.Error(ctx, "archiving rating failed", logger.Error(err))
	}
	return true, nil
}
