// Package worker defines worker contracts for asynchronous rating and
// recording of match statistics.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/pitchside/refrank/internal/domain/model"
	"github.com/pitchside/refrank/internal/domain/normalize"
	"github.com/pitchside/refrank/pkg/logger"
	"github.com/pitchside/refrank/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Event abstracts what workers read off the queue.
type Event = model.MatchStatistics

// Rater turns raw match statistics into a match rating.
type Rater interface {
	Rate(ctx context.Context, stats model.MatchStatistics) (model.MatchRating, error)
}

// Recorder appends a rating to the store.
// Returns false if the (referee, match) pair was already recorded.
type Recorder interface {
	Record(ctx context.Context, rating model.MatchRating) (bool, error)
}

// Queue defines how workers receive matches.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker processes queued matches through the rating pipeline.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing matches.
type InMemoryWorker struct {
	queue    Queue
	rater    Rater
	recorder Recorder
	name     string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, rater Rater, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		rater:    rater,
		recorder: recorder,
		name:     "worker", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	eventChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-eventChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processMatch(ctx, event); err != nil {
				w.logger.Error(ctx, "error processing match", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processMatch rates and records a single match. A failure affects only
// this match; the worker keeps consuming.
func (w *InMemoryWorker) processMatch(ctx context.Context, event Event) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	rateStart := time.Now()
	rating, err := w.rater.Rate(ctx, event)
	metrics.RecordRatingLatency(float64(time.Since(rateStart).Milliseconds()))

	if err != nil {
		metrics.RecordRatingError()
		metrics.RecordWorkerError()
		if errors.Is(err, normalize.ErrInvalidInput) {
			metrics.RecordMatchInvalid()
		}
		w.logger.Error(ctx, "rating failed for match",
			logger.String("matchID", event.MatchID),
			logger.String("refereeID", event.RefereeID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to rate match %s: %w", event.MatchID, err)
	}

	recorded, err := w.recorder.Record(ctx, rating)
	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "recording failed for match",
			logger.String("matchID", event.MatchID),
			logger.String("refereeID", event.RefereeID),
			logger.Error(err),
		)
		return fmt.Errorf("recording failed: %w", err)
	}

	if !recorded {
		metrics.RecordMatchDuplicate()
		return nil
	}

	metrics.RecordMatchProcessed()
	metrics.RecordFinalRating(rating.FinalRating)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, rater Rater, recorder Recorder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			rater,
			recorder,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()

	for _, worker := range p.workers {
		_ = worker.Shutdown(ctx)
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// Close the queue first so workers drain and stop on channel close.
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateWorkerCount(0)

	return nil
}
