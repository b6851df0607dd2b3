// Package repository defines the rating store interface and errors.
package repository

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pitchside/refrank/internal/domain/aggregate"
	"github.com/pitchside/refrank/internal/domain/model"
	"github.com/pitchside/refrank/internal/domain/types"
	"github.com/pitchside/refrank/pkg/metrics"
)

// In-memory, append-only Store implementation.
//
// The rating log is the single source of truth: aggregates and
// leaderboards are always recomputed from it, never maintained
// incrementally. Recomputation runs per referee and is parallelized
// with an errgroup because referees are independent.

// MemStore keeps one append-only rating slice per referee.
type MemStore struct {
	mu     sync.RWMutex
	logs   map[string][]model.MatchRating
	seen   map[string]struct{} // "refereeID|matchID" identities
	total  int
	window int
}

// NewMemStore creates an in-memory rating store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		logs:   make(map[string][]model.MatchRating),
		seen:   make(map[string]struct{}),
		window: aggregate.DefaultWindow,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Record appends rating to the referee's log unless the (referee, match)
// pair was already recorded.
func (s *MemStore) Record(_ context.Context, rating model.MatchRating) (bool, error) {
	key := rating.Key()

	s.mu.Lock()
	if _, dup := s.seen[key]; dup {
		s.mu.Unlock()
		return false, nil
	}
	s.seen[key] = struct{}{}
	s.logs[rating.RefereeID] = append(s.logs[rating.RefereeID], rating)
	s.total++
	referees, ratings := len(s.logs), s.total
	s.mu.Unlock()

	metrics.UpdateTotalReferees(referees)
	metrics.UpdateTotalRatings(ratings)
	return true, nil
}

// Ratings returns the referee's history ordered by match date ascending.
func (s *MemStore) Ratings(_ context.Context, refereeID string) ([]model.MatchRating, error) {
	s.mu.RLock()
	log, ok := s.logs[refereeID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, refereeID)
	}

	out := make([]model.MatchRating, len(log))
	copy(out, log)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchDate.Before(out[j].MatchDate)
	})
	return out, nil
}

// Aggregate recomputes the referee's averages from its rating log.
func (s *MemStore) Aggregate(_ context.Context, refereeID string) (model.RefereeAggregate, error) {
	s.mu.RLock()
	log, ok := s.logs[refereeID]
	s.mu.RUnlock()
	if !ok {
		return model.RefereeAggregate{}, fmt.Errorf("%w: %s", ErrNotFound, refereeID)
	}

	return aggregate.Summarize(log, s.window)
}

// Rank ranks the referee against every tracked referee under view.
func (s *MemStore) Rank(ctx context.Context, refereeID string, view types.View) (types.RefereeSummary, error) {
	aggregates, err := s.summarizeAll(ctx, AllLeagues)
	if err != nil {
		return types.RefereeSummary{}, err
	}

	entries := aggregate.Leaderboard(aggregates, view)
	for _, e := range entries {
		if e.RefereeID != refereeID {
			continue
		}
		for _, a := range aggregates {
			if a.RefereeID == refereeID {
				return types.RefereeSummary{
					Rank:          e.Rank,
					RefereeID:     a.RefereeID,
					League:        a.League,
					SeasonAverage: a.SeasonAverage,
					LastNAverage:  a.LastNAverage,
					MatchCount:    a.MatchCount,
				}, nil
			}
		}
	}
	return types.RefereeSummary{}, fmt.Errorf("%w: %s", ErrNotFound, refereeID)
}

// Leaderboard returns the top-limit entries under view, filtered by league.
func (s *MemStore) Leaderboard(ctx context.Context, league string, view types.View, limit int) ([]types.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	start := time.Now()
	aggregates, err := s.summarizeAll(ctx, league)
	if err != nil {
		return nil, err
	}

	entries := aggregate.Leaderboard(aggregates, view)
	if len(entries) > limit {
		entries = entries[:limit]
	}

	metrics.RecordLeaderboardBuild(float64(time.Since(start).Milliseconds()))
	return entries, nil
}

// Count returns the number of referees with at least one rating.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}

// TotalRatings returns the number of recorded match ratings.
func (s *MemStore) TotalRatings(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// summarizeAll recomputes every referee's aggregate in parallel and
// filters by league afterwards, since a referee's league is only known
// from their latest rating.
func (s *MemStore) summarizeAll(ctx context.Context, league string) ([]model.RefereeAggregate, error) {
	s.mu.RLock()
	logs := make([][]model.MatchRating, 0, len(s.logs))
	for _, log := range s.logs {
		logs = append(logs, log[:len(log):len(log)])
	}
	s.mu.RUnlock()

	aggregates := make([]model.RefereeAggregate, len(logs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, log := range logs {
		i, log := i, log
		g.Go(func() error {
			agg, err := aggregate.Summarize(log, s.window)
			if err != nil {
				return err
			}
			aggregates[i] = agg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if league == AllLeagues {
		return aggregates, nil
	}
	filtered := aggregates[:0]
	for _, a := range aggregates {
		if a.League == league {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}
