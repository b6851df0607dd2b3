// Package aggregate reduces immutable per-match ratings into referee
// aggregates and leaderboard projections.
//
// Every function here is a pure recomputation over the rating history it is
// given. There are no incremental accumulators anywhere: recomputing twice
// from the same log yields byte-identical results, which keeps the engine
// reproducible and trivially parallelizable per referee.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/pitchside/refrank/internal/domain/model"
	"github.com/pitchside/refrank/internal/domain/types"
)

// DefaultWindow is the default rolling-average window.
const DefaultWindow = 5

// Summarize computes a referee's aggregate from their full rating history.
// The history may arrive in any order; it is sorted by match date before the
// rolling window is taken. With fewer than window ratings the rolling
// average covers whatever exists. An empty history returns ErrNoRatings —
// a referee with no rated matches has no rating, not a placeholder score.
func Summarize(ratings []model.MatchRating, window int) (model.RefereeAggregate, error) {
	if window <= 0 {
		return model.RefereeAggregate{}, fmt.Errorf("%w: window %d", ErrBadWindow, window)
	}
	if len(ratings) == 0 {
		return model.RefereeAggregate{}, ErrNoRatings
	}

	ordered := make([]model.MatchRating, len(ratings))
	copy(ordered, ratings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MatchDate.Before(ordered[j].MatchDate)
	})

	total := 0.0
	for _, r := range ordered {
		total += r.FinalRating
	}

	recent := ordered
	if len(ordered) > window {
		recent = ordered[len(ordered)-window:]
	}
	recentTotal := 0.0
	for _, r := range recent {
		recentTotal += r.FinalRating
	}

	latest := ordered[len(ordered)-1]
	return model.RefereeAggregate{
		RefereeID:     latest.RefereeID,
		League:        latest.League,
		SeasonAverage: total / float64(len(ordered)),
		LastNAverage:  recentTotal / float64(len(recent)),
		MatchCount:    len(ordered),
	}, nil
}

// Leaderboard projects aggregates into a ranked list for one scope.
// Entries sort descending by the selected view's average. Ties break by
// higher match count, then by referee id ascending, so identical inputs
// always produce the same ordering. Rank is 1-based.
func Leaderboard(aggregates []model.RefereeAggregate, view types.View) []types.LeaderboardEntry {
	entries := make([]types.LeaderboardEntry, 0, len(aggregates))
	for _, a := range aggregates {
		entries = append(entries, types.LeaderboardEntry{
			RefereeID:  a.RefereeID,
			League:     a.League,
			Rating:     ratingFor(a, view),
			MatchCount: a.MatchCount,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		if entries[i].MatchCount != entries[j].MatchCount {
			return entries[i].MatchCount > entries[j].MatchCount
		}
		return entries[i].RefereeID < entries[j].RefereeID
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func ratingFor(a model.RefereeAggregate, view types.View) float64 {
	if view == types.ViewRecent {
		return a.LastNAverage
	}
	return a.SeasonAverage
}
