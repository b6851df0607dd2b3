// Package repository defines the rating store interface and errors.
package repository

import (
	"context"

	"github.com/pitchside/refrank/internal/domain/model"
	"github.com/pitchside/refrank/internal/domain/types"
)

// AllLeagues selects every league when passed as the league filter.
const AllLeagues = ""

// Store provides read/write access to the rating log and derived rankings.
type Store interface {
	// Record appends a match rating to the referee's log.
	// Returns false if a rating for the same (referee, match) pair
	// already exists; the log is never mutated in place.
	Record(ctx context.Context, rating model.MatchRating) (bool, error)

	// Ratings returns the full rating history for a referee ordered by
	// match date ascending. Returns ErrNotFound for an unknown referee.
	Ratings(ctx context.Context, refereeID string) ([]model.MatchRating, error)

	// Aggregate recomputes the season and rolling averages for a referee
	// from its rating log. Returns ErrNotFound when the referee has no
	// recorded ratings.
	Aggregate(ctx context.Context, refereeID string) (model.RefereeAggregate, error)

	// Rank returns the referee's current leaderboard position and
	// averages under the given view, ranked against all referees.
	// Returns ErrNotFound for an unknown referee.
	Rank(ctx context.Context, refereeID string, view types.View) (types.RefereeSummary, error)

	// Leaderboard returns the top-limit entries under the given view,
	// optionally filtered by league (AllLeagues for no filter).
	Leaderboard(ctx context.Context, league string, view types.View, limit int) ([]types.LeaderboardEntry, error)

	// Count returns the number of referees with at least one rating.
	Count(ctx context.Context) int

	// TotalRatings returns the number of recorded match ratings.
	TotalRatings(ctx context.Context) int
}
