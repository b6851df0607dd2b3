// Package types contains common types used across the application
package types

// View selects which average a leaderboard ranks by.
type View string

const (
	// ViewSeason ranks referees by their season average.
	ViewSeason View = "season"
	// ViewRecent ranks referees by their rolling last-N average.
	ViewRecent View = "recent"
)

// Valid reports whether v names a known leaderboard view.
func (v View) Valid() bool {
	return v == ViewSeason || v == ViewRecent
}

// LeaderboardEntry represents a leaderboard row.
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	RefereeID  string  `json:"referee_id"`
	League     string  `json:"league"`
	Rating     float64 `json:"rating"`
	MatchCount int     `json:"match_count"`
}

// RefereeSummary is the read shape for a single referee's standing.
type RefereeSummary struct {
	Rank          int     `json:"rank"`
	RefereeID     string  `json:"referee_id"`
	League        string  `json:"league"`
	SeasonAverage float64 `json:"season_average"`
	LastNAverage  float64 `json:"last_n_average"`
	MatchCount    int     `json:"match_count"`
}
