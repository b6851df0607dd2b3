// Package simdata generates synthetic match statistics and submits them
// to a running service for load testing and demos.
package simdata

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumMatches int           // Number of matches to generate
	Referees   int           // Number of distinct referees
	TopN       int           // Number of leaderboard entries to fetch afterwards
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	Verbose    bool          // Enable verbose logging
}

// Match mirrors the POST /matches request schema.
type Match struct {
	MatchID             string       `json:"match_id"`
	RefereeID           string       `json:"referee_id"`
	League              string       `json:"league"`
	MatchDate           string       `json:"match_date"`
	CorrectDecisionsPct float64      `json:"correct_decisions_pct"`
	ClearErrorsCount    int          `json:"clear_errors_count"`
	VARReviewsCount     int          `json:"var_reviews_count"`
	VAROverturnsCount   int          `json:"var_overturns_count"`
	FoulManagementRaw   float64      `json:"foul_management_raw"`
	BallInPlayPct       float64      `json:"ball_in_play_pct"`
	Context             MatchContext `json:"context"`
}

// MatchContext mirrors the contextual block of the request schema.
type MatchContext struct {
	MatchImportance       float64 `json:"match_importance"`
	RivalryIntensity      float64 `json:"rivalry_intensity"`
	AttendancePressurePct float64 `json:"attendance_pressure_pct"`
	ExpectedFoulFrequency float64 `json:"expected_foul_frequency"`
	WeatherSeverity       float64 `json:"weather_severity"`
	CardHistoryFactor     float64 `json:"card_history_factor"`
}

// Entry mirrors a leaderboard row returned by the service.
type Entry struct {
	Rank       int     `json:"rank"`
	RefereeID  string  `json:"referee_id"`
	League     string  `json:"league"`
	Rating     float64 `json:"rating"`
	MatchCount int     `json:"match_count"`
}

// AckResponse represents the response from match submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds seeding statistics.
type Stats struct {
	MatchesGenerated   int
	MatchesSubmitted   int
	MatchesSuccessful  int
	MatchesDuplicate   int
	MatchesFailed      int
	LeaderboardEntries int
	StartTime          time.Time
	Duration           time.Duration
}
