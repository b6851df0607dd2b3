// Package model contains domain models passed between layers.
package model

import "time"

// MatchStatistics is the raw per-match record produced by the data-ingestion
// pipeline. It is immutable once recorded. All percentage fields use the
// fraction scale: a value in [0,1], never 0-100.
type MatchStatistics struct {
	MatchID   string
	RefereeID string
	League    string
	MatchDate time.Time

	// Performance metrics.
	CorrectDecisionsPct float64 // share of decisions judged correct, [0,1]
	ClearErrorsCount    int     // clear and obvious errors
	VARReviewsCount     int     // VAR reviews initiated
	VAROverturnsCount   int     // reviews overturning the on-field call
	FoulManagementRaw   float64 // observed card-issuance intensity, [0,1]
	BallInPlayPct       float64 // share of match time with ball in play, [0,1]

	Context MatchContext
}

// MatchContext holds the contextual difficulty factors of a match.
// Every factor is a normalized intensity in [0,1].
type MatchContext struct {
	MatchImportance       float64 // stakes of the fixture (title race, relegation)
	RivalryIntensity      float64 // derby/rivalry heat
	AttendancePressurePct float64 // crowd pressure, combines fill rate and size
	ExpectedFoulFrequency float64 // pre-match expected foul intensity
	WeatherSeverity       float64 // adverse weather conditions
	CardHistoryFactor     float64 // historical card count of this fixture
}

// ComponentScores are the four normalized performance components derived
// deterministically from a MatchStatistics record. Each is in [0,1].
// They carry no identity of their own and are always recomputed.
type ComponentScores struct {
	DecisionAccuracy float64
	FoulManagement   float64
	VARAccuracy      float64
	GameFlow         float64
}

// MatchRating is the immutable per-match outcome of the rating pipeline.
// Created once per (referee, match) pair and never mutated.
type MatchRating struct {
	MatchID   string
	RefereeID string
	League    string
	MatchDate time.Time

	Components           ComponentScores
	BaseRating           float64 // weighted component sum scaled to [1,10]
	DifficultyMultiplier float64
	FinalRating          float64 // clamp(base * multiplier, 1, 10)
}

// Key returns the identity under which a rating is recorded: one rating per
// referee per match.
func (r MatchRating) Key() string {
	return r.RefereeID + "|" + r.MatchID
}

// RefereeAggregate is a derived summary of a referee's rating history.
// Recomputed in full from the rating log whenever new ratings arrive.
type RefereeAggregate struct {
	RefereeID     string
	League        string
	SeasonAverage float64
	LastNAverage  float64
	MatchCount    int
}
