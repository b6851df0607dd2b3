// Package repository defines the rating store interface and errors.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // postgres driver

	"github.com/pitchside/refrank/internal/domain/model"
)

// Archive persists the rating log to Postgres so the engine can replay
// it on startup. It is write-behind: the in-memory store stays the
// source of truth for reads, the archive only makes the log durable.
type Archive struct {
	db *sql.DB
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS match_ratings (
	referee_id            TEXT             NOT NULL,
	match_id              TEXT             NOT NULL,
	league                TEXT             NOT NULL,
	match_date            TIMESTAMPTZ      NOT NULL,
	decision_accuracy     DOUBLE PRECISION NOT NULL,
	foul_management       DOUBLE PRECISION NOT NULL,
	var_accuracy          DOUBLE PRECISION NOT NULL,
	game_flow             DOUBLE PRECISION NOT NULL,
	base_rating           DOUBLE PRECISION NOT NULL,
	difficulty_multiplier DOUBLE PRECISION NOT NULL,
	final_rating          DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (referee_id, match_id)
)`

// OpenArchive connects to Postgres and ensures the rating table exists.
func OpenArchive(ctx context.Context, dsn string) (*Archive, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping archive: %w", err)
	}
	if _, err := db.ExecContext(ctx, archiveSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure archive schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Save writes one rating. Re-saving the same (referee, match) pair is a
// no-op, matching the in-memory store's append-once semantics.
func (a *Archive) Save(ctx context.Context, r model.MatchRating) error {
	const q = `
INSERT INTO match_ratings (
	referee_id, match_id, league, match_date,
	decision_accuracy, foul_management, var_accuracy, game_flow,
	base_rating, difficulty_multiplier, final_rating
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (referee_id, match_id) DO NOTHING`

	_, err := a.db.ExecContext(ctx, q,
		r.RefereeID, r.MatchID, r.League, r.MatchDate,
		r.Components.DecisionAccuracy, r.Components.FoulManagement,
		r.Components.VARAccuracy, r.Components.GameFlow,
		r.BaseRating, r.DifficultyMultiplier, r.FinalRating,
	)
	if err != nil {
		return fmt.Errorf("save rating %s: %w", r.Key(), err)
	}
	return nil
}

// Replay streams every archived rating to fn in match-date order.
// Replay stops at the first error fn returns.
func (a *Archive) Replay(ctx context.Context, fn func(model.MatchRating) error) error {
	const q = `
SELECT referee_id, match_id, league, match_date,
	decision_accuracy, foul_management, var_accuracy, game_flow,
	base_rating, difficulty_multiplier, final_rating
FROM match_ratings
ORDER BY match_date ASC`

	rows, err := a.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("replay ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r model.MatchRating
		if err := rows.Scan(
			&r.RefereeID, &r.MatchID, &r.League, &r.MatchDate,
			&r.Components.DecisionAccuracy, &r.Components.FoulManagement,
			&r.Components.VARAccuracy, &r.Components.GameFlow,
			&r.BaseRating, &r.DifficultyMultiplier, &r.FinalRating,
		); err != nil {
			return fmt.Errorf("scan rating: %w", err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Close releases the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}
