// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pitchside/refrank/internal/adapters/repository"
	"github.com/pitchside/refrank/internal/domain/dedupe"
	"github.com/pitchside/refrank/internal/domain/model"
	"github.com/pitchside/refrank/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes raw match statistics for async rating.
	// Returns false on backpressure.
	Enqueue(ctx context.Context, stats model.MatchStatistics) bool

	// Read operations expose derived rankings.
	Leaderboard(ctx context.Context, league string, view types.View, limit int) ([]types.LeaderboardEntry, error)
	Rank(ctx context.Context, refereeID string, view types.View) (types.RefereeSummary, error)
	Ratings(ctx context.Context, refereeID string) ([]model.MatchRating, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	matchesHandler     *MatchesHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	refereesHandler    *RefereesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		matchesHandler:     NewMatchesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		rankHandler:        NewRankHandler(deps),
		refereesHandler:    NewRefereesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandlePostMatch, "matches"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/referees/", MetricsMiddleware(s.refereesHandler.HandleGetRatings, "referees"))
}

// matchContextRequest mirrors the OpenAPI schema for the contextual block.
type matchContextRequest struct {
	MatchImportance       float64 `json:"match_importance"`
	RivalryIntensity      float64 `json:"rivalry_intensity"`
	AttendancePressurePct float64 `json:"attendance_pressure_pct"`
	ExpectedFoulFrequency float64 `json:"expected_foul_frequency"`
	WeatherSeverity       float64 `json:"weather_severity"`
	CardHistoryFactor     float64 `json:"card_history_factor"`
}

// matchRequest mirrors the OpenAPI schema for POST /matches.
type matchRequest struct {
	MatchID             string              `json:"match_id"`
	RefereeID           string              `json:"referee_id"`
	League              string              `json:"league"`
	MatchDate           string              `json:"match_date"`
	CorrectDecisionsPct float64             `json:"correct_decisions_pct"`
	ClearErrorsCount    int                 `json:"clear_errors_count"`
	VARReviewsCount     int                 `json:"var_reviews_count"`
	VAROverturnsCount   int                 `json:"var_overturns_count"`
	FoulManagementRaw   float64             `json:"foul_management_raw"`
	BallInPlayPct       float64             `json:"ball_in_play_pct"`
	Context             matchContextRequest `json:"context"`
}

func (m matchRequest) validate() error {
	switch {
	case strings.TrimSpace(m.MatchID) == "":
		return errors.New("missing match_id")
	case strings.TrimSpace(m.RefereeID) == "":
		return errors.New("missing referee_id")
	case strings.TrimSpace(m.League) == "":
		return errors.New("missing league")
	case strings.TrimSpace(m.MatchDate) == "":
		return errors.New("missing match_date")
	}
	if _, err := time.Parse(time.RFC3339, m.MatchDate); err != nil {
		return errors.New("invalid match_date; must be RFC3339")
	}
	return nil
}

// toModel converts the request into domain statistics. validate must have
// passed first so the date parse cannot fail here.
func (m matchRequest) toModel() model.MatchStatistics {
	date, _ := time.Parse(time.RFC3339, m.MatchDate)
	return model.MatchStatistics{
		MatchID:             m.MatchID,
		RefereeID:           m.RefereeID,
		League:              m.League,
		MatchDate:           date,
		CorrectDecisionsPct: m.CorrectDecisionsPct,
		ClearErrorsCount:    m.ClearErrorsCount,
		VARReviewsCount:     m.VARReviewsCount,
		VAROverturnsCount:   m.VAROverturnsCount,
		FoulManagementRaw:   m.FoulManagementRaw,
		BallInPlayPct:       m.BallInPlayPct,
		Context: model.MatchContext{
			MatchImportance:       m.Context.MatchImportance,
			RivalryIntensity:      m.Context.RivalryIntensity,
			AttendancePressurePct: m.Context.AttendancePressurePct,
			ExpectedFoulFrequency: m.Context.ExpectedFoulFrequency,
			WeatherSeverity:       m.Context.WeatherSeverity,
			CardHistoryFactor:     m.Context.CardHistoryFactor,
		},
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// viewParam reads the ?view query parameter, defaulting to the season view.
func viewParam(r *http.Request) (types.View, error) {
	raw := r.URL.Query().Get("view")
	if raw == "" {
		return types.ViewSeason, nil
	}
	view := types.View(raw)
	if !view.Valid() {
		return "", errors.New("invalid view; must be season or recent")
	}
	return view, nil
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
