// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pitchside/refrank/internal/domain/model"
)

// RefereeDependencies defines the interface for rating-history reads.
type RefereeDependencies interface {
	Ratings(ctx context.Context, refereeID string) ([]model.MatchRating, error)
}

// RefereesHandler handles rating-history requests.
type RefereesHandler struct {
	deps RefereeDependencies
}

// NewRefereesHandler creates a new referees handler.
func NewRefereesHandler(deps RefereeDependencies) *RefereesHandler {
	return &RefereesHandler{deps: deps}
}

// ratingResponse is the read shape for one match rating.
type ratingResponse struct {
	MatchID              string  `json:"match_id"`
	League               string  `json:"league"`
	MatchDate            string  `json:"match_date"`
	DecisionAccuracy     float64 `json:"decision_accuracy"`
	FoulManagement       float64 `json:"foul_management"`
	VARAccuracy          float64 `json:"var_accuracy"`
	GameFlow             float64 `json:"game_flow"`
	BaseRating           float64 `json:"base_rating"`
	DifficultyMultiplier float64 `json:"difficulty_multiplier"`
	FinalRating          float64 `json:"final_rating"`
}

// HandleGetRatings handles GET /referees/{referee_id}/ratings requests.
func (h *RefereesHandler) HandleGetRatings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	// Expected shape: /referees/{referee_id}/ratings
	rest := strings.TrimPrefix(r.URL.Path, "/referees/")
	refereeID, tail, found := strings.Cut(rest, "/")
	if !found || refereeID == "" || tail != "ratings" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	history, err := h.deps.Ratings(r.Context(), refereeID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	out := make([]ratingResponse, len(history))
	for i, rating := range history {
		out[i] = ratingResponse{
			MatchID:              rating.MatchID,
			League:               rating.League,
			MatchDate:            rating.MatchDate.Format(time.RFC3339),
			DecisionAccuracy:     rating.Components.DecisionAccuracy,
			FoulManagement:       rating.Components.FoulManagement,
			VARAccuracy:          rating.Components.VARAccuracy,
			GameFlow:             rating.Components.GameFlow,
			BaseRating:           rating.BaseRating,
			DifficultyMultiplier: rating.DifficultyMultiplier,
			FinalRating:          rating.FinalRating,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
