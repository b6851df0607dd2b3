// Package rating combines normalized component scores and a difficulty
// multiplier into the final per-match referee rating.
package rating

import (
	"context"
	"fmt"

	"github.com/pitchside/refrank/internal/domain/difficulty"
	"github.com/pitchside/refrank/internal/domain/model"
	"github.com/pitchside/refrank/internal/domain/normalize"
)

// Engine runs the full per-match pipeline: normalize the raw statistics,
// evaluate the context's difficulty, then rate. It holds no per-match
// state and is safe for concurrent use.
type Engine struct {
	evaluator  *difficulty.Evaluator
	calculator *Calculator
}

// NewEngine composes an engine from a configured evaluator and calculator.
func NewEngine(evaluator *difficulty.Evaluator, calculator *Calculator) *Engine {
	return &Engine{
		evaluator:  evaluator,
		calculator: calculator,
	}
}

// Rate produces the MatchRating for one match's raw statistics.
// Invalid statistics or context yield a wrapped ErrInvalidInput from the
// offending stage; the failure never carries past the single match.
func (e *Engine) Rate(_ context.Context, stats model.MatchStatistics) (model.MatchRating, error) {
	scores, err := normalize.Components(stats)
	if err != nil {
		return model.MatchRating{}, fmt.Errorf("match %s: %w", stats.MatchID, err)
	}

	multiplier, err := e.evaluator.Multiplier(stats.Context)
	if err != nil {
		return model.MatchRating{}, fmt.Errorf("match %s: %w", stats.MatchID, err)
	}

	return e.calculator.Rate(stats, scores, multiplier), nil
}
