// Package rating combines normalized component scores and a difficulty
// multiplier into the final per-match referee rating.
package rating

import (
	"fmt"
	"math"

	"github.com/pitchside/refrank/internal/domain/model"
)

// Public rating range. Component sums live in [0,1] and are rescaled
// linearly onto this range before the difficulty multiplier applies.
const (
	MinRating = 1.0
	MaxRating = 10.0
)

// weightSumTolerance absorbs float representation noise when checking that
// component weights sum to 1.0.
const weightSumTolerance = 1e-9

// Weights holds the component weights of the base rating formula.
type Weights struct {
	DecisionAccuracy float64
	FoulManagement   float64
	VARAccuracy      float64
	GameFlow         float64
}

// DefaultWeights returns the standard component weighting.
func DefaultWeights() Weights {
	return Weights{
		DecisionAccuracy: 0.40,
		FoulManagement:   0.30,
		VARAccuracy:      0.15,
		GameFlow:         0.15,
	}
}

// Validate checks that the weights are non-negative and sum to exactly 1.0.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"decision": w.DecisionAccuracy,
		"foul":     w.FoulManagement,
		"var":      w.VARAccuracy,
		"flow":     w.GameFlow,
	} {
		if v < 0 {
			return fmt.Errorf("%w: negative %s weight %.4f", ErrBadWeights, name, v)
		}
	}
	sum := w.DecisionAccuracy + w.FoulManagement + w.VARAccuracy + w.GameFlow
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.6f, want 1.0", ErrBadWeights, sum)
	}
	return nil
}

// Calculator produces MatchRating records. It is stateless apart from its
// validated weight table, so a single instance is safe for concurrent use.
type Calculator struct {
	weights Weights
}

// NewCalculator creates a calculator after validating the weight table.
// Invalid weights are a configuration fault and must abort startup, never
// be silently replaced with defaults.
func NewCalculator(opts ...Option) (*Calculator, error) {
	c := &Calculator{
		weights: DefaultWeights(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.weights.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Rate builds the immutable MatchRating for a match.
//
// base = 1 + 9 * (weighted component sum): the [0,1] weighted sum is mapped
// onto the public [1,10] scale so that an all-zero performance still reads
// as the scale minimum rather than an out-of-range zero. The difficulty
// multiplier then scales the base, clamped back into [1,10].
// Identical inputs always produce identical output.
func (c *Calculator) Rate(stats model.MatchStatistics, scores model.ComponentScores, multiplier float64) model.MatchRating {
	weighted := c.weights.DecisionAccuracy*scores.DecisionAccuracy +
		c.weights.FoulManagement*scores.FoulManagement +
		c.weights.VARAccuracy*scores.VARAccuracy +
		c.weights.GameFlow*scores.GameFlow

	base := MinRating + (MaxRating-MinRating)*weighted
	final := clamp(base*multiplier, MinRating, MaxRating)

	return model.MatchRating{
		MatchID:              stats.MatchID,
		RefereeID:            stats.RefereeID,
		League:               stats.League,
		MatchDate:            stats.MatchDate,
		Components:           scores,
		BaseRating:           base,
		DifficultyMultiplier: multiplier,
		FinalRating:          final,
	}
}

// Weights returns the calculator's weight table.
func (c *Calculator) Weights() Weights {
	return c.weights
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
