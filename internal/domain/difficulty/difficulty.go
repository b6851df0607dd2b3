// Package difficulty computes the match difficulty multiplier applied to a
// referee's base performance rating.
package difficulty

import (
	"fmt"
	"math"

	"github.com/pitchside/refrank/internal/domain/model"
)

// Default multiplier bounds. A routine match, with every contextual factor
// near its baseline, lands close to 1.0; a maximally difficult derby
// approaches the upper bound.
const (
	DefaultMinMultiplier = 0.5
	DefaultMaxMultiplier = 2.0
)

// weightSumTolerance absorbs float representation noise when checking that
// sub-factor weights sum to 1.0.
const weightSumTolerance = 1e-9

// Sub-factor weight keys recognized by the evaluator.
const (
	FactorImportance = "importance"
	FactorRivalry    = "rivalry"
	FactorAttendance = "attendance"
	FactorFouls      = "fouls"
	FactorWeather    = "weather"
	FactorCards      = "cards"
)

// DefaultWeights returns the documented default sub-factor weights.
// There is no canonical table in the source data; these defaults weight the
// sporting stakes heaviest and environmental factors lightest, and must sum
// to 1.0. Callers override them through configuration.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		FactorImportance: 0.30,
		FactorRivalry:    0.20,
		FactorAttendance: 0.15,
		FactorFouls:      0.15,
		FactorWeather:    0.10,
		FactorCards:      0.10,
	}
}

// ValidateWeights checks a sub-factor weight table. Every key must name a
// known factor, every weight must be non-negative, and the weights must sum
// to 1.0. A factor absent from the table carries weight zero, so a partial
// table is valid only when its entries alone sum to 1.0.
func ValidateWeights(weights map[string]float64) error {
	sum := 0.0
	for name, w := range weights {
		switch name {
		case FactorImportance, FactorRivalry, FactorAttendance,
			FactorFouls, FactorWeather, FactorCards:
		default:
			return fmt.Errorf("%w: unknown factor %q", ErrBadWeights, name)
		}
		if w < 0 {
			return fmt.Errorf("%w: %s weight %.4f is negative", ErrBadWeights, name, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.4f, want 1.0", ErrBadWeights, sum)
	}
	return nil
}

// Evaluator derives a difficulty multiplier from match context.
type Evaluator struct {
	weights       map[string]float64
	minMultiplier float64
	maxMultiplier float64
}

// NewEvaluator creates an evaluator after validating its weight table.
// An invalid table is a configuration fault and must abort startup, never
// be silently repaired.
func NewEvaluator(opts ...Option) (*Evaluator, error) {
	e := &Evaluator{
		weights:       DefaultWeights(),
		minMultiplier: DefaultMinMultiplier,
		maxMultiplier: DefaultMaxMultiplier,
	}

	for _, opt := range opts {
		opt(e)
	}

	if err := ValidateWeights(e.weights); err != nil {
		return nil, err
	}
	return e, nil
}

// Multiplier computes the difficulty multiplier for the given context.
// Each sub-factor must already be a normalized intensity in [0,1]; the
// weighted combination is rescaled linearly into the configured
// [min, max] multiplier range. Returns ErrInvalidInput when a factor is
// outside its domain.
func (e *Evaluator) Multiplier(ctx model.MatchContext) (float64, error) {
	factors := map[string]float64{
		FactorImportance: ctx.MatchImportance,
		FactorRivalry:    ctx.RivalryIntensity,
		FactorAttendance: ctx.AttendancePressurePct,
		FactorFouls:      ctx.ExpectedFoulFrequency,
		FactorWeather:    ctx.WeatherSeverity,
		FactorCards:      ctx.CardHistoryFactor,
	}

	combined := 0.0
	for name, value := range factors {
		if value < 0 || value > 1 {
			return 0, fmt.Errorf("%w: %s %.4f outside [0,1]", ErrInvalidInput, name, value)
		}
		combined += value * e.weights[name]
	}

	// Weights are validated at construction: non-negative, summing to 1.0.
	// With every factor in [0,1] the combined sum stays in [0,1] and the
	// linear rescale cannot leave the configured range.
	return e.minMultiplier + combined*(e.maxMultiplier-e.minMultiplier), nil
}

// Bounds returns the configured multiplier range.
func (e *Evaluator) Bounds() (minMultiplier, maxMultiplier float64) {
	return e.minMultiplier, e.maxMultiplier
}
