// Package normalize converts raw per-match referee statistics into bounded
// component scores.
//
// All percentage inputs follow the fraction convention: values in [0,1].
// The produced ComponentScores are pure derivations of the input record;
// nothing here keeps state or mutates its argument.
package normalize

import (
	"fmt"

	"github.com/pitchside/refrank/internal/domain/model"
)

// Components derives the four normalized component scores from a raw match
// record.
//
//   - DecisionAccuracy is the correct-decision fraction as reported.
//   - FoulManagement decreases linearly with the deviation between observed
//     card-issuance intensity and the pre-match expected foul intensity;
//     both live on the same [0,1] scale, so the score stays bounded.
//   - VARAccuracy is the share of reviews that upheld the on-field call.
//     With zero reviews there is nothing to hold against the referee, so the
//     score defaults to the neutral 1.0 rather than dividing by zero.
//   - GameFlow is the ball-in-play fraction.
//
// Returns ErrInvalidInput when any count is negative, any fraction is
// outside [0,1], or overturns exceed reviews.
func Components(stats model.MatchStatistics) (model.ComponentScores, error) {
	if err := validate(stats); err != nil {
		return model.ComponentScores{}, err
	}

	varAccuracy := 1.0
	if stats.VARReviewsCount > 0 {
		varAccuracy = 1.0 - float64(stats.VAROverturnsCount)/float64(stats.VARReviewsCount)
	}

	deviation := stats.FoulManagementRaw - stats.Context.ExpectedFoulFrequency
	if deviation < 0 {
		deviation = -deviation
	}

	return model.ComponentScores{
		DecisionAccuracy: stats.CorrectDecisionsPct,
		FoulManagement:   clamp01(1.0 - deviation),
		VARAccuracy:      clamp01(varAccuracy),
		GameFlow:         clamp01(stats.BallInPlayPct),
	}, nil
}

func validate(stats model.MatchStatistics) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"correct_decisions_pct", stats.CorrectDecisionsPct},
		{"foul_management_raw", stats.FoulManagementRaw},
		{"ball_in_play_pct", stats.BallInPlayPct},
		{"expected_foul_frequency", stats.Context.ExpectedFoulFrequency},
	} {
		if f.value < 0 || f.value > 1 {
			return fmt.Errorf("%w: %s %.4f outside [0,1]", ErrInvalidInput, f.name, f.value)
		}
	}
	if stats.ClearErrorsCount < 0 {
		return fmt.Errorf("%w: negative clear_errors_count %d", ErrInvalidInput, stats.ClearErrorsCount)
	}
	if stats.VARReviewsCount < 0 {
		return fmt.Errorf("%w: negative var_reviews_count %d", ErrInvalidInput, stats.VARReviewsCount)
	}
	if stats.VAROverturnsCount < 0 {
		return fmt.Errorf("%w: negative var_overturns_count %d", ErrInvalidInput, stats.VAROverturnsCount)
	}
	if stats.VAROverturnsCount > stats.VARReviewsCount {
		return fmt.Errorf("%w: var_overturns_count %d exceeds var_reviews_count %d",
			ErrInvalidInput, stats.VAROverturnsCount, stats.VARReviewsCount)
	}
	return nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
