package rating_test

import (
	"errors"
	"testing"
	"time"

	"github.com/pitchside/refrank/internal/domain/model"
	"github.com/pitchside/refrank/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalculatorRate(t *testing.T) {
	Convey("Given a calculator with default weights", t, func() {
		calc, err := rating.NewCalculator()
		So(err, ShouldBeNil)

		stats := model.MatchStatistics{
			MatchID:   "match-42",
			RefereeID: "ref-7",
			League:    "premier",
			MatchDate: time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC),
		}

		Convey("When rating the reference scenario", func() {
			// 0.40*0.88 + 0.30*0.70 + 0.15*0.95 + 0.15*0.75 = 0.817
			scores := model.ComponentScores{
				DecisionAccuracy: 0.88,
				FoulManagement:   0.70,
				VARAccuracy:      0.95,
				GameFlow:         0.75,
			}
			r := calc.Rate(stats, scores, 1.0)

			Convey("Then the base rating should follow the 1+9x rescale", func() {
				So(r.BaseRating, ShouldAlmostEqual, 1.0+9.0*0.817, 1e-9)
			})

			Convey("And a neutral multiplier should leave the final unchanged", func() {
				So(r.FinalRating, ShouldAlmostEqual, r.BaseRating, 1e-9)
			})

			Convey("And identity fields should carry over", func() {
				So(r.MatchID, ShouldEqual, "match-42")
				So(r.RefereeID, ShouldEqual, "ref-7")
				So(r.League, ShouldEqual, "premier")
				So(r.MatchDate, ShouldEqual, stats.MatchDate)
				So(r.Key(), ShouldEqual, "ref-7|match-42")
			})
		})

		Convey("When rating the perfect-VAR scenario", func() {
			// decision 0.88, foul 0.70, var 1.0 (no overturns), flow 0.75
			// -> 1 + 9*0.8245 = 8.4205
			scores := model.ComponentScores{
				DecisionAccuracy: 0.88,
				FoulManagement:   0.70,
				VARAccuracy:      1.0,
				GameFlow:         0.75,
			}
			r := calc.Rate(stats, scores, 1.0)

			Convey("Then the final rating should be 8.42 to two decimals", func() {
				So(r.FinalRating, ShouldAlmostEqual, 8.4205, 1e-9)
			})
		})

		Convey("When the multiplier pushes past the scale ceiling", func() {
			scores := model.ComponentScores{
				DecisionAccuracy: 1.0,
				FoulManagement:   1.0,
				VARAccuracy:      1.0,
				GameFlow:         1.0,
			}
			r := calc.Rate(stats, scores, 1.8)

			Convey("Then the final rating should clamp to 10", func() {
				So(r.BaseRating, ShouldAlmostEqual, 10.0, 1e-9)
				So(r.FinalRating, ShouldEqual, 10.0)
			})
		})

		Convey("When a harsh multiplier drags the rating down", func() {
			scores := model.ComponentScores{} // all zero
			r := calc.Rate(stats, scores, 0.5)

			Convey("Then the final rating should clamp to the floor", func() {
				So(r.BaseRating, ShouldEqual, 1.0)
				So(r.FinalRating, ShouldEqual, 1.0)
			})
		})

		Convey("When rating the same input twice", func() {
			scores := model.ComponentScores{
				DecisionAccuracy: 0.5,
				FoulManagement:   0.5,
				VARAccuracy:      0.5,
				GameFlow:         0.5,
			}
			first := calc.Rate(stats, scores, 1.3)
			second := calc.Rate(stats, scores, 1.3)

			Convey("Then the outputs should be identical", func() {
				So(first, ShouldResemble, second)
			})
		})
	})
}

func TestCalculatorRangeInvariant(t *testing.T) {
	Convey("Given component scores and multipliers across their domains", t, func() {
		calc, err := rating.NewCalculator()
		So(err, ShouldBeNil)

		stats := model.MatchStatistics{MatchID: "m", RefereeID: "r"}

		Convey("When sweeping the input space", func() {
			grid := []float64{0.0, 0.25, 0.5, 0.75, 1.0}
			multipliers := []float64{0.5, 0.8, 1.0, 1.54, 2.0}

			Convey("Then every final rating should stay in [1,10]", func() {
				for _, v := range grid {
					for _, m := range multipliers {
						scores := model.ComponentScores{
							DecisionAccuracy: v,
							FoulManagement:   1 - v,
							VARAccuracy:      v,
							GameFlow:         1 - v,
						}
						r := calc.Rate(stats, scores, m)
						So(r.FinalRating, ShouldBeBetweenOrEqual, 1.0, 10.0)
						So(r.BaseRating, ShouldBeBetweenOrEqual, 1.0, 10.0)
					}
				}
			})
		})
	})
}

func TestWeightsValidation(t *testing.T) {
	Convey("Given component weight tables", t, func() {
		Convey("When the defaults are validated", func() {
			So(rating.DefaultWeights().Validate(), ShouldBeNil)
		})

		Convey("When weights do not sum to 1.0", func() {
			_, err := rating.NewCalculator(rating.WithWeights(rating.Weights{
				DecisionAccuracy: 0.40,
				FoulManagement:   0.30,
				VARAccuracy:      0.15,
				GameFlow:         0.25,
			}))

			Convey("Then the calculator should refuse to start", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, rating.ErrBadWeights), ShouldBeTrue)
			})
		})

		Convey("When a weight is negative", func() {
			_, err := rating.NewCalculator(rating.WithWeights(rating.Weights{
				DecisionAccuracy: 1.40,
				FoulManagement:   -0.40,
				VARAccuracy:      0.0,
				GameFlow:         0.0,
			}))

			Convey("Then the calculator should refuse to start", func() {
				So(errors.Is(err, rating.ErrBadWeights), ShouldBeTrue)
			})
		})

		Convey("When custom weights are valid", func() {
			calc, err := rating.NewCalculator(rating.WithWeights(rating.Weights{
				DecisionAccuracy: 0.25,
				FoulManagement:   0.25,
				VARAccuracy:      0.25,
				GameFlow:         0.25,
			}))

			Convey("Then they should be applied", func() {
				So(err, ShouldBeNil)
				So(calc.Weights().DecisionAccuracy, ShouldEqual, 0.25)
			})
		})
	})
}
