package difficulty_test

import (
	"errors"
	"testing"

	"github.com/pitchside/refrank/internal/domain/difficulty"
	"github.com/pitchside/refrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEvaluatorMultiplier(t *testing.T) {
	Convey("Given an evaluator with default weights", t, func() {
		eval, err := difficulty.NewEvaluator()
		So(err, ShouldBeNil)

		Convey("When every factor is at its floor", func() {
			m, err := eval.Multiplier(model.MatchContext{})

			Convey("Then the multiplier should be the lower bound", func() {
				So(err, ShouldBeNil)
				So(m, ShouldEqual, difficulty.DefaultMinMultiplier)
			})
		})

		Convey("When every factor is maxed out", func() {
			m, err := eval.Multiplier(model.MatchContext{
				MatchImportance:       1.0,
				RivalryIntensity:      1.0,
				AttendancePressurePct: 1.0,
				ExpectedFoulFrequency: 1.0,
				WeatherSeverity:       1.0,
				CardHistoryFactor:     1.0,
			})

			Convey("Then the multiplier should reach the upper bound", func() {
				So(err, ShouldBeNil)
				So(m, ShouldAlmostEqual, difficulty.DefaultMaxMultiplier, 1e-9)
			})
		})

		Convey("When the match is routine", func() {
			// Factors hovering around one third of their range combine to
			// a near-neutral multiplier.
			m, err := eval.Multiplier(model.MatchContext{
				MatchImportance:       0.35,
				RivalryIntensity:      0.30,
				AttendancePressurePct: 0.35,
				ExpectedFoulFrequency: 0.35,
				WeatherSeverity:       0.30,
				CardHistoryFactor:     0.30,
			})

			Convey("Then the multiplier should be close to 1.0", func() {
				So(err, ShouldBeNil)
				So(m, ShouldBeBetween, 0.9, 1.1)
			})
		})

		Convey("When evaluating a high-stakes derby", func() {
			derby := model.MatchContext{
				MatchImportance:       0.80,
				RivalryIntensity:      0.90,
				AttendancePressurePct: 0.75,
				ExpectedFoulFrequency: 0.60,
				WeatherSeverity:       0.30,
				CardHistoryFactor:     0.70,
			}
			routine := model.MatchContext{
				MatchImportance:       0.30,
				RivalryIntensity:      0.10,
				AttendancePressurePct: 0.40,
				ExpectedFoulFrequency: 0.35,
				WeatherSeverity:       0.10,
				CardHistoryFactor:     0.30,
			}

			derbyM, derbyErr := eval.Multiplier(derby)
			routineM, routineErr := eval.Multiplier(routine)

			Convey("Then the derby should score well above the routine match", func() {
				So(derbyErr, ShouldBeNil)
				So(routineErr, ShouldBeNil)
				So(derbyM, ShouldBeGreaterThan, 1.4)
				So(derbyM, ShouldBeGreaterThan, routineM)
			})
		})

		Convey("When a factor is outside its domain", func() {
			_, err := eval.Multiplier(model.MatchContext{RivalryIntensity: 1.4})

			Convey("Then it should fail with ErrInvalidInput", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, difficulty.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When a factor is negative", func() {
			_, err := eval.Multiplier(model.MatchContext{WeatherSeverity: -0.2})

			Convey("Then it should fail with ErrInvalidInput", func() {
				So(errors.Is(err, difficulty.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}

func TestEvaluatorOptions(t *testing.T) {
	Convey("Given custom sub-factor weights", t, func() {
		eval, err := difficulty.NewEvaluator(
			difficulty.WithWeights(map[string]float64{
				difficulty.FactorRivalry:    1.0,
				difficulty.FactorImportance: 0.0,
				difficulty.FactorAttendance: 0.0,
				difficulty.FactorFouls:      0.0,
				difficulty.FactorWeather:    0.0,
				difficulty.FactorCards:      0.0,
			}),
		)
		So(err, ShouldBeNil)

		Convey("When only rivalry carries weight", func() {
			high, err1 := eval.Multiplier(model.MatchContext{RivalryIntensity: 1.0})
			low, err2 := eval.Multiplier(model.MatchContext{MatchImportance: 1.0})

			Convey("Then rivalry alone should drive the multiplier", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(high, ShouldAlmostEqual, difficulty.DefaultMaxMultiplier, 1e-9)
				So(low, ShouldEqual, difficulty.DefaultMinMultiplier)
			})
		})
	})

	Convey("Given custom multiplier bounds", t, func() {
		eval, err := difficulty.NewEvaluator(
			difficulty.WithMultiplierBounds(0.8, 1.8),
		)
		So(err, ShouldBeNil)

		Convey("When querying the bounds", func() {
			lo, hi := eval.Bounds()

			Convey("Then they should be applied", func() {
				So(lo, ShouldEqual, 0.8)
				So(hi, ShouldEqual, 1.8)
			})
		})

		Convey("When bounds are inverted they should be rejected", func() {
			bad, err := difficulty.NewEvaluator(difficulty.WithMultiplierBounds(2.0, 0.5))
			So(err, ShouldBeNil)
			lo, hi := bad.Bounds()

			So(lo, ShouldEqual, difficulty.DefaultMinMultiplier)
			So(hi, ShouldEqual, difficulty.DefaultMaxMultiplier)
		})
	})

	Convey("Given the default weight table", t, func() {
		weights := difficulty.DefaultWeights()

		Convey("Then the weights should sum to 1.0", func() {
			sum := 0.0
			for _, w := range weights {
				sum += w
			}
			So(sum, ShouldAlmostEqual, 1.0, 1e-9)
		})
	})
}

func TestEvaluatorDeterminism(t *testing.T) {
	Convey("Given the same context twice", t, func() {
		eval, err := difficulty.NewEvaluator()
		So(err, ShouldBeNil)
		ctx := model.MatchContext{
			MatchImportance:       0.8,
			RivalryIntensity:      0.9,
			AttendancePressurePct: 0.75,
			ExpectedFoulFrequency: 0.6,
			WeatherSeverity:       0.3,
			CardHistoryFactor:     0.7,
		}

		first, _ := eval.Multiplier(ctx)
		second, _ := eval.Multiplier(ctx)

		Convey("Then the multiplier should be reproducible", func() {
			So(first, ShouldEqual, second)
		})
	})
}

func TestEvaluatorWeightValidation(t *testing.T) {
	Convey("Given a weight table summing above 1.0", t, func() {
		_, err := difficulty.NewEvaluator(
			difficulty.WithWeights(map[string]float64{
				difficulty.FactorImportance: 0.9,
				difficulty.FactorRivalry:    0.9,
			}),
		)

		Convey("Then construction should fail with ErrBadWeights", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, difficulty.ErrBadWeights), ShouldBeTrue)
		})
	})

	Convey("Given a weight table summing below 1.0", t, func() {
		_, err := difficulty.NewEvaluator(
			difficulty.WithWeights(map[string]float64{
				difficulty.FactorImportance: 0.3,
				difficulty.FactorRivalry:    0.3,
			}),
		)

		Convey("Then construction should fail with ErrBadWeights", func() {
			So(errors.Is(err, difficulty.ErrBadWeights), ShouldBeTrue)
		})
	})

	Convey("Given a negative sub-factor weight", t, func() {
		_, err := difficulty.NewEvaluator(
			difficulty.WithWeights(map[string]float64{
				difficulty.FactorImportance: 1.2,
				difficulty.FactorRivalry:    -0.2,
			}),
		)

		Convey("Then construction should fail with ErrBadWeights", func() {
			So(errors.Is(err, difficulty.ErrBadWeights), ShouldBeTrue)
		})
	})

	Convey("Given an unknown factor name", t, func() {
		_, err := difficulty.NewEvaluator(
			difficulty.WithWeights(map[string]float64{
				"dissent": 1.0,
			}),
		)

		Convey("Then construction should fail with ErrBadWeights", func() {
			So(errors.Is(err, difficulty.ErrBadWeights), ShouldBeTrue)
		})
	})

	Convey("Given a partial table whose entries sum to 1.0", t, func() {
		eval, err := difficulty.NewEvaluator(
			difficulty.WithWeights(map[string]float64{
				difficulty.FactorImportance: 0.5,
				difficulty.FactorRivalry:    0.5,
			}),
		)

		Convey("Then it should be accepted with the missing factors at zero", func() {
			So(err, ShouldBeNil)

			m, merr := eval.Multiplier(model.MatchContext{WeatherSeverity: 1.0})
			So(merr, ShouldBeNil)
			So(m, ShouldEqual, difficulty.DefaultMinMultiplier)
		})
	})
}
