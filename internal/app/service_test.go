package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/pitchside/refrank/internal/app"
	"github.com/pitchside/refrank/internal/domain/difficulty"
	"github.com/pitchside/refrank/internal/domain/rating"
	"github.com/pitchside/refrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithDedupeSize(25_000),
			service.WithWindow(10),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})
		})
	})

	Convey("Given a service with an invalid weight table", t, func() {
		svc := service.New(
			service.WithRatingWeights(rating.Weights{
				DecisionAccuracy: 0.9,
				FoulManagement:   0.9,
				VARAccuracy:      0.9,
				GameFlow:         0.9,
			}),
		)

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then startup is aborted", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a service with difficulty weights that do not sum to 1.0", t, func() {
		svc := service.New(
			service.WithDifficultyWeights(map[string]float64{
				difficulty.FactorImportance: 0.9,
				difficulty.FactorRivalry:    0.9,
			}),
		)

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then startup is aborted with ErrBadWeights", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, difficulty.ErrBadWeights), ShouldBeTrue)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})

			Convey("And stopping again is a no-op", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}
