package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/pitchside/refrank/internal/adapters/mq/queue"
	worker "github.com/pitchside/refrank/internal/adapters/mq/worker"
	model "github.com/pitchside/refrank/internal/domain/model"
	logging "github.com/pitchside/refrank/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	eventChan  chan queue.Event
	closeError error
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		eventChan: make(chan queue.Event, 10),
	}
}

func (mq *mockQueue) Dequeue(_ context.Context) <-chan queue.Event {
	return mq.eventChan
}

func (mq *mockQueue) Close() error {
	close(mq.eventChan)
	return mq.closeError
}

func (mq *mockQueue) addMatch(event queue.Event) {
	mq.eventChan <- event
}

type mockRater struct {
	ratings map[string]float64
	errors  map[string]error
	mu      sync.RWMutex
}

func newMockRater() *mockRater {
	return &mockRater{
		ratings: make(map[string]float64),
		errors:  make(map[string]error),
	}
}

func (mr *mockRater) Rate(_ context.Context, stats model.MatchStatistics) (model.MatchRating, error) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	if err, exists := mr.errors[stats.MatchID]; exists {
		return model.MatchRating{}, err
	}

	final := 5.0
	if r, exists := mr.ratings[stats.MatchID]; exists {
		final = r
	}
	return model.MatchRating{
		MatchID:     stats.MatchID,
		RefereeID:   stats.RefereeID,
		League:      stats.League,
		MatchDate:   stats.MatchDate,
		FinalRating: final,
	}, nil
}

func (mr *mockRater) setRating(matchID string, final float64) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.ratings[matchID] = final
}

func (mr *mockRater) setError(matchID string, err error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.errors[matchID] = err
}

type mockRecorder struct {
	recorded map[string]model.MatchRating
	errors   map[string]error
	mu       sync.RWMutex
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{
		recorded: make(map[string]model.MatchRating),
		errors:   make(map[string]error),
	}
}

func (mc *mockRecorder) Record(_ context.Context, rating model.MatchRating) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if err, exists := mc.errors[rating.MatchID]; exists {
		return false, err
	}
	if _, dup := mc.recorded[rating.Key()]; dup {
		return false, nil
	}

	mc.recorded[rating.Key()] = rating
	return true, nil
}

func (mc *mockRecorder) setError(matchID string, err error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errors[matchID] = err
}

func (mc *mockRecorder) getRecorded(key string) (model.MatchRating, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	rating, exists := mc.recorded[key]
	return rating, exists
}

func (mc *mockRecorder) count() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.recorded)
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		q := newMockQueue()
		rater := newMockRater()
		recorder := newMockRecorder()

		convey.Convey("When creating a worker with default options", func() {
			w := worker.NewInMemoryWorker(q, rater, recorder)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a worker with custom options", func() {
			w := worker.NewInMemoryWorker(
				q, rater, recorder,
				worker.WithName("test-worker"),
			)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			w := worker.NewInMemoryWorker(q, rater, recorder)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			go w.Run(ctx)

			// Give worker time to start
			time.Sleep(10 * time.Millisecond)

			convey.Convey("And when processing a valid match", func() {
				rater.setRating("m-1", 8.5)
				q.addMatch(model.MatchStatistics{
					MatchID:   "m-1",
					RefereeID: "ref-1",
					League:    "premier",
					MatchDate: time.Now(),
				})

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then the rating is recorded", func() {
					rating, recorded := recorder.getRecorded("ref-1|m-1")
					convey.So(recorded, convey.ShouldBeTrue)
					convey.So(rating.FinalRating, convey.ShouldEqual, 8.5)
				})
			})

			convey.Convey("And when rating fails", func() {
				rater.setError("m-bad", errors.New("invalid match statistics"))
				q.addMatch(model.MatchStatistics{
					MatchID:   "m-bad",
					RefereeID: "ref-2",
				})
				rater.setRating("m-good", 7.0)
				q.addMatch(model.MatchStatistics{
					MatchID:   "m-good",
					RefereeID: "ref-2",
				})

				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then the failure is isolated to that match", func() {
					_, recorded := recorder.getRecorded("ref-2|m-bad")
					convey.So(recorded, convey.ShouldBeFalse)

					_, recorded = recorder.getRecorded("ref-2|m-good")
					convey.So(recorded, convey.ShouldBeTrue)
				})
			})

			convey.Convey("And when the same match arrives twice", func() {
				stats := model.MatchStatistics{
					MatchID:   "m-dup",
					RefereeID: "ref-3",
				}
				q.addMatch(stats)
				q.addMatch(stats)

				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then only one rating is recorded", func() {
					convey.So(recorder.count(), convey.ShouldEqual, 1)
				})
			})

			convey.Convey("And when recording fails", func() {
				recorder.setError("m-err", errors.New("store unavailable"))
				q.addMatch(model.MatchStatistics{
					MatchID:   "m-err",
					RefereeID: "ref-4",
				})

				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then nothing is recorded for that match", func() {
					_, recorded := recorder.getRecorded("ref-4|m-err")
					convey.So(recorded, convey.ShouldBeFalse)
				})
			})
		})

		convey.Convey("When shutting down a worker", func() {
			w := worker.NewInMemoryWorker(q, rater, recorder)
			ctx := context.Background()

			go w.Run(ctx)
			time.Sleep(10 * time.Millisecond)

			err := w.Shutdown(ctx)

			convey.Convey("Then it stops cleanly", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a worker pool", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		rater := newMockRater()
		recorder := newMockRecorder()

		pool := worker.NewPool(3, q, rater, recorder)

		convey.Convey("When the pool runs over queued matches", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			pool.Start(ctx)

			for _, id := range []string{"m-1", "m-2", "m-3", "m-4", "m-5"} {
				q.addMatch(model.MatchStatistics{
					MatchID:   id,
					RefereeID: "ref-" + id,
				})
			}

			time.Sleep(100 * time.Millisecond)

			convey.Convey("Then every match is recorded exactly once", func() {
				convey.So(recorder.count(), convey.ShouldEqual, 5)
			})

			convey.Convey("And shutdown closes the queue and drains", func() {
				err := pool.Shutdown(ctx)
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}
