package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/campuslabs/clubpulse/internal/domain/model"
)

func TestMemStore(t *testing.T) {
	Convey("Given an empty in-memory store", t, func() {
		store := NewMemStore()
		ctx := context.Background()

		Convey("Latest should report no results", func() {
			_, err := store.Latest(ctx)
			So(err, ShouldEqual, ErrNoResults)
		})

		Convey("When a run is saved", func() {
			result := RunResult{
				RunID:       "run-1",
				CompletedAt: time.Now(),
				Scores: []model.ScoredClub{
					{Club: "coding club", Category: "tech"},
				},
			}
			So(store.Save(ctx, result), ShouldBeNil)

			Convey("Latest should return it", func() {
				got, err := store.Latest(ctx)
				So(err, ShouldBeNil)
				So(got.RunID, ShouldEqual, "run-1")
				So(got.Scores, ShouldHaveLength, 1)
			})

			Convey("A later save should replace it", func() {
				So(store.Save(ctx, RunResult{RunID: "run-2"}), ShouldBeNil)
				got, err := store.Latest(ctx)
				So(err, ShouldBeNil)
				So(got.RunID, ShouldEqual, "run-2")
			})
		})

		Convey("With a cancelled context", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			Convey("Save should fail", func() {
				So(store.Save(cancelled, RunResult{}), ShouldNotBeNil)
			})

			Convey("Latest should fail", func() {
				_, err := store.Latest(cancelled)
				So(err, ShouldNotBeNil)
			})
		})

		Convey("Concurrent saves and reads should not race", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(2)
				go func(id int) {
					defer wg.Done()
					_ = store.Save(ctx, RunResult{RunID: "run"})
				}(i)
				go func() {
					defer wg.Done()
					_, _ = store.Latest(ctx)
				}()
			}
			wg.Wait()
		})
	})
}
