package sentiment_test

import (
	"context"
	"testing"

	"github.com/campuslabs/clubpulse/internal/domain/sentiment"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLexiconScorer(t *testing.T) {
	Convey("Given a lexicon scorer", t, func() {
		s := sentiment.NewLexiconScorer()
		ctx := context.Background()

		Convey("Empty text scores exactly neutral", func() {
			score, err := s.Score(ctx, "")
			So(err, ShouldBeNil)
			So(score, ShouldEqual, sentiment.Neutral)
		})

		Convey("Whitespace-only text scores exactly neutral", func() {
			score, err := s.Score(ctx, "  \t\n ")
			So(err, ShouldBeNil)
			So(score, ShouldEqual, sentiment.Neutral)
		})

		Convey("Positive feedback scores above neutral", func() {
			score, err := s.Score(ctx, "the workshops were great and everyone loved the events")
			So(err, ShouldBeNil)
			So(score, ShouldBeGreaterThan, sentiment.Neutral)
			So(score, ShouldBeLessThanOrEqualTo, 1.0)
		})

		Convey("Negative feedback scores below neutral", func() {
			score, err := s.Score(ctx, "terrible sessions, badly organized, a complete waste of time")
			So(err, ShouldBeNil)
			So(score, ShouldBeLessThan, sentiment.Neutral)
			So(score, ShouldBeGreaterThanOrEqualTo, 0.0)
		})

		Convey("A cancelled context aborts scoring", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.Score(cancelled, "anything")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRescale(t *testing.T) {
	Convey("Given compound polarities in [-1,1]", t, func() {
		Convey("The bounds map to 0 and 1, zero maps to 0.5", func() {
			So(sentiment.Rescale(-1), ShouldEqual, 0.0)
			So(sentiment.Rescale(0), ShouldEqual, 0.5)
			So(sentiment.Rescale(1), ShouldEqual, 1.0)
		})
	})
}
