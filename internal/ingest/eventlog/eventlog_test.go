package eventlog_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/campuslabs/clubpulse/internal/ingest/eventlog"
	"github.com/campuslabs/clubpulse/internal/ingest/schema"
	"github.com/campuslabs/clubpulse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestAggregate(t *testing.T) {
	Convey("Given an event-log aggregator", t, func() {
		a := eventlog.NewAggregator()
		ctx := context.Background()

		Convey("When aggregating a CSV calendar", func() {
			csv := strings.Join([]string{
				"club_name,event_title,event_description,date",
				"Robotics,Python Hackathon,build day,2024-01-10",
				"robotics ,Line Follower,weekly practice,2024-02-02",
				"Drama Club,,auditions for the play,2024-02-10",
			}, "\n")

			aggs, err := a.Aggregate(ctx, strings.NewReader(csv), "events.csv")

			Convey("Then event_count is the per-club row count", func() {
				So(err, ShouldBeNil)
				So(aggs, ShouldHaveLength, 2)
				So(aggs["robotics"].EventCount, ShouldEqual, 2)
				// Empty titles still count as rows.
				So(aggs["drama club"].EventCount, ShouldEqual, 1)
			})

			Convey("And grouping text joins titles then descriptions, lower-cased", func() {
				So(err, ShouldBeNil)
				So(aggs["robotics"].GroupingText, ShouldEqual, "python hackathon line follower build day weekly practice")
			})
		})

		Convey("When headers use synonyms", func() {
			csv := "Club,Title,Details\nChess,Blitz Tournament,open to all"

			aggs, err := a.Aggregate(ctx, strings.NewReader(csv), "events.csv")

			So(err, ShouldBeNil)
			So(aggs["chess"].GroupingText, ShouldEqual, "blitz tournament open to all")
		})

		Convey("When the calendar is an XLSX workbook", func() {
			f := excelize.NewFile()
			sheet := f.GetSheetName(0)
			So(f.SetSheetRow(sheet, "A1", &[]any{"club_name", "event_title", "event_description"}), ShouldBeNil)
			So(f.SetSheetRow(sheet, "A2", &[]any{"MUN Society", "Model UN Seminar", "delegate prep"}), ShouldBeNil)
			var buf bytes.Buffer
			So(f.Write(&buf), ShouldBeNil)

			aggs, err := a.Aggregate(ctx, &buf, "calendar.xlsx")

			Convey("Then it aggregates the same way as CSV", func() {
				So(err, ShouldBeNil)
				So(aggs["mun society"].EventCount, ShouldEqual, 1)
				So(aggs["mun society"].GroupingText, ShouldEqual, "model un seminar delegate prep")
			})
		})

		Convey("When the identity column is missing", func() {
			csv := "event_title,event_description\nSomething,whatever"

			_, err := a.Aggregate(ctx, strings.NewReader(csv), "events.csv")

			Convey("Then the run fails with a schema error naming the source", func() {
				So(err, ShouldNotBeNil)
				var se *schema.Error
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Source, ShouldEqual, "event log")
			})
		})
	})
}
