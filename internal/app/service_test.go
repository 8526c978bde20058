package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/campuslabs/clubpulse/internal/adapters/output"
	"github.com/campuslabs/clubpulse/internal/adapters/repository"
	"github.com/campuslabs/clubpulse/internal/ingest/chatlog"
	"github.com/campuslabs/clubpulse/internal/ingest/schema"
	"github.com/campuslabs/clubpulse/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const surveyCSV = `club_name,heard_often,participation_count,feedback_text
Coding Club,5,3,The workshops are great and fun
dance crew,2,1,
Coding Club,3,1,Loved the hackathon
`

const eventsCSV = `club_name,event_title,event_description
coding club,Hackathon,overnight programming contest
Dance Crew,Annual Showcase,dance performance on stage
dance crew,Practice,weekly practice
`

func chatFile(name, content string) chatlog.File {
	return chatlog.File{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

type failingScorer struct{}

func (failingScorer) Score(ctx context.Context, text string) (float64, error) {
	return 0, errors.New("lexicon unavailable")
}

func TestServiceRun(t *testing.T) {
	Convey("Given a service over in-memory sources", t, func() {
		dir := filepath.Join(t.TempDir(), "outputs")
		svc := New(WithOutputDir(dir))
		ctx := context.Background()

		input := RunInput{
			Survey:     strings.NewReader(surveyCSV),
			Events:     strings.NewReader(eventsCSV),
			EventsName: "events.csv",
			Chats: []chatlog.File{
				chatFile("Coding Club.txt", "12/01/24, 10:00 - Asha: anyone joining the hackathon?\n12/01/24, 10:05 - Ravi: count me in\n"),
			},
		}

		Convey("Run should score every club from every source", func() {
			result, err := svc.Run(ctx, input)
			So(err, ShouldBeNil)
			So(result.RunID, ShouldNotBeEmpty)
			So(result.Scores, ShouldHaveLength, 2)

			byClub := map[string]int{}
			for i, s := range result.Scores {
				byClub[s.Club] = i
			}
			So(byClub, ShouldContainKey, "coding club")
			So(byClub, ShouldContainKey, "dance crew")

			coding := result.Scores[byClub["coding club"]]
			So(coding.Category, ShouldEqual, "tech")
			So(coding.Engagement, ShouldEqual, 2)
			So(coding.Activity, ShouldEqual, 1)
			// (5+3)/2 responses over a 5-point scale.
			So(coding.Popularity, ShouldAlmostEqual, 0.8)

			dance := result.Scores[byClub["dance crew"]]
			So(dance.Category, ShouldEqual, "entertainment")
			So(dance.Engagement, ShouldEqual, 0)
			So(dance.Activity, ShouldEqual, 2)
			// No feedback text scores neutral.
			So(dance.Sentiment, ShouldAlmostEqual, 0.5)

			Convey("And the result tables should land on disk", func() {
				data, err := os.ReadFile(filepath.Join(dir, output.ScoresFileName))
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "coding club")

				_, err = os.Stat(filepath.Join(dir, output.WinnersFileName))
				So(err, ShouldBeNil)
			})

			Convey("And Latest should return the stored run", func() {
				latest, err := svc.Latest(ctx)
				So(err, ShouldBeNil)
				So(latest.RunID, ShouldEqual, result.RunID)
			})

			Convey("And Stats should summarize it", func() {
				stats, err := svc.Stats(ctx)
				So(err, ShouldBeNil)
				So(stats.RunID, ShouldEqual, result.RunID)
				So(stats.ClubsScored, ShouldEqual, 2)
				So(stats.Categories, ShouldEqual, 2)
				So(stats.OutputDir, ShouldEqual, dir)
			})
		})

		Convey("Run without a survey source should fail", func() {
			_, err := svc.Run(ctx, RunInput{})
			So(errors.Is(err, ErrMissingSurvey), ShouldBeTrue)
		})

		Convey("Run with an event log only is still valid for survey clubs", func() {
			result, err := svc.Run(ctx, RunInput{
				Survey: strings.NewReader(surveyCSV),
			})
			So(err, ShouldBeNil)
			So(result.Scores, ShouldHaveLength, 2)
			for _, s := range result.Scores {
				So(s.Activity, ShouldEqual, 0)
				So(s.Engagement, ShouldEqual, 0)
			}
		})

		Convey("A survey missing its identity column should surface a schema error", func() {
			_, err := svc.Run(ctx, RunInput{
				Survey: strings.NewReader("heard_often,participation_count\n5,3\n"),
			})
			var se *schema.Error
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Source, ShouldEqual, "survey")
		})

		Convey("A failing sentiment scorer should fail the run", func() {
			failing := New(
				WithOutputDir(dir),
				WithSentimentScorer(failingScorer{}),
			)
			_, err := failing.Run(ctx, RunInput{
				Survey: strings.NewReader(surveyCSV),
			})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "lexicon unavailable")
		})
	})
}

func TestServiceStatsEmpty(t *testing.T) {
	Convey("Given a service with no completed run", t, func() {
		svc := New(WithOutputDir(t.TempDir()))

		Convey("Stats should report no results", func() {
			_, err := svc.Stats(context.Background())
			So(errors.Is(err, repository.ErrNoResults), ShouldBeTrue)
		})

		Convey("Latest should report no results", func() {
			_, err := svc.Latest(context.Background())
			So(errors.Is(err, repository.ErrNoResults), ShouldBeTrue)
		})
	})
}
