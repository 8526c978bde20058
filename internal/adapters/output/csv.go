// Package output renders scoring results as CSV tables and writes
// them to the output directory.
package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/campuslabs/clubpulse/internal/domain/model"
	"github.com/campuslabs/clubpulse/pkg/logger"
)

const (
	// ScoresFileName is the on-disk name of the combined scores table.
	ScoresFileName = "combined_scores.csv"
	// WinnersFileName is the on-disk name of the winners table.
	WinnersFileName = "group_winners.csv"
)

var scoresHeader = []string{
	"club_name",
	"category",
	"popularity_score",
	"participation_score",
	"sentiment_score",
	"engagement_score",
	"activity_score",
	"category_score",
	"overall_score",
	"overall_rank",
}

var winnersHeader = []string{
	"category",
	"club_name",
	"category_score",
	"overall_score",
}

// Writer persists result tables under a base directory.
type Writer struct {
	dir string
	log logger.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger used by the writer.
func WithLogger(log logger.Logger) Option {
	return func(w *Writer) {
		w.log = log
	}
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{dir: dir}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders both tables and writes them under the writer's
// directory, creating it if needed. It returns the paths written.
func (w *Writer) Write(ctx context.Context, scores []model.ScoredClub, winners []model.CategoryWinner) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths := make([]string, 0, 2)
	scorePath := filepath.Join(w.dir, ScoresFileName)
	if err := os.WriteFile(scorePath, RenderScores(scores), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", ScoresFileName, err)
	}
	paths = append(paths, scorePath)

	winnerPath := filepath.Join(w.dir, WinnersFileName)
	if err := os.WriteFile(winnerPath, RenderWinners(winners), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", WinnersFileName, err)
	}
	paths = append(paths, winnerPath)

	w.logger().Info(ctx, "results written",
		logger.String("dir", w.dir),
		logger.Int("clubs", len(scores)),
		logger.Int("winners", len(winners)))
	return paths, nil
}

func (w *Writer) logger() logger.Logger {
	if w.log != nil {
		return w.log
	}
	return logger.Get()
}

// RenderScores encodes the combined score table as CSV bytes.
func RenderScores(scores []model.ScoredClub) []byte {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	_ = cw.Write(scoresHeader)
	for _, s := range scores {
		_ = cw.Write([]string{
			s.Club,
			s.Category,
			formatFloat(s.Popularity),
			formatFloat(s.Participation),
			formatFloat(s.Sentiment),
			strconv.Itoa(s.Engagement),
			strconv.Itoa(s.Activity),
			formatFloat(s.CategoryScore),
			formatFloat(s.OverallScore),
			strconv.Itoa(s.OverallRank),
		})
	}
	cw.Flush()
	return buf.Bytes()
}

// RenderWinners encodes the per-category winner table as CSV bytes.
func RenderWinners(winners []model.CategoryWinner) []byte {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	_ = cw.Write(winnersHeader)
	for _, w := range winners {
		_ = cw.Write([]string{
			w.Category,
			w.Club,
			formatFloat(w.CategoryScore),
			formatFloat(w.OverallScore),
		})
	}
	cw.Flush()
	return buf.Bytes()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
