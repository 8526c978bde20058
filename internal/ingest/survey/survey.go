// Package survey aggregates raw survey rows into one record per club.
package survey

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/campuslabs/clubpulse/internal/domain/identity"
	"github.com/campuslabs/clubpulse/internal/domain/model"
	"github.com/campuslabs/clubpulse/internal/ingest/schema"
	"github.com/campuslabs/clubpulse/pkg/logger"
	"github.com/campuslabs/clubpulse/pkg/metrics"
)

// Source name used in schema errors and logs.
const sourceName = "survey"

// Column resolution order for the survey schema. The identity column is
// required; everything else defaults when absent.
var (
	colClub          = schema.Column{Canonical: "club_name", Synonyms: []string{"club", "club name"}}
	colHeard         = schema.Column{Canonical: "heard_often", Synonyms: []string{"awareness", "how_often", "heard"}}
	colParticipation = schema.Column{Canonical: "participation_count", Synonyms: []string{"participation", "participated"}}
	colFeedback      = schema.Column{Canonical: "feedback_text", Synonyms: []string{"review", "comments", "feedback"}}
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(a *Aggregator) {
		if log != nil {
			a.log = log
		}
	}
}

// Aggregator parses a survey CSV export and groups rows by club identity.
type Aggregator struct {
	log logger.Logger
}

// NewAggregator creates a survey aggregator.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// accumulator collects one club's running sums before finalization.
type accumulator struct {
	heardSum         float64
	heardCount       int
	participationSum float64
	participationCnt int
	rows             int
	feedback         []string
}

// Aggregate reads a survey CSV and returns one SurveyAggregate per distinct
// normalized club identity. A missing identity column is fatal and returns a
// *schema.Error; unparseable metric cells are excluded from means and only
// warned about.
func (a *Aggregator) Aggregate(ctx context.Context, r io.Reader) (map[string]model.SurveyAggregate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read survey header: %w", err)
	}
	headers := schema.NormalizeHeaders(header)

	clubIdx, _ := schema.Resolve(headers, colClub)
	if clubIdx < 0 {
		return nil, &schema.Error{Source: sourceName, Column: colClub.Canonical}
	}
	heardIdx, _ := schema.Resolve(headers, colHeard)
	partIdx, _ := schema.Resolve(headers, colParticipation)
	feedbackIdx, _ := schema.Resolve(headers, colFeedback)

	// First pass: per-key accumulators in source-row order.
	accs := make(map[string]*accumulator)
	rows := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read survey row: %w", err)
		}
		rows++

		club := identity.Normalize(cell(record, clubIdx))
		acc := accs[club]
		if acc == nil {
			acc = &accumulator{}
			accs[club] = acc
		}
		acc.rows++

		a.addMetric(ctx, club, colHeard.Canonical, cell(record, heardIdx), &acc.heardSum, &acc.heardCount)
		a.addMetric(ctx, club, colParticipation.Canonical, cell(record, partIdx), &acc.participationSum, &acc.participationCnt)

		if fb := strings.TrimSpace(cell(record, feedbackIdx)); fb != "" {
			acc.feedback = append(acc.feedback, fb)
		}
	}
	metrics.RecordSurveyRows(rows)

	// Second pass: finalize means and concatenations. A mean over zero
	// valid values is a defaulted 0, never NaN.
	out := make(map[string]model.SurveyAggregate, len(accs))
	for club, acc := range accs {
		agg := model.SurveyAggregate{
			Club:         club,
			NumResponses: acc.rows,
			FeedbackText: strings.Join(acc.feedback, " "),
		}
		if acc.heardCount > 0 {
			agg.HeardOftenMean = acc.heardSum / float64(acc.heardCount)
		}
		if acc.participationCnt > 0 {
			agg.ParticipationMean = acc.participationSum / float64(acc.participationCnt)
		}
		out[club] = agg
	}
	return out, nil
}

// addMetric coerces one cell into the running sum for a metric. A column
// resolved to -1 contributes a literal 0, matching the defaulted-column
// behavior of the legacy exporter.
func (a *Aggregator) addMetric(ctx context.Context, club, column, raw string, sum *float64, count *int) {
	if raw == "" {
		// Missing column or empty cell: empty cells from a resolved
		// column are excluded from the mean, absent columns default
		// the whole metric to zero.
		return
	}
	v, ok := schema.CoerceNumeric(raw)
	if !ok {
		metrics.RecordCoercionWarning()
		a.logger().Warn(ctx, "non-numeric survey value skipped",
			logger.String("club", club),
			logger.String("column", column),
			logger.String("value", raw),
		)
		return
	}
	*sum += v
	*count++
}

func (a *Aggregator) logger() logger.Logger {
	if a.log != nil {
		return a.log
	}
	return logger.Get()
}

// cell returns record[i] or "" when the row is shorter than the header.
func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
