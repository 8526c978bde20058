// Package eventlog aggregates the club event calendar into per-club
// event counts and the grouping text used by category assignment.
package eventlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/campuslabs/clubpulse/internal/domain/identity"
	"github.com/campuslabs/clubpulse/internal/domain/model"
	"github.com/campuslabs/clubpulse/internal/ingest/schema"
	"github.com/campuslabs/clubpulse/pkg/logger"
	"github.com/campuslabs/clubpulse/pkg/metrics"
)

// Source name used in schema errors.
const sourceName = "event log"

// Column resolution order for the event-log schema. Only the identity
// column is required; the date column is accepted but unused.
var (
	colClub        = schema.Column{Canonical: "club_name", Synonyms: []string{"club", "club name", "organizer"}}
	colTitle       = schema.Column{Canonical: "event_title", Synonyms: []string{"title", "event"}}
	colDescription = schema.Column{Canonical: "event_description", Synonyms: []string{"description", "details"}}
)

// Aggregator parses an event calendar export (CSV or XLSX).
type Aggregator struct {
	log logger.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used by the aggregator.
func WithLogger(log logger.Logger) Option {
	return func(a *Aggregator) {
		a.log = log
	}
}

// NewAggregator creates an event-log aggregator.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate reads the calendar from r, choosing the parser by the file
// name's extension (.xlsx uses the spreadsheet reader, anything else CSV),
// and returns one EventLogAggregate per club. A missing identity column
// returns a *schema.Error.
func (a *Aggregator) Aggregate(ctx context.Context, r io.Reader, name string) (map[string]model.EventLogAggregate, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		rows, err = readXLSX(r)
	} else {
		rows, err = readCSV(r)
	}
	if err != nil {
		return nil, err
	}
	return a.aggregateRows(ctx, rows)
}

// AggregateFile aggregates a calendar from disk, for the batch CLI.
func (a *Aggregator) AggregateFile(ctx context.Context, path string) (map[string]model.EventLogAggregate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return a.Aggregate(ctx, f, path)
}

// accumulator buffers one club's titles and descriptions in row order.
type accumulator struct {
	rows         int
	titles       []string
	descriptions []string
}

func (a *Aggregator) aggregateRows(ctx context.Context, rows [][]string) (map[string]model.EventLogAggregate, error) {
	if len(rows) == 0 {
		return nil, &schema.Error{Source: sourceName, Column: colClub.Canonical}
	}
	headers := schema.NormalizeHeaders(rows[0])

	clubIdx, _ := schema.Resolve(headers, colClub)
	if clubIdx < 0 {
		return nil, &schema.Error{Source: sourceName, Column: colClub.Canonical}
	}
	titleIdx, _ := schema.Resolve(headers, colTitle)
	descIdx, _ := schema.Resolve(headers, colDescription)

	accs := make(map[string]*accumulator)
	for _, record := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		club := identity.Normalize(cell(record, clubIdx))
		acc := accs[club]
		if acc == nil {
			acc = &accumulator{}
			accs[club] = acc
		}
		// Rows count as events even when the title is empty.
		acc.rows++
		acc.titles = append(acc.titles, cell(record, titleIdx))
		acc.descriptions = append(acc.descriptions, cell(record, descIdx))
	}
	metrics.RecordEventRows(len(rows) - 1)
	a.logger().Debug(ctx, "event log aggregated",
		logger.Int("rows", len(rows)-1),
		logger.Int("clubs", len(accs)))

	out := make(map[string]model.EventLogAggregate, len(accs))
	for club, acc := range accs {
		out[club] = model.EventLogAggregate{
			Club:         club,
			EventCount:   acc.rows,
			GroupingText: groupingText(acc.titles, acc.descriptions),
		}
	}
	return out, nil
}

// groupingText lower-cases the space-join of all titles then all
// descriptions, the two joined with a single separating space.
func groupingText(titles, descriptions []string) string {
	return strings.ToLower(strings.Join(titles, " ") + " " + strings.Join(descriptions, " "))
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read event log csv: %w", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open event log workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read event log sheet: %w", err)
	}
	return rows, nil
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
