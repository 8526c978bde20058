// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/campuslabs/clubpulse/internal/adapters/output"
	"github.com/campuslabs/clubpulse/internal/adapters/repository"
	"github.com/campuslabs/clubpulse/internal/domain/model"
	"github.com/campuslabs/clubpulse/internal/domain/scoring"
	"github.com/campuslabs/clubpulse/internal/domain/sentiment"
	"github.com/campuslabs/clubpulse/internal/ingest/chatlog"
	"github.com/campuslabs/clubpulse/internal/ingest/eventlog"
	"github.com/campuslabs/clubpulse/internal/ingest/survey"
	"github.com/campuslabs/clubpulse/pkg/logger"
	"github.com/campuslabs/clubpulse/pkg/metrics"
)

// RunInput carries the raw sources for one scoring run. Survey is
// required; Events and Chats may be absent.
type RunInput struct {
	// Survey is the survey response table (CSV).
	Survey io.Reader
	// Events is the event calendar (CSV or XLSX), nil when absent.
	Events io.Reader
	// EventsName is the uploaded file name, used to pick the
	// calendar decoder by extension.
	EventsName string
	// Chats holds the per-club chat transcript files.
	Chats []chatlog.File
}

// Stats summarizes the latest completed run.
type Stats struct {
	RunID       string    `json:"run_id"`
	CompletedAt time.Time `json:"completed_at"`
	ClubsScored int       `json:"clubs_scored"`
	Categories  int       `json:"categories"`
	OutputDir   string    `json:"output_dir"`
}

// Service runs the scoring pipeline and exposes its results.
type Service struct {
	store     repository.Store
	scorer    sentiment.Scorer
	composer  *scoring.Composer
	writer    *output.Writer
	outputDir string

	weights map[string]float64
	ceiling float64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithStore sets the result store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSentimentScorer sets the sentiment scorer.
func WithSentimentScorer(scorer sentiment.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithOutputDir sets the directory result tables are written to.
func WithOutputDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.outputDir = dir
		}
	}
}

// WithWeights sets the composite metric weights.
func WithWeights(weights map[string]float64) Option {
	return func(s *Service) {
		if len(weights) > 0 {
			s.weights = weights
		}
	}
}

// WithPopularityCeiling sets the survey awareness scale ceiling.
func WithPopularityCeiling(ceiling float64) Option {
	return func(s *Service) {
		if ceiling > 0 {
			s.ceiling = ceiling
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		outputDir: "outputs",
		weights:   scoring.DefaultWeights(),
		ceiling:   scoring.DefaultPopularityCeiling,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	if s.scorer == nil {
		s.scorer = sentiment.NewLexiconScorer()
	}
	s.composer = scoring.NewComposer(
		scoring.WithWeights(s.weights),
		scoring.WithPopularityCeiling(s.ceiling),
	)
	s.writer = output.NewWriter(s.outputDir, output.WithLogger(s.logger))
	return s
}

// Run executes one full scoring pass over the given sources, writes
// the result tables to disk and stores the run for retrieval.
func (s *Service) Run(ctx context.Context, input RunInput) (repository.RunResult, error) {
	start := time.Now()
	runID := uuid.New().String()

	result, err := s.run(ctx, runID, input)
	if err != nil {
		metrics.RecordRunFailed()
		s.logger.Error(ctx, "scoring run failed",
			logger.String("runID", runID),
			logger.Error(err))
		return repository.RunResult{}, err
	}

	elapsed := time.Since(start)
	metrics.RecordRunCompleted(elapsed.Seconds(), len(result.Scores))
	metrics.UpdateLastRunTime(time.Now().Unix())
	s.logger.Info(ctx, "scoring run completed",
		logger.String("runID", runID),
		logger.Int("clubs", len(result.Scores)),
		logger.Int("winners", len(result.Winners)),
		logger.Duration("elapsed", elapsed))
	return result, nil
}

func (s *Service) run(ctx context.Context, runID string, input RunInput) (repository.RunResult, error) {
	if input.Survey == nil {
		return repository.RunResult{}, ErrMissingSurvey
	}

	surveys, err := survey.NewAggregator(survey.WithLogger(s.logger)).Aggregate(ctx, input.Survey)
	if err != nil {
		return repository.RunResult{}, fmt.Errorf("aggregate survey: %w", err)
	}

	events := map[string]model.EventLogAggregate{}
	if input.Events != nil {
		events, err = eventlog.NewAggregator(eventlog.WithLogger(s.logger)).Aggregate(ctx, input.Events, input.EventsName)
		if err != nil {
			return repository.RunResult{}, fmt.Errorf("aggregate event log: %w", err)
		}
	}

	chats := chatlog.NewAggregator(chatlog.WithLogger(s.logger)).Aggregate(ctx, input.Chats)

	sentiments, err := s.scoreSentiment(ctx, surveys)
	if err != nil {
		return repository.RunResult{}, fmt.Errorf("score sentiment: %w", err)
	}

	scores, winners, err := s.composer.Compose(ctx, surveys, sentiments, chats, events)
	if err != nil {
		return repository.RunResult{}, fmt.Errorf("compose scores: %w", err)
	}

	if _, err := s.writer.Write(ctx, scores, winners); err != nil {
		return repository.RunResult{}, err
	}

	result := repository.RunResult{
		RunID:       runID,
		CompletedAt: time.Now(),
		Scores:      scores,
		Winners:     winners,
	}
	if err := s.store.Save(ctx, result); err != nil {
		return repository.RunResult{}, fmt.Errorf("save result: %w", err)
	}
	return result, nil
}

// scoreSentiment scores each club's combined survey feedback.
func (s *Service) scoreSentiment(ctx context.Context, surveys map[string]model.SurveyAggregate) (map[string]model.SentimentRecord, error) {
	records := make(map[string]model.SentimentRecord, len(surveys))
	for club, agg := range surveys {
		score, err := s.scorer.Score(ctx, agg.FeedbackText)
		if err != nil {
			return nil, fmt.Errorf("club %q: %w", club, err)
		}
		records[club] = model.SentimentRecord{Club: club, Score: score}
	}
	return records, nil
}

// Latest returns the most recent completed run.
func (s *Service) Latest(ctx context.Context) (repository.RunResult, error) {
	return s.store.Latest(ctx)
}

// Stats reports summary information about the latest run.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	result, err := s.store.Latest(ctx)
	if err != nil {
		return Stats{}, err
	}
	categories := map[string]struct{}{}
	for _, score := range result.Scores {
		categories[score.Category] = struct{}{}
	}
	return Stats{
		RunID:       result.RunID,
		CompletedAt: result.CompletedAt,
		ClubsScored: len(result.Scores),
		Categories:  len(categories),
		OutputDir:   s.outputDir,
	}, nil
}
