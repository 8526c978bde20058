// Package sentiment maps a club's concatenated feedback text to a single
// bounded score. The polarity model is an external collaborator; this
// package owns only the contract: output in [0,1], 0.5 for empty text.
package sentiment

import (
	"context"
	"strings"

	"github.com/jonreiter/govader"
)

// Neutral is the score for empty or whitespace-only feedback. It is a fixed
// default, not derived from the lexicon or from observed values.
const Neutral = 0.5

// Scorer computes one normalized sentiment value per feedback blob.
type Scorer interface {
	// Score returns a value in [0,1], honoring ctx for cancellation.
	Score(ctx context.Context, text string) (float64, error)
}

// LexiconScorer implements Scorer on top of the VADER sentiment lexicon.
type LexiconScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewLexiconScorer creates a scorer with a fresh analyzer. The analyzer is
// stateless across calls, so one instance can serve many runs.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score maps text to [0,1]. Empty text returns exactly Neutral; otherwise
// the lexicon's compound polarity in [-1,1] is rescaled via (compound+1)/2.
func (s *LexiconScorer) Score(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return Neutral, nil
	}
	compound := s.analyzer.PolarityScores(text).Compound
	return Rescale(compound), nil
}

// Rescale maps a compound polarity in [-1,1] onto [0,1].
func Rescale(compound float64) float64 {
	return (compound + 1) / 2
}
