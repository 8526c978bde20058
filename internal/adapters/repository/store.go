// Package repository stores pipeline results for later retrieval.
package repository

import (
	"context"
	"time"

	"github.com/campuslabs/clubpulse/internal/domain/model"
)

// RunResult is a completed scoring run.
type RunResult struct {
	RunID       string
	CompletedAt time.Time
	Scores      []model.ScoredClub
	Winners     []model.CategoryWinner
}

// Store persists scoring runs.
type Store interface {
	// Save records a completed run as the latest result.
	Save(ctx context.Context, result RunResult) error
	// Latest returns the most recent run, or ErrNoResults when no
	// run has completed yet.
	Latest(ctx context.Context) (RunResult, error)
}
