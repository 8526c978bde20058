package repository

import "errors"

var (
	// ErrNoResults indicates no scoring run has been stored yet.
	ErrNoResults = errors.New("no results available")
)
