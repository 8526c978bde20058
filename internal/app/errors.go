package service

import "errors"

var (
	// ErrMissingSurvey indicates a run was requested without the
	// required survey source.
	ErrMissingSurvey = errors.New("survey source is required")
)
