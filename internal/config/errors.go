package config

import "errors"

// Sentinel kinds for the clubpulse config surface; callers branch on
// them with errors.Is.
var (
	// ErrInvalidConfig marks a config that loaded but fails validation.
	ErrInvalidConfig = errors.New("invalid clubpulse config")
	// ErrLoadConfig marks a failure reading or merging the config sources.
	ErrLoadConfig = errors.New("load clubpulse config failed")
)
