package models

import "errors"

// Custom errors
var (
	// ErrMissingOdds marks a fixture that cannot be evaluated because the
	// bookmaker has not priced the Over 1.5 selection. Non-fatal for a batch.
	ErrMissingOdds = errors.New("over 1.5 odds not available")
	ErrNotFound    = errors.New("record not found")
	ErrInvalidID   = errors.New("invalid ID format")
)
