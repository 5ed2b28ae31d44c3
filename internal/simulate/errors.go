package simulate

import "errors"

var (
	ErrInvalidGames    = errors.New("invalid game count")
	ErrInvalidAccuracy = errors.New("accuracy must be between 0 and 1")
	ErrInvalidScript   = errors.New("invalid bot script")
	ErrNoHistory       = errors.New("recording requested but no history database is configured")
)
