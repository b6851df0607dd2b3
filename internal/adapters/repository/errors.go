package repository

import "errors"

// Sentinel kinds for rating store errors.
var (
	ErrNotFound     = errors.New("referee not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
