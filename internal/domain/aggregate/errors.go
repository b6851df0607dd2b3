package aggregate

import "errors"

// Sentinel kinds for aggregation errors.
var (
	ErrNoRatings = errors.New("no ratings recorded")
	ErrBadWindow = errors.New("invalid rolling window")
)
