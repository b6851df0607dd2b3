package rating

import "errors"

// Sentinel kinds for rating configuration errors.
var (
	ErrBadWeights = errors.New("invalid component weights")
)
