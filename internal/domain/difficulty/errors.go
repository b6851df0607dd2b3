package difficulty

import "errors"

// Sentinel kinds for difficulty evaluation errors.
var (
	ErrInvalidInput = errors.New("invalid match context")
	ErrBadWeights   = errors.New("invalid difficulty weights")
)
