package normalize

import "errors"

// Sentinel kinds for normalization errors.
var (
	ErrInvalidInput = errors.New("invalid match statistics")
)
