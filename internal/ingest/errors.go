package ingest

import "errors"

// Sentinel kinds for ingest errors.
var (
	ErrBadHeader = errors.New("invalid csv header")
)
