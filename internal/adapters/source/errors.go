package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrUnsupportedSource = errors.New("unsupported source")
	ErrUpstreamStatus    = errors.New("unexpected upstream status")
)
