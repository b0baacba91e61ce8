package ranking

import "errors"

// Sentinel errors for ranking. Callers match them with errors.Is.
var (
	ErrEmptyCollection  = errors.New("empty collection")
	ErrUnknownSortOrder = errors.New("unknown sort order")
)
