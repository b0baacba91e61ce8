package rankcheck

import "errors"

// Sentinel errors for rankcheck runs.
var (
	ErrMismatch         = errors.New("service ranking differs from local ranking")
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrServiceLoading   = errors.New("service is still loading posts")
)
