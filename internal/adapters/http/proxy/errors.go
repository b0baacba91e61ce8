package proxy

import "errors"

// Sentinel kinds for proxy errors.
var (
	ErrInvalidURL     = errors.New("invalid image url")
	ErrHostNotAllowed = errors.New("image host not allowed")
	ErrUpstream       = errors.New("upstream fetch failed")
	ErrTooLarge       = errors.New("upstream image too large")
	ErrNotImage       = errors.New("upstream response is not an image")
	ErrPrivateAddress = errors.New("upstream address is not public")
	ErrMethod         = errors.New("method not allowed")
)
