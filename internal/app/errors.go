package service

import "errors"

// Sentinel errors returned by Service operations.
var (
	ErrNoSource          = errors.New("no source configured")
	ErrPostNotFound      = errors.New("post not found")
	ErrCreationNotFound  = errors.New("creation not found")
	ErrImageNotInPost    = errors.New("image does not belong to post")
	ErrInvalidNavigation = errors.New("invalid navigation")
	ErrInvalidTab        = errors.New("invalid tab")
)
