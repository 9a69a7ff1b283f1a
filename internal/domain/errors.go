package domain

import "errors"

var (
	ErrNotFound        = errors.New("job not found")
	ErrInvalidSpec     = errors.New("invalid job spec")
	ErrUpstreamFailure = errors.New("upstream failure")
	ErrStorageFailure  = errors.New("storage failure")
)
