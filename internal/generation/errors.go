package generation

import "errors"

var (
	ErrUnavailable     = errors.New("generation service unavailable")
	ErrUnknownProvider = errors.New("unknown generation provider")
	ErrEmptyResponse   = errors.New("generation returned no content")
)
