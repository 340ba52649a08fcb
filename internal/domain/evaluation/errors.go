package evaluation

import "errors"

// Sentinel kinds for evaluation errors.
var (
	ErrDuplicatePlayer = errors.New("duplicate player id")
	ErrInvalidSettings = errors.New("invalid evaluation settings")
)
