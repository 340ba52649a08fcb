package category

import "errors"

// Sentinel kinds for category errors.
var (
	ErrConfiguration = errors.New("invalid category policy")
)
