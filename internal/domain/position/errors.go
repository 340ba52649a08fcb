package position

import "errors"

// Sentinel kinds for position errors.
var (
	ErrUnrecognized = errors.New("unrecognized position")
)
