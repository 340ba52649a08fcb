package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrConfiguration = errors.New("invalid pillar configuration")
)
