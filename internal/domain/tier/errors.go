package tier

import "errors"

// Sentinel kinds for tier errors.
var (
	ErrUnknownTier       = errors.New("unknown tier")
	ErrUnknownThreshold  = errors.New("unknown threshold")
	ErrInvalidThresholds = errors.New("invalid tier thresholds")
)
