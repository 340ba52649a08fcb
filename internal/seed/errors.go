package seed

import "errors"

// ErrInvalidConfig is returned when a generator configuration is unusable.
var ErrInvalidConfig = errors.New("invalid seed config")
