package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrNoResults     = errors.New("no stored results")
	ErrMissingColumn = errors.New("missing required column")
	ErrInvalidRow    = errors.New("invalid row")
)
