package repository

import "errors"

// Sentinel kinds for ranking store errors.
var (
	ErrNotFound      = errors.New("player not found")
	ErrInvalidLimit  = errors.New("invalid ranking limit")
	ErrUnknownMetric = errors.New("unknown ranking metric")
	ErrNotReady      = errors.New("no rankings published")
)
