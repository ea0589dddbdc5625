package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidLimit = errors.New("invalid ranking limit")
	ErrConflict     = errors.New("match is no longer open for evaluation")
	ErrClosed       = errors.New("store is closed")
)
