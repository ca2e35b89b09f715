package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound     = errors.New("screening not found")
	ErrInvalidLimit = errors.New("invalid limit")
	ErrInvalidID    = errors.New("screening id must not be empty")
	ErrCapacity     = errors.New("repository full")
)
