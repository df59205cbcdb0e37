package repository

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidLimit = errors.New("limit must be at least 1")
)
