package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrInvalidLimit = errors.New("invalid ranking limit")
	ErrNotFound     = errors.New("record not found")
)
