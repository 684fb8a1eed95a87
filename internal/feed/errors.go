package feed

import "errors"

// Sentinel kinds for feed errors.
var (
	ErrInvalidFeed     = errors.New("invalid feed")
	ErrUnknownOffice   = errors.New("unknown office")
	ErrRankingMismatch = errors.New("ranking mismatch")
)
