package service

import "errors"

// ErrNotStarted is returned when reports arrive before Start.
var ErrNotStarted = errors.New("service not started")
