package census

import "errors"

// Sentinel kinds for census errors. Callers match them with errors.Is.
var (
	// ErrInvalidArgument is returned before any state change when an office
	// number or a report argument is rejected.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrListenerFailed wraps failures returned by listeners during fan-out.
	ErrListenerFailed = errors.New("listener failed")
)
