package census

import "github.com/okian/census/pkg/logger"

// FailurePolicy decides what Report does when a listener returns an error.
type FailurePolicy int

const (
	// FailurePolicyContinue notifies every listener and returns all failures joined.
	FailurePolicyContinue FailurePolicy = iota
	// FailurePolicyAbort stops the fan-out at the first failing listener.
	FailurePolicyAbort
)

func (p FailurePolicy) String() string {
	switch p {
	case FailurePolicyContinue:
		return "continue"
	case FailurePolicyAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// ParseFailurePolicy maps "continue" and "abort" to their policy.
func ParseFailurePolicy(s string) (FailurePolicy, bool) {
	switch s {
	case "continue":
		return FailurePolicyContinue, true
	case "abort":
		return FailurePolicyAbort, true
	default:
		return FailurePolicyContinue, false
	}
}

// Option applies a configuration option to the Office.
type Option func(*Office)

// WithLogger sets the logger used by the office.
func WithLogger(l logger.Logger) Option {
	return func(o *Office) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFailurePolicy sets how listener failures affect the fan-out.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(o *Office) {
		o.policy = p
	}
}
