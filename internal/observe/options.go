package observe

import "github.com/okian/census/internal/ranking"

// DefaultK is the number of records TopK ranks unless configured otherwise.
const DefaultK = 5

// TopKOption applies a configuration option to a TopK.
type TopKOption func(*TopK)

// WithK sets how many records TopFive returns. Values below 1 are ignored.
func WithK(k int) TopKOption {
	return func(t *TopK) {
		if k > 0 {
			t.k = k
		}
	}
}

// WithIndexOptions passes options to the underlying ranking index.
func WithIndexOptions(opts ...ranking.Option) TopKOption {
	return func(t *TopK) {
		t.indexOpts = append(t.indexOpts, opts...)
	}
}
