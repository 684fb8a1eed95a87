package observe

import (
	"context"
	"sync"

	"github.com/okian/census/internal/census"
	"github.com/okian/census/internal/domain/city"
	"github.com/okian/census/internal/ranking"
	"github.com/okian/census/pkg/metrics"
)

// TopK keeps every record it is notified about and answers the K most
// populous, most populous first. Among equal populations the earlier arrival
// ranks first.
type TopK struct {
	k         int
	indexOpts []ranking.Option

	mu      sync.RWMutex
	history []city.Record
	index   *ranking.Index
}

var _ census.Listener = (*TopK)(nil)

// NewTopK returns an empty TopK ranking DefaultK records.
func NewTopK(opts ...TopKOption) *TopK {
	t := &TopK{k: DefaultK}
	for _, opt := range opts {
		opt(t)
	}
	t.index = ranking.NewIndex(t.indexOpts...)
	return t
}

// OnReport appends the current report of src to the history. Repeated
// records are kept.
func (t *TopK) OnReport(_ context.Context, src census.Source) error {
	if src == nil {
		return nil
	}
	rec, ok := src.LastReport()
	if !ok {
		return nil
	}

	t.mu.Lock()
	t.history = append(t.history, rec)
	t.index.Insert(rec)
	t.mu.Unlock()

	metrics.RecordTopKObservation()
	return nil
}

// K returns the configured ranking size.
func (t *TopK) K() int {
	return t.k
}

// TopFive returns at most K records from the history with the largest
// populations, in descending order. It never modifies the history and
// returns an empty slice before the first notification.
func (t *TopK) TopFive() []city.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries, err := t.index.TopN(t.k)
	if err != nil {
		// k is always positive
		return []city.Record{}
	}
	out := make([]city.Record, len(entries))
	for i, e := range entries {
		out[i] = e.Record
	}
	return out
}

// History returns a copy of every observed record in arrival order.
func (t *TopK) History() []city.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]city.Record, len(t.history))
	copy(out, t.history)
	return out
}

// Count returns the number of observed records.
func (t *TopK) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.history)
}
