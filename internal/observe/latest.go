// Package observe contains listeners that derive summaries from office reports.
package observe

import (
	"context"
	"sync"

	"github.com/okian/census/internal/census"
	"github.com/okian/census/internal/domain/city"
)

// Latest remembers the last office that notified it and the record it reported.
type Latest struct {
	mu     sync.RWMutex
	source census.Source
	record city.Record
}

var _ census.Listener = (*Latest)(nil)

// NewLatest returns a Latest with nothing observed yet.
func NewLatest() *Latest {
	return &Latest{}
}

// OnReport replaces the stored pair with src and its current report.
// Notifications from a source that has not reported are ignored.
func (l *Latest) OnReport(_ context.Context, src census.Source) error {
	if src == nil {
		return nil
	}
	rec, ok := src.LastReport()
	if !ok {
		return nil
	}

	l.mu.Lock()
	l.source = src
	l.record = rec
	l.mu.Unlock()
	return nil
}

// LastSource returns the last source that notified, nil before the first notification.
func (l *Latest) LastSource() census.Source {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.source
}

// LastRecord returns the last record observed.
func (l *Latest) LastRecord() (city.Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.record, l.source != nil
}
