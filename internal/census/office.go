// Package census implements census offices that report city records and
// notify registered listeners synchronously.
package census

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/census/internal/domain/city"
	"github.com/okian/census/pkg/logger"
	"github.com/okian/census/pkg/metrics"
)

// Office is a reporting source identified by a positive number.
//
// Register, Unregister and Report may be called from several goroutines. The
// registry lock is not held while listeners run, so a listener may register
// or unregister listeners on the same office; such changes apply from the
// next Report on. A listener shared by several offices must guard its own
// state.
type Office struct {
	number int

	mu        sync.RWMutex
	listeners []Listener
	last      *city.Record

	policy FailurePolicy
	logger logger.Logger
}

// NewOffice creates an office. The number must be greater than zero.
func NewOffice(number int, opts ...Option) (*Office, error) {
	if number <= 0 {
		metrics.RecordRejectedReport("invalid_office_number")
		return nil, fmt.Errorf("%w: office number must be greater than 0 [%d]", ErrInvalidArgument, number)
	}

	o := &Office{
		number: number,
		policy: FailurePolicyContinue,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Number returns the office number.
func (o *Office) Number() int {
	return o.number
}

// LastReport returns the most recently reported record.
func (o *Office) LastReport() (city.Record, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.last == nil {
		return city.Record{}, false
	}
	return *o.last, true
}

// Register adds l to the end of the registry. It returns false when l is nil,
// not comparable, or already registered.
func (o *Office) Register(l Listener) bool {
	if !registrable(l) {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if slices.Contains(o.listeners, l) {
		return false
	}
	o.listeners = append(o.listeners, l)
	metrics.UpdateRegisteredListeners(o.number, len(o.listeners))
	return true
}

// Unregister removes l from the registry. It returns false when l was not
// registered.
func (o *Office) Unregister(l Listener) bool {
	if !registrable(l) {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	i := slices.Index(o.listeners, l)
	if i < 0 {
		return false
	}
	o.listeners = slices.Delete(o.listeners, i, i+1)
	metrics.UpdateRegisteredListeners(o.number, len(o.listeners))
	return true
}

// registrable reports whether l can be looked up in the registry with ==.
func registrable(l Listener) bool {
	return l != nil && reflect.TypeOf(l).Comparable()
}

// HasListeners reports whether at least one listener is registered.
func (o *Office) HasListeners() bool {
	return o.Listeners() > 0
}

// Listeners returns the number of registered listeners.
func (o *Office) Listeners() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.listeners)
}

// Report stores rec as the current report and notifies every listener
// registered when the call started, in registration order, before returning.
//
// A nil rec is rejected with ErrInvalidArgument and changes nothing. Listener
// failures are handled according to the office's FailurePolicy and returned
// wrapped in ErrListenerFailed; the record stays reported either way.
func (o *Office) Report(ctx context.Context, rec *city.Record) error {
	if rec == nil {
		metrics.RecordRejectedReport("nil_record")
		return fmt.Errorf("%w: city record cannot be nil", ErrInvalidArgument)
	}

	o.mu.Lock()
	r := *rec
	o.last = &r
	snapshot := slices.Clone(o.listeners)
	o.mu.Unlock()
	metrics.RecordReport(o.number)

	reportID := uuid.NewString()
	start := time.Now()

	var errs []error
	for i, l := range snapshot {
		err := l.OnReport(ctx, o)
		metrics.RecordNotification(o.number)
		if err == nil {
			continue
		}

		metrics.RecordListenerFailure(o.number)
		o.logger.Warn(ctx, "listener failed",
			logger.String("reportID", reportID),
			logger.Int("office", o.number),
			logger.Int("listener", i),
			logger.Error(err),
		)
		errs = append(errs, fmt.Errorf("listener %d: %w", i, err))
		if o.policy == FailurePolicyAbort {
			break
		}
	}

	elapsed := time.Since(start)
	metrics.RecordFanoutDuration(float64(elapsed.Microseconds()) / 1000)
	o.logger.Debug(ctx, "report delivered",
		logger.String("reportID", reportID),
		logger.Int("office", o.number),
		logger.String("city", r.Name()),
		logger.Int("population", r.Population()),
		logger.Int("listeners", len(snapshot)),
		logger.Int("failures", len(errs)),
	)

	if len(errs) > 0 {
		return fmt.Errorf("%w: office %d: %w", ErrListenerFailed, o.number, errors.Join(errs...))
	}
	return nil
}
