// Package service wires census offices to the derived-summary listeners and
// drives feeds through them.
package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/census/internal/census"
	"github.com/okian/census/internal/domain/city"
	"github.com/okian/census/internal/feed"
	"github.com/okian/census/internal/observe"
	"github.com/okian/census/pkg/logger"
)

// Service owns a set of offices sharing one Latest and one TopK listener.
type Service struct {
	mu sync.RWMutex

	// Core components
	offices map[int]*census.Office
	latest  *observe.Latest
	top     *observe.TopK

	// Configuration
	officeNumbers []int
	topK          int
	policy        census.FailurePolicy

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithOffices sets the office numbers created on Start.
func WithOffices(numbers ...int) Option {
	return func(s *Service) {
		if len(numbers) > 0 {
			s.officeNumbers = slices.Clone(numbers)
		}
	}
}

// WithTopK sets the size of the top-k answer.
func WithTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithFailurePolicy sets the listener failure policy of every office.
func WithFailurePolicy(p census.FailurePolicy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		officeNumbers: []int{1, 2, 3},
		topK:          observe.DefaultK,
		policy:        census.FailurePolicyContinue,
		logger:        logger.Discard(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start creates the offices and registers the listeners on each of them.
// Starting a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting census service...")

	offices := make(map[int]*census.Office, len(s.officeNumbers))
	latest := observe.NewLatest()
	top := observe.NewTopK(observe.WithK(s.topK))
	for _, n := range s.officeNumbers {
		if _, dup := offices[n]; dup {
			return fmt.Errorf("%w: duplicate office [%d]", census.ErrInvalidArgument, n)
		}
		o, err := census.NewOffice(n,
			census.WithLogger(s.logger.Named("office")),
			census.WithFailurePolicy(s.policy),
		)
		if err != nil {
			return err
		}
		o.Register(latest)
		o.Register(top)
		offices[n] = o
	}

	s.offices = offices
	s.latest = latest
	s.top = top
	s.started = true
	s.logger.Info(ctx, "census service started",
		logger.Int("offices", len(offices)),
		logger.Int("topK", s.topK),
		logger.String("failurePolicy", s.policy.String()),
	)

	return nil
}

// Stop unregisters the listeners from every office. Summaries gathered so far
// stay queryable.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	for _, o := range s.offices {
		o.Unregister(s.latest)
		o.Unregister(s.top)
	}

	s.started = false
	s.logger.Info(context.Background(), "census service stopped")
}

// Office returns the office with the given number.
func (s *Service) Office(number int) (*census.Office, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.offices[number]
	return o, ok
}

// Report sends one record through the given office.
func (s *Service) Report(ctx context.Context, office int, rec *city.Record) error {
	s.mu.RLock()
	started := s.started
	o, ok := s.offices[office]
	s.mu.RUnlock()

	if !started {
		return ErrNotStarted
	}
	if !ok {
		return fmt.Errorf("%w [%d]", feed.ErrUnknownOffice, office)
	}
	return o.Report(ctx, rec)
}

// Replay drives a feed through the offices.
func (s *Service) Replay(ctx context.Context, reports []feed.Report) (feed.Stats, error) {
	s.mu.RLock()
	started := s.started
	offices := s.offices
	s.mu.RUnlock()

	if !started {
		return feed.Stats{}, ErrNotStarted
	}

	s.logger.Info(ctx, "replaying feed", logger.Int("reports", len(reports)))
	stats, err := feed.Replay(ctx, offices, reports)
	s.logger.Info(ctx, "replay finished",
		logger.Int("reports", stats.Reports),
		logger.Int("failed", stats.Failed),
	)
	return stats, err
}

// Top returns the current top-k answer.
func (s *Service) Top() []city.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.top == nil {
		return []city.Record{}
	}
	return s.top.TopFive()
}

// TopK returns the configured size of the top-k answer.
func (s *Service) TopK() int {
	return s.topK
}

// Latest returns the most recently reported record and its office.
func (s *Service) Latest() (city.Record, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return city.Record{}, 0, false
	}
	rec, ok := s.latest.LastRecord()
	if !ok {
		return city.Record{}, 0, false
	}
	return rec, s.latest.LastSource().Number(), true
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"offices":       len(s.officeNumbers),
		"topK":          s.topK,
		"failurePolicy": s.policy.String(),
	}

	if s.top != nil {
		stats["history"] = s.top.Count()
	}
	if s.started {
		listeners := 0
		for _, o := range s.offices {
			listeners += o.Listeners()
		}
		stats["listeners"] = listeners
	}

	return stats
}
