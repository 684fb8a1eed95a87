// Package config defines census process configuration and its loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of New.
// - Failures are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"

	"github.com/okian/census/internal/census"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// TopK is the number of cities the top-k listener answers with.
	TopK int `koanf:"top_k"`

	// FailurePolicy decides what an office does when a listener fails:
	// "continue" or "abort".
	FailurePolicy string `koanf:"failure_policy"`

	// Offices lists the office numbers to create.
	Offices []int `koanf:"offices"`

	// FeedPath points at a YAML feed. Reports are generated when empty.
	FeedPath string `koanf:"feed_path"`

	// GenerateCount is the number of reports generated without a feed file.
	GenerateCount int `koanf:"generate_count"`

	// MetricsNamespace overrides the Prometheus namespace when set.
	MetricsNamespace string `koanf:"metrics_namespace"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:      "info",
		TopK:          5,
		FailurePolicy: census.FailurePolicyContinue.String(),
		Offices:       defaultOffices(),
		GenerateCount: 100,
	}
}

func defaultOffices() []int {
	return []int{1, 2, 3}
}

// Policy returns the parsed failure policy.
func (c *Config) Policy() (census.FailurePolicy, error) {
	p, ok := census.ParseFailurePolicy(c.FailurePolicy)
	if !ok {
		return 0, fmt.Errorf("%w: unknown failure_policy %q", ErrInvalidConfig, c.FailurePolicy)
	}
	return p, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("%w: top_k must be at least 1 [%d]", ErrInvalidConfig, c.TopK)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if len(c.Offices) == 0 {
		return fmt.Errorf("%w: offices must not be empty", ErrInvalidConfig)
	}
	for _, o := range c.Offices {
		if o <= 0 {
			return fmt.Errorf("%w: office must be greater than 0 [%d]", ErrInvalidConfig, o)
		}
	}
	if c.GenerateCount < 0 {
		return fmt.Errorf("%w: generate_count must not be negative [%d]", ErrInvalidConfig, c.GenerateCount)
	}
	return nil
}
