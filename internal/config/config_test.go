package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/census/internal/census"
	"github.com/okian/census/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.TopK, convey.ShouldEqual, 5)
			convey.So(cfg.FailurePolicy, convey.ShouldEqual, "continue")
			convey.So(cfg.Offices, convey.ShouldResemble, []int{1, 2, 3})
			convey.So(cfg.FeedPath, convey.ShouldBeEmpty)
			convey.So(cfg.GenerateCount, convey.ShouldEqual, 100)
			convey.So(cfg.MetricsNamespace, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the default policy should parse", func() {
			p, err := cfg.Policy()
			convey.So(err, convey.ShouldBeNil)
			convey.So(p, convey.ShouldEqual, census.FailurePolicyContinue)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configs", t, func() {
		cases := map[string]func(*config.Config){
			"zero top_k":       func(c *config.Config) { c.TopK = 0 },
			"unknown policy":   func(c *config.Config) { c.FailurePolicy = "retry" },
			"no offices":       func(c *config.Config) { c.Offices = nil },
			"zero office":      func(c *config.Config) { c.Offices = []int{1, 0} },
			"negative count":   func(c *config.Config) { c.GenerateCount = -1 },
			"negative office":  func(c *config.Config) { c.Offices = []int{-3} },
			"empty policy":     func(c *config.Config) { c.FailurePolicy = "" },
			"negative top_k":   func(c *config.Config) { c.TopK = -5 },
			"uppercase policy": func(c *config.Config) { c.FailurePolicy = "ABORT" },
		}

		for name, mutate := range cases {
			convey.Convey("When validating a config with "+name, func() {
				cfg := config.New(context.Background())
				mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then it should be rejected", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
