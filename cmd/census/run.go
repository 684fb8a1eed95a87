package main

import (
	"context"
	"fmt"

	service "github.com/okian/census/internal/app"
	"github.com/okian/census/internal/config"
	"github.com/okian/census/internal/domain/city"
	"github.com/okian/census/internal/feed"
	"github.com/okian/census/pkg/logger"
	"github.com/okian/census/pkg/metrics"
)

// result is what one run observed.
type result struct {
	Stats        feed.Stats
	Top          []city.Record
	Latest       *city.Record
	LatestOffice int
	Metrics      map[string]float64
}

// run starts the service, replays the feed through it and verifies the
// top-k answer against a reference ranking.
func run(ctx context.Context, cfg *config.Config, log logger.Logger, savePath string) (*result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	if cfg.MetricsNamespace != "" {
		metrics.Reset(metrics.WithNamespace(cfg.MetricsNamespace))
	}

	reports, err := loadReports(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if savePath != "" {
		if err := feed.Save(savePath, reports); err != nil {
			return nil, err
		}
		log.Info(ctx, "feed saved", logger.String("path", savePath), logger.Int("reports", len(reports)))
	}

	svc := service.New(
		service.WithLogger(log),
		service.WithOffices(cfg.Offices...),
		service.WithTopK(cfg.TopK),
		service.WithFailurePolicy(policy),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	defer svc.Stop()

	stats, err := svc.Replay(ctx, reports)
	if err != nil {
		return nil, err
	}

	res := &result{Stats: stats, Top: svc.Top()}
	if err := feed.Verify(res.Top, reports, svc.TopK()); err != nil {
		return nil, err
	}
	if rec, office, ok := svc.Latest(); ok {
		res.Latest = &rec
		res.LatestOffice = office
	}

	res.Metrics, err = metrics.Summary()
	if err != nil {
		return nil, err
	}
	return res, nil
}

func loadReports(ctx context.Context, cfg *config.Config, log logger.Logger) ([]feed.Report, error) {
	if cfg.FeedPath != "" {
		reports, err := feed.Load(cfg.FeedPath)
		if err != nil {
			return nil, err
		}
		log.Info(ctx, "feed loaded", logger.String("path", cfg.FeedPath), logger.Int("reports", len(reports)))
		return reports, nil
	}

	reports, err := feed.Generate(ctx, feed.GenerateConfig{
		Count:   cfg.GenerateCount,
		Offices: cfg.Offices,
		Logger:  log.Named("feed"),
	})
	if err != nil {
		return nil, fmt.Errorf("generate feed: %w", err)
	}
	return reports, nil
}
