package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/census/internal/config"
	"github.com/okian/census/pkg/logger"
)

func main() {
	var (
		configFile = flag.String("config", "", "YAML config file (overrides CENSUS_CONFIG)")
		feedPath   = flag.String("feed", "", "YAML feed to replay (overrides feed_path)")
		savePath   = flag.String("save", "", "Write the replayed feed to this file")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Named("census")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *configFile != "" {
		_ = os.Setenv("CENSUS_CONFIG", *configFile)
	}

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}
	if *feedPath != "" {
		cfg.FeedPath = *feedPath
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	res, err := run(ctx, cfg, log, *savePath)
	if err != nil {
		log.Error(ctx, "census run failed", logger.Error(err))
		os.Exit(1)
	}

	for i, rec := range res.Top {
		log.Info(ctx, "top city", logger.Int("rank", i+1), logger.String("city", rec.String()))
	}
	if res.Latest != nil {
		log.Info(ctx, "latest report", logger.String("city", res.Latest.String()), logger.Int("office", res.LatestOffice))
	}
	for name, v := range res.Metrics {
		log.Debug(ctx, "metric", logger.String("name", name), logger.Float64("value", v))
	}
}
