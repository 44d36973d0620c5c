// Command stationindex builds the USGS gage-height station index and writes
// stations.json and stations.min.json to OUTPUT_DIR. It takes no arguments;
// all settings come from the environment (see internal/config).
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/usgs-station-index/internal/adapter/jsonfile"
	kafkaadapter "github.com/couchcryptid/usgs-station-index/internal/adapter/kafka"
	"github.com/couchcryptid/usgs-station-index/internal/adapter/usgs"
	"github.com/couchcryptid/usgs-station-index/internal/config"
	"github.com/couchcryptid/usgs-station-index/internal/observability"
	"github.com/couchcryptid/usgs-station-index/internal/pipeline"
	"github.com/couchcryptid/usgs-station-index/internal/throttle"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config) int {
	logger := observability.NewLogger(cfg, os.Stderr)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	builder := pipeline.New(
		usgs.NewCountyClient(cfg, metrics, logger),
		usgs.NewSiteClient(cfg, metrics),
		pacing(cfg, clock, logger),
		logger, metrics, os.Stdout,
	)
	builder.SetClock(clock)

	loaders := []pipeline.Loader{jsonfile.NewWriter(cfg.OutputDir)}
	if cfg.PublishEnabled() {
		publisher := kafkaadapter.NewPublisher(cfg, clock, logger, metrics)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		loaders = append(loaders, publisher)
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	_, err := builder.Run(ctx, cfg.States, loaders...)
	if cfg.MetricsTextfile != "" {
		if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			logger.Error("metrics export failed", "path", cfg.MetricsTextfile, "error", werr)
		}
	}
	if err != nil {
		logger.Error("station index build failed", "error", err)
		return 1
	}
	return 0
}

// pacing picks the politeness throttles: one token bucket shared by both
// passes when THROTTLE_RPS is set, otherwise fixed pauses per request.
func pacing(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) pipeline.Pacing {
	if cfg.ThrottleRPS > 0 {
		limiter := throttle.NewLimiter(cfg.ThrottleRPS)
		logger.Info("rate limited pacing", "rps", cfg.ThrottleRPS)
		return pipeline.Pacing{County: limiter, Station: limiter}
	}
	return pipeline.Pacing{
		County:  throttle.NewPause(clock, cfg.CountyDelay),
		Station: throttle.NewPause(clock, cfg.StationDelay),
	}
}
