package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/intelebee/connect/internal/config"
	"github.com/intelebee/connect/internal/infrastructure/observability"
)

// App holds the process-wide pieces every command starts from: parsed
// config, logger, metrics registry and (when enabled) tracing.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Metrics *observability.Metrics
}

func New(ctx context.Context, serviceName string, metricsNamespace string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.Info().Str("service", serviceName).Msg("Starting")

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer(serviceName, cfg.Observability.JaegerEndpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		} else {
			go func() {
				<-ctx.Done()
				observability.Shutdown(context.Background(), tp)
			}()
			logger.Info().Msg("Tracing enabled")
		}
	}

	metrics := observability.NewMetrics(metricsNamespace, nil)
	logger.Info().Msg("Metrics initialized")

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
	}, nil
}
