package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"Library/internal/catalog"
	"Library/internal/telemetry"
	"Library/pkg/kit"
)

const version = "1.0.0"

type config struct {
	Port             string
	LogLevel         string
	MetricsEnabled   bool
	MetricsToken     string
	WriteLimitPerMin int
	OTLPEndpoint     string
	ServiceName      string
	Environment      string
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	log, err := kit.NewLogger(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Version:     version,
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatal("init tracing failed", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store := catalog.NewObservedStore(
		catalog.NewMemStore(),
		tp.Tracer("library/catalog"),
		catalog.NewStoreMetrics(reg),
		log,
	)

	s := &catalog.Server{Store: store, Log: log}
	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:              log,
		Service:          cfg.ServiceName,
		Registry:         reg,
		Tracing:          tp,
		MetricsEnabled:   cfg.MetricsEnabled,
		MetricsToken:     cfg.MetricsToken,
		WriteLimitPerMin: cfg.WriteLimitPerMin,
	})

	log.Info("library starting",
		zap.String("version", version),
		zap.Bool("tracing_export", cfg.OTLPEndpoint != ""),
		zap.Int("write_limit_per_min", cfg.WriteLimitPerMin),
	)

	if err := kit.RunHTTPServer(ctx, ":"+cfg.Port, h, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
	}
}

func loadConfig() (config, error) {
	metricsEnabled, err := strconv.ParseBool(getenv("METRICS_ENABLED", "true"))
	if err != nil {
		return config{}, fmt.Errorf("METRICS_ENABLED: %w", err)
	}

	writeLimit, err := strconv.Atoi(getenv("WRITE_LIMIT_PER_MIN", "0"))
	if err != nil || writeLimit < 0 {
		return config{}, fmt.Errorf("WRITE_LIMIT_PER_MIN must be a non-negative integer")
	}

	return config{
		Port:             getenv("PORT", "8080"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		MetricsEnabled:   metricsEnabled,
		MetricsToken:     os.Getenv("METRICS_TOKEN"),
		WriteLimitPerMin: writeLimit,
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:      getenv("OTEL_SERVICE_NAME", "library"),
		Environment:      getenv("OTEL_ENVIRONMENT", "development"),
	}, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
