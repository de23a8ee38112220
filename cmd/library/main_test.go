package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "METRICS_ENABLED", "METRICS_TOKEN", "WRITE_LIMIT_PER_MIN", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME", "OTEL_ENVIRONMENT"} {
		t.Setenv(k, "")
	}

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config{
		Port:           "8080",
		LogLevel:       "info",
		MetricsEnabled: true,
		ServiceName:    "library",
		Environment:    "development",
	}, cfg)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("WRITE_LIMIT_PER_MIN", "30")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 30, cfg.WriteLimitPerMin)
	assert.Equal(t, "collector:4317", cfg.OTLPEndpoint)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("WRITE_LIMIT_PER_MIN", "-1")
	_, err := loadConfig()
	assert.Error(t, err)

	t.Setenv("WRITE_LIMIT_PER_MIN", "")
	t.Setenv("METRICS_ENABLED", "maybe")
	_, err = loadConfig()
	assert.Error(t, err)
}
