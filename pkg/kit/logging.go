package kit

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger builds the production JSON logger used by every service binary.
// An empty level means info.
func NewLogger(service, level string) (*zap.Logger, error) {
	if strings.TrimSpace(level) == "" {
		level = "info"
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.InitialFields = map[string]any{"service": service}
	return cfg.Build()
}
