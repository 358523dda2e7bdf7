// Package observability sets up logging and metrics.
package observability

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the process logger. Production gets JSON output for log
// aggregation; anything else gets the human-readable development config.
func NewLogger(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
