// Package observability starts the optional tracing and profiling exporters
// for the API process.
package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/day-planner/internal/config"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
)

// Shutdown flushes exporters. It is safe to call once during process exit.
type Shutdown func(ctx context.Context) error

// Setup starts Uptrace and Pyroscope according to cfg. Disabled exporters are
// skipped; the returned Shutdown stops whatever was started.
func Setup(cfg config.Config, logger *logging.Logger) (Shutdown, error) {
	shutdownTracing, err := InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}

	stopProfiling, err := InitPyroscope(cfg, logger)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}

	return func(ctx context.Context) error {
		return errors.Join(stopProfiling(), shutdownTracing(ctx))
	}, nil
}
