package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
)

const defaultWarmupTimeout = 2 * time.Minute

type CacheWarmerConfig struct {
	Location *time.Location
	// Schedule is a five-field cron expression; empty disables the job.
	Schedule string
	Timeout  time.Duration
}

// CacheWarmer aggregates today and tomorrow for the current favorites on a
// schedule so the response cache is already filled when a view is requested.
type CacheWarmer struct {
	aggregator *Aggregator
	favorites  favoritesLister
	location   *time.Location
	schedule   string
	timeout    time.Duration
	logger     *logging.Logger
	now        func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

func NewCacheWarmer(aggregator *Aggregator, favorites favoritesLister, cfg CacheWarmerConfig, logger *logging.Logger) *CacheWarmer {
	if logger == nil {
		logger = logging.Default()
	}
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultWarmupTimeout
	}
	return &CacheWarmer{
		aggregator: aggregator,
		favorites:  favorites,
		location:   location,
		schedule:   strings.TrimSpace(cfg.Schedule),
		timeout:    timeout,
		logger:     logger.With("component", "cache_warmer"),
		now:        time.Now,
	}
}

// WarmUp runs one pass and returns the number of fixtures seen.
func (w *CacheWarmer) WarmUp(ctx context.Context) int {
	ctx, span := startUsecaseSpan(ctx, "usecase.CacheWarmer.WarmUp")
	defer span.End()

	sports := w.favorites.List()
	today := civil.DateOf(w.now().In(w.location))

	total := 0
	for offset := 0; offset < 2; offset++ {
		items := w.aggregator.Aggregate(ctx, today.AddDays(offset), sports)
		total += len(items)
	}
	span.SetAttributes(attribute.Int("warmup.items", total))
	w.logger.InfoContext(ctx, "response cache warmed", "from", today.String(), "sports", len(sports), "items", total)
	return total
}

// Start registers the schedule and starts the cron runner. It is a no-op
// when no schedule is configured.
func (w *CacheWarmer) Start() error {
	if w.schedule == "" {
		w.logger.Info("cache warm-up disabled")
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cron != nil {
		return nil
	}

	runner := cron.New(cron.WithLocation(w.location))
	if _, err := runner.AddFunc(w.schedule, w.runOnce); err != nil {
		return fmt.Errorf("%w: invalid CACHE_WARMUP_SCHEDULE %q: %v", ErrInvalidInput, w.schedule, err)
	}
	runner.Start()
	w.cron = runner
	w.logger.Info("cache warm-up scheduled", "schedule", w.schedule, "timezone", w.location.String())
	return nil
}

// Stop halts the runner and waits for a running pass to finish or ctx to end.
func (w *CacheWarmer) Stop(ctx context.Context) {
	w.mu.Lock()
	runner := w.cron
	w.cron = nil
	w.mu.Unlock()
	if runner == nil {
		return
	}

	select {
	case <-runner.Stop().Done():
	case <-ctx.Done():
		w.logger.Warn("cache warm-up still running at shutdown")
	}
}

func (w *CacheWarmer) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	w.WarmUp(ctx)
}
