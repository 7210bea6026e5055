package usecase

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/riskibarqy/day-planner/internal/domain/favorite"
	"github.com/riskibarqy/day-planner/internal/domain/fixture"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
	"github.com/riskibarqy/day-planner/internal/platform/metrics"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

type AggregatorConfig struct {
	// MaxConcurrency caps simultaneous source fetches; 0 means one goroutine
	// per followed sport.
	MaxConcurrency int
}

// Aggregator fans a date out to the source of every followed sport and
// collects whatever comes back.
type Aggregator struct {
	registry *SourceRegistry
	cfg      AggregatorConfig
	logger   *logging.Logger
}

func NewAggregator(registry *SourceRegistry, cfg AggregatorConfig, logger *logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Aggregator{
		registry: registry,
		cfg:      cfg,
		logger:   logger,
	}
}

// Aggregate returns the fixtures of followed teams on date. A failing source
// contributes nothing; the result order follows completion order.
func (a *Aggregator) Aggregate(ctx context.Context, date civil.Date, sports []favorite.FollowedSport) []timeline.Item {
	ctx, span := startUsecaseSpan(ctx, "usecase.Aggregator.Aggregate", dateAttr("aggregate.date", date))
	defer span.End()

	queries := make([]fixture.Query, 0, len(sports))
	for _, sport := range sports {
		if len(sport.Teams) == 0 {
			continue
		}
		queries = append(queries, fixture.Query{
			Date:  date,
			Sport: sport.Name,
			Teams: append([]favorite.FollowedTeam(nil), sport.Teams...),
		})
	}
	span.SetAttributes(attribute.Int("aggregate.queries", len(queries)))
	if len(queries) == 0 {
		return []timeline.Item{}
	}

	start := time.Now()
	defer func() { metrics.AggregateDuration.Observe(time.Since(start).Seconds()) }()

	p := pool.NewWithResults[[]timeline.Item]()
	if a.cfg.MaxConcurrency > 0 {
		p = p.WithMaxGoroutines(a.cfg.MaxConcurrency)
	}
	for _, q := range queries {
		p.Go(func() []timeline.Item {
			return a.fetch(ctx, q)
		})
	}

	out := make([]timeline.Item, 0)
	for _, items := range p.Wait() {
		out = append(out, items...)
	}
	return out
}

func (a *Aggregator) fetch(ctx context.Context, q fixture.Query) []timeline.Item {
	source, ok := a.registry.Resolve(q.Sport)
	if !ok {
		a.logger.WarnContext(ctx, "no fixture source registered", "sport", q.Sport)
		return nil
	}

	provider := source.Provider().String()
	started := time.Now()
	items, err := source.Fetch(ctx, q)
	metrics.ObserveSourceFetch(provider, started, err)
	if err != nil {
		a.logger.WarnContext(ctx, "fixture source failed",
			"provider", provider,
			"sport", q.Sport,
			"date", q.Date.String(),
			"error", err,
		)
		return nil
	}
	return items
}
