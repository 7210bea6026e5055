package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/riskibarqy/day-planner/external/jobqueue"
	"github.com/riskibarqy/day-planner/internal/config"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	"github.com/riskibarqy/day-planner/internal/infrastructure/calendar"
	"github.com/riskibarqy/day-planner/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/day-planner/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/day-planner/internal/platform/id"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
	"github.com/riskibarqy/day-planner/internal/platform/metrics"
	"github.com/riskibarqy/day-planner/internal/platform/resilience"
	"github.com/riskibarqy/day-planner/internal/usecase"
)

// App holds the wired services shared by the API server and the CLI.
type App struct {
	Config    config.Config
	Logger    *logging.Logger
	Timeline  *usecase.TimelineService
	Favorites *usecase.FavoritesRegistry
	Items     *usecase.UserItemService
	Calendar  *calendar.ICSMirror
	Warmer    *usecase.CacheWarmer

	closers []func() error
}

// Build wires every component from cfg. The favorites registry is loaded
// before Build returns.
func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	metrics.MustRegister(prometheus.DefaultRegisterer)

	a := &App{Config: cfg, Logger: logger}

	favoritesRepo, closeFavorites, err := newFavoritesRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if closeFavorites != nil {
		a.closers = append(a.closers, closeFavorites)
	}

	a.Favorites = usecase.NewFavoritesRegistry(favoritesRepo, logger)
	a.Favorites.Load(ctx)

	a.Calendar = calendar.NewICSMirror("")
	a.Items = usecase.NewUserItemService(
		memory.NewUserItemRepository(),
		a.Calendar,
		newReminderScheduler(cfg, logger),
		idgen.NewUUIDGenerator(),
		logger,
	).WithLocation(cfg.Location)

	registry := usecase.NewSourceRegistry(newSources(cfg, logger)...)
	aggregator := usecase.NewAggregator(registry, usecase.AggregatorConfig{MaxConcurrency: cfg.AggregateMaxConcurrency}, logger)

	a.Timeline = usecase.NewTimelineService(a.Items, a.Favorites, aggregator, usecase.TimelineServiceConfig{
		Location:        cfg.Location,
		RangeMaxWorkers: cfg.RangeMaxWorkers,
	}, logger)
	a.Warmer = usecase.NewCacheWarmer(aggregator, a.Favorites, usecase.CacheWarmerConfig{
		Location: cfg.Location,
		Schedule: cfg.CacheWarmupSchedule,
	}, logger)

	return a, nil
}

// NewHTTPServer builds the API server around a.
func (a *App) NewHTTPServer() (*http.Server, error) {
	handler := httpapi.NewHandler(a.Timeline, a.Favorites, a.Items, a.Calendar, a.Logger)
	router := httpapi.NewRouter(handler, a.Logger, a.Config.SwaggerEnabled, a.Config.CORSAllowedOrigins, a.Config.InternalJobToken)

	server := &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// Close releases store connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newReminderScheduler(cfg config.Config, logger *logging.Logger) timeline.ReminderScheduler {
	if !cfg.QStashEnabled {
		return jobqueue.NoopReminderScheduler{}
	}
	return jobqueue.NewQStashReminderScheduler(jobqueue.QStashConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		Timeout:          10 * time.Second,
		Lead:             cfg.ReminderLead,
		CircuitBreaker:   circuitBreakerConfig(cfg.QStashCircuit),
	}, logger)
}

func circuitBreakerConfig(c config.CircuitConfig) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          c.Enabled,
		FailureThreshold: c.FailureCount,
		OpenTimeout:      c.OpenTimeout,
		HalfOpenMaxReq:   c.HalfOpenMaxReqs,
	}
}
