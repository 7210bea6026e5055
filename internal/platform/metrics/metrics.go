package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SourceFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_source_fetch_total",
		Help: "Fixture source fetches by provider and outcome.",
	}, []string{"provider", "status"})

	SourceFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_source_fetch_duration_seconds",
		Help:    "Fixture source fetch latency.",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
	}, []string{"provider", "status"})

	ResponseCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_response_cache_total",
		Help: "Response cache lookups by provider and result.",
	}, []string{"provider", "result"})

	AggregateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_aggregate_duration_seconds",
		Help:    "Time to fan out to every followed sport and collect fixtures.",
		Buckets: prometheus.DefBuckets,
	})

	CircuitState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "planner_circuit_state",
		Help: "Circuit breaker state per upstream: 0 closed, 1 half-open, 2 open.",
	}, []string{"breaker"})

	ReminderPublishTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_reminder_publish_total",
		Help: "Reminder scheduling attempts by outcome.",
	}, []string{"status"})
)

var registerOnce sync.Once

// MustRegister registers the collectors once; later calls are no-ops.
func MustRegister(registerer prometheus.Registerer) {
	registerOnce.Do(func() {
		registerer.MustRegister(
			SourceFetchTotal,
			SourceFetchDuration,
			ResponseCacheTotal,
			AggregateDuration,
			CircuitState,
			ReminderPublishTotal,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSourceFetch records one source fetch.
func ObserveSourceFetch(provider string, start time.Time, err error) {
	if provider == "" {
		provider = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	SourceFetchDuration.WithLabelValues(provider, status).Observe(time.Since(start).Seconds())
	SourceFetchTotal.WithLabelValues(provider, status).Inc()
}

// ObserveCacheLookup records a response cache lookup. Callers that joined an
// in-flight load report "shared" rather than "miss".
func ObserveCacheLookup(provider, result string) {
	ResponseCacheTotal.WithLabelValues(provider, result).Inc()
}

func SetCircuitState(breaker string, level float64) {
	CircuitState.WithLabelValues(breaker).Set(level)
}

func ObserveReminderPublish(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ReminderPublishTotal.WithLabelValues(status).Inc()
}
