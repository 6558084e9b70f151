package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Bot commands handled, by command and outcome",
		},
		[]string{"command", "outcome"},
	)

	fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketdata_fetch_duration_seconds",
			Help:    "Market data fetch latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"kind"},
	)

	fetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketdata_fetch_failures_total",
			Help: "Market data fetches that returned an error",
		},
		[]string{"kind"},
	)

	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "marketdata_cache_hits_total",
		Help: "Price series served from cache",
	})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		commandsTotal,
		fetchDuration,
		fetchFailures,
		cacheHits,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func Registry() *prometheus.Registry { return registry }

func RecordCommand(command string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	commandsTotal.WithLabelValues(command, outcome).Inc()
}

func ObserveFetch(kind string, start time.Time, err error) {
	fetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		fetchFailures.WithLabelValues(kind).Inc()
	}
}

func RecordCacheHit() { cacheHits.Inc() }
