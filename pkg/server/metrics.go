package server

import (
	"time"

	"github.com/matst80/laser-finder/pkg/pipeline"
	"github.com/matst80/laser-finder/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noCompares = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "laserfinder_compare_total",
		Help: "The total number of compare pipeline runs by status",
	}, []string{"status"})
	compareDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "laserfinder_compare_duration_seconds",
		Help:    "Time spent filtering and sorting",
		Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
	})
	searchedCompares = promauto.NewCounter(prometheus.CounterOpts{
		Name: "laserfinder_compare_searched_total",
		Help: "The number of compare runs narrowed by a free text search",
	})
	loadedMachines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "laserfinder_machines",
		Help: "The number of machines in the current record set",
	})
	noRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "laserfinder_refresh_total",
		Help: "The total number of machine refreshes by result",
	}, []string{"result"})
	refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "laserfinder_refresh_duration_seconds",
		Help: "Time spent fetching and loading machines",
	})
)

// MetricsDiagnostics records pipeline runs in Prometheus.
type MetricsDiagnostics struct{}

func (MetricsDiagnostics) Observe(s pipeline.Stats) {
	noCompares.WithLabelValues(string(s.Status)).Inc()
	compareDuration.Observe(s.Duration.Seconds())
	if s.Searched {
		searchedCompares.Inc()
	}
}

// ObserveRefresh matches storage.Refresher.Observe.
func ObserveRefresh(outcome storage.RefreshOutcome, count int, took time.Duration) {
	noRefreshes.WithLabelValues(string(outcome)).Inc()
	refreshDuration.Observe(took.Seconds())
	if outcome == storage.RefreshOk {
		loadedMachines.Set(float64(count))
	}
}
