package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes
const (
	OutcomeFound         = "found"
	OutcomeNoData        = "no_data"
	OutcomeNotFound      = "not_found"
	OutcomeHTTPError     = "http_error"
	OutcomeNormalization = "normalization_error"
	OutcomeError         = "error"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	Lookups     *prometheus.CounterVec
	LookupTime  prometheus.Histogram
	CacheHits   prometheus.Counter
	RowsSynced  prometheus.Counter
	RowsSkipped *prometheus.CounterVec
	SyncRuns    prometheus.Counter
	SyncTime    prometheus.Histogram
	ErrorsCount *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics on reg. A nil reg registers nowhere.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_lookups_total",
			Help:      "The total number of flight lookups by outcome",
		}, []string{"source", "outcome"}),
		LookupTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flight_lookup_time_seconds",
			Help:      "Time taken to look up one flight",
			Buckets:   prometheus.DefBuckets,
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_cache_hits_total",
			Help:      "The total number of model lookups answered from the cache",
		}),
		RowsSynced: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_synced_total",
			Help:      "The total number of sheet rows written back",
		}),
		RowsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "The total number of sheet rows skipped",
		}, []string{"reason"}),
		SyncRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "The total number of sheet sync runs",
		}),
		SyncTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_time_seconds",
			Help:      "Time taken by one sheet sync run",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
