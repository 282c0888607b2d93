package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CacheMetrics counts cache lookups and failures.
type CacheMetrics struct {
	Hits   prometheus.Counter
	Misses prometheus.Counter
	Errors prometheus.Counter
}

// JobMetrics counts background job outcomes per queue.
type JobMetrics struct {
	Processed *prometheus.CounterVec
	Failed    *prometheus.CounterVec
}

// NewCacheMetrics registers cache counters on the given registry.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Number of cache reads answered from the in-memory store.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Number of cache reads that fell through to the durable store.",
		}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Number of failed cache-store operations.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Hits, m.Misses, m.Errors)
	}
	return m
}

// NewJobMetrics registers job counters on the given registry.
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	m := &JobMetrics{
		Processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobs_processed_total",
			Help: "Number of background jobs completed successfully.",
		}, []string{"queue", "task"}),
		Failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobs_failed_total",
			Help: "Number of background job attempts that returned an error.",
		}, []string{"queue", "task"}),
	}
	if reg != nil {
		reg.MustRegister(m.Processed, m.Failed)
	}
	return m
}
