package statecache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are labeled by cache name rather than split into one variable per
// cache instance, the way validator/client/metrics.go labels its vectors by
// validator rather than declaring one gauge per validator.
var (
	cacheHit = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_coordinator_hit_total",
		Help: "Number of get() calls satisfied from the data table.",
	}, []string{"cache"})
	cacheMiss = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_coordinator_miss_total",
		Help: "Number of get() calls that required the fetch function.",
	}, []string{"cache"})
	cacheEviction = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_coordinator_eviction_total",
		Help: "Number of entries pruned for exceeding max_entries.",
	}, []string{"cache"})
)
