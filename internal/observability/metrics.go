package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alcove_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "alcove_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FeedAssemblyLatency records the time spent assembling the feed,
	// including the sort.
	FeedAssemblyLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "alcove_feed_assembly_latency_seconds",
		Help:    "Feed assembly latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// FeedPostsAssembled records how many posts each feed build carried.
	FeedPostsAssembled = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "alcove_feed_posts_assembled",
		Help:    "Number of posts per assembled feed",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
	})

	// EngagementEventsTotal counts ledger writes by target kind, action and liker type.
	EngagementEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alcove_engagement_events_total",
		Help: "Total engagement ledger events",
	}, []string{"target_kind", "action", "anonymous"})

	// CacheOperationsTotal counts cache lookups by key family and outcome.
	CacheOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alcove_cache_operations_total",
		Help: "Total cache operations by key family and outcome",
	}, []string{"family", "outcome"})
)

// RecordEngagementEvent increments the engagement events counter.
func RecordEngagementEvent(targetKind, action string, anonymous bool) {
	EngagementEventsTotal.WithLabelValues(targetKind, action, strconv.FormatBool(anonymous)).Inc()
}

// ObserveFeedAssembly records latency and size of one feed build.
func ObserveFeedAssembly(start time.Time, posts int) {
	FeedAssemblyLatency.Observe(time.Since(start).Seconds())
	FeedPostsAssembled.Observe(float64(posts))
}

// RecordCacheOperation increments the cache operations counter.
func RecordCacheOperation(family, outcome string) {
	CacheOperationsTotal.WithLabelValues(family, outcome).Inc()
}

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}
