package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bandcamp_comb_cache_hits_total",
		Help: "Requests served from the feed cache",
	}, []string{"variant"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bandcamp_comb_cache_misses_total",
		Help: "Requests that found no fresh cached feed",
	}, []string{"variant"})

	UpstreamFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bandcamp_comb_upstream_fetches_total",
		Help: "Fetches of the Bandcamp feed page by outcome",
	}, []string{"outcome"})

	UpstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bandcamp_comb_upstream_fetch_duration_seconds",
		Help:    "Duration of Bandcamp feed page fetches",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
	})

	SkippedStories = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bandcamp_comb_skipped_stories_total",
		Help: "Stories left out because a required element was missing",
	})

	DateFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bandcamp_comb_date_fallbacks_total",
		Help: "Story dates that could not be parsed and were replaced with the current time",
	})

	FeedItems = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bandcamp_comb_feed_items",
		Help: "Entries in the last generated document",
	}, []string{"variant"})
)
