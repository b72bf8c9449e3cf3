package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// IndexSyncTotal counts index mutations issued after relational commits,
// labeled by operation (upsert, update, delete, charger_add,
// charger_replace, charger_remove, resync) and result (success, failure).
// The failure series is the one to alert on: every increment is a widening
// window of relational/index divergence until the next resync.
var IndexSyncTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_index_sync_total",
		Help: "Search index sync operations by operation and result",
	},
	[]string{"operation", "result"},
)

// SearchDuration measures search query latency by query shape
// (facet, radius, polygon).
var SearchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "catalog_search_duration_seconds",
		Help:    "Duration of search index queries in seconds",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
	},
	[]string{"shape"},
)

// FeedItemsIngested counts charge points processed from the upstream feed.
var FeedItemsIngested = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "catalog_feed_items_ingested_total",
		Help: "Charge point items processed from the upstream feed",
	},
)
