// Package metrics declares the Prometheus metrics of the ledger synchronization and of the
// document server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	OK    = "ok"
	Error = "error"
)

// Sync reconciler.

var SyncLoads = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "budget",
	Subsystem: "sync",
	Name:      "loads_total",
	Help:      "Total ledger loads by source of the resulting state (local, remote, merged).",
}, []string{"source"})

var SyncMergedEntries = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "budget",
	Subsystem: "sync",
	Name:      "merged_entries",
	Help:      "Number of entries in the ledger after a load merge.",
	Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
})

var CacheWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "budget",
	Subsystem: "sync",
	Name:      "cache_writes_total",
	Help:      "Total local cache writes by result.",
}, []string{"result"})

var RemoteFetches = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "budget",
	Subsystem: "sync",
	Name:      "remote_fetches_total",
	Help:      "Total remote document fetches by result (ok, not_found, error).",
}, []string{"result"})

var RemotePushes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "budget",
	Subsystem: "sync",
	Name:      "remote_pushes_total",
	Help:      "Total remote merge-writes by result (ok, error, superseded).",
}, []string{"result"})

var PendingPushes = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "budget",
	Subsystem: "sync",
	Name:      "pending_pushes",
	Help:      "Remote merge-writes in flight.",
})

// Document server.

var ServerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "budget",
	Subsystem: "server",
	Name:      "requests_total",
	Help:      "Total document API requests by operation and status code.",
}, []string{"op", "code"})

var ServerDocuments = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "budget",
	Subsystem: "server",
	Name:      "documents",
	Help:      "Number of documents known to the in-memory store.",
})
