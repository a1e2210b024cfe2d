// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

// Package metrics registers the Prometheus instruments shared by the
// fetcher and the query engine. They are served by the optional HTTP
// listener; in pure-stdio mode they simply go unscraped.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mvg_upstream_fetch_total",
		Help: "Upstream fetch attempts by result (success, error, malformed).",
	}, []string{"result"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mvg_upstream_fetch_duration_seconds",
		Help:    "Duration of upstream fetch attempts.",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mvg_cache_hits_total",
		Help: "Incident reads served from the cache.",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mvg_cache_misses_total",
		Help: "Incident reads that had to go upstream.",
	})
)

// ObserveFetch records one upstream attempt.
func ObserveFetch(result string, d time.Duration) {
	fetchTotal.WithLabelValues(result).Inc()
	fetchDuration.Observe(d.Seconds())
}

// CacheHit counts a read served from the cache.
func CacheHit() { cacheHits.Inc() }

// CacheMiss counts a read that went upstream.
func CacheMiss() { cacheMisses.Inc() }
