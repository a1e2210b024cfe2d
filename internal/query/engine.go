// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

// Package query serves cached-or-fresh incident data and answers
// substring searches over it. It owns the cache; the protocol layers on
// top of it are plain callers.
package query

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/apex/log"

	"github.com/rmoriz/mvg-stoerung-mcp/internal/cache"
	"github.com/rmoriz/mvg-stoerung-mcp/internal/metrics"
	"github.com/rmoriz/mvg-stoerung-mcp/internal/mvg"
)

// ErrMissingQuery is returned by Search when the required query string
// is absent. Callers translate it into a protocol-level error; it is
// never silently defaulted.
var ErrMissingQuery = errors.New("query is required")

// Fetcher is the upstream collaborator. *mvg.Fetcher satisfies it; tests
// substitute stubs.
type Fetcher interface {
	FetchIncidents(ctx context.Context) ([]mvg.Incident, error)
}

// SearchResult carries the filtered incidents plus the echoed inputs and
// the pre-filter total for observability.
type SearchResult struct {
	Incidents      []mvg.Incident `json:"incidents"`
	Count          int            `json:"count"`
	Query          string         `json:"query"`
	LineFilter     string         `json:"line_filter,omitempty"`
	TotalIncidents int            `json:"total_incidents"`
}

// Engine composes the cache and the fetcher into the three operations
// the protocol layers expose.
type Engine struct {
	cache   *cache.Cache
	fetcher Fetcher

	// refresh serializes upstream fetches so a cache miss triggers at
	// most one in-flight call per expiry window.
	refresh sync.Mutex
}

// NewEngine wires an engine around an explicitly constructed cache and
// fetcher. No hidden shared state; independent instances are fine.
func NewEngine(c *cache.Cache, f Fetcher) *Engine {
	return &Engine{
		cache:   c,
		fetcher: f,
	}
}

// GetIncidents returns the current incident set, consulting the cache
// unless forceRefresh is set. A failed fetch propagates and leaves the
// cache unchanged.
func (e *Engine) GetIncidents(ctx context.Context, forceRefresh bool) ([]mvg.Incident, error) {
	if !forceRefresh {
		if data, ok := e.cache.Get(); ok {
			metrics.CacheHit()
			log.Debugf("returning %d cached incidents", len(data))
			return data, nil
		}
		metrics.CacheMiss()
	}

	e.refresh.Lock()
	defer e.refresh.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if !forceRefresh {
		if data, ok := e.cache.Get(); ok {
			return data, nil
		}
	}

	log.Info("fetching fresh data from MVG API")
	incidents, err := e.fetcher.FetchIncidents(ctx)
	if err != nil {
		return nil, err
	}

	e.cache.Set(incidents)
	return incidents, nil
}

// CacheStatus reports the cache state. Never fails.
func (e *Engine) CacheStatus() cache.Status {
	return e.cache.Status()
}

// Search filters the current cacheable incident set by a required
// case-insensitive substring query and an optional line-label filter.
// It respects (and may populate) the cache but never forces a refresh.
func (e *Engine) Search(ctx context.Context, queryStr, lineFilter string) (SearchResult, error) {
	if queryStr == "" {
		return SearchResult{}, ErrMissingQuery
	}

	incidents, err := e.GetIncidents(ctx, false)
	if err != nil {
		return SearchResult{}, err
	}

	q := strings.ToLower(queryStr)
	lf := strings.ToUpper(lineFilter)

	filtered := make([]mvg.Incident, 0, len(incidents))
	for _, incident := range incidents {
		if !matchesQuery(incident, q) {
			continue
		}
		if lf != "" && !matchesLine(incident, lf) {
			continue
		}
		filtered = append(filtered, incident)
	}

	return SearchResult{
		Incidents:      filtered,
		Count:          len(filtered),
		Query:          queryStr,
		LineFilter:     lineFilter,
		TotalIncidents: len(incidents),
	}, nil
}

// matchesQuery checks the lowercased query against title, description
// and line labels.
func matchesQuery(incident mvg.Incident, q string) bool {
	if strings.Contains(strings.ToLower(stringField(incident, "title")), q) {
		return true
	}
	if strings.Contains(strings.ToLower(stringField(incident, "description")), q) {
		return true
	}
	for _, label := range lineLabels(incident) {
		if strings.Contains(strings.ToLower(label), q) {
			return true
		}
	}
	return false
}

// matchesLine checks the uppercased line filter against line labels. An
// incident without lines never matches.
func matchesLine(incident mvg.Incident, lf string) bool {
	for _, label := range lineLabels(incident) {
		if strings.Contains(strings.ToUpper(label), lf) {
			return true
		}
	}
	return false
}

// stringField returns the string value of key, or "" when missing or of
// a different type.
func stringField(incident mvg.Incident, key string) string {
	if s, ok := incident[key].(string); ok {
		return s
	}
	return ""
}

// lineLabels collects label strings from an incident's lines sequence,
// probing defensively because the upstream schema is not guaranteed.
func lineLabels(incident mvg.Incident) []string {
	lines, ok := incident["lines"].([]interface{})
	if !ok {
		return nil
	}

	//nolint:prealloc // Don't prealloc; malformed entries are skipped.
	var labels []string
	for _, line := range lines {
		m, ok := line.(map[string]interface{})
		if !ok {
			continue
		}
		if label, ok := m["label"].(string); ok {
			labels = append(labels, label)
		}
	}
	return labels
}
