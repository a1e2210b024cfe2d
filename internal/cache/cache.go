// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

// Package cache holds the last fetched incident list in a single
// in-memory slot with explicit expiry semantics. There is no
// persistence; the slot resets with the process.
package cache

import (
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/rmoriz/mvg-stoerung-mcp/internal/mvg"
)

// DefaultDuration is how long a fetched dataset stays servable.
const DefaultDuration = 10 * time.Minute

// Status values reported by Cache.Status.
const (
	StatusEmpty   = "empty"
	StatusExpired = "expired"
	StatusValid   = "valid"
)

// Entry is the one cached dataset. ExpiresAt is always derived from
// FetchedAt plus the cache duration, never set independently.
type Entry struct {
	Data      []mvg.Incident
	FetchedAt time.Time
	ExpiresAt time.Time
}

// Status describes the cache state for diagnostics. Unlike Get, it
// exposes the item count even when the entry is expired.
type Status struct {
	Status               string  `json:"status"`
	CachedItems          int     `json:"cached_items"`
	CachedAt             string  `json:"cached_at,omitempty"`
	ExpiresAt            string  `json:"expires_at,omitempty"`
	ExpiresIn            string  `json:"expires_in,omitempty"`
	CacheDurationMinutes float64 `json:"cache_duration_minutes,omitempty"`
}

// Cache is a single-slot, whole-dataset cache. Staleness is computed
// lazily on read; there is no background timer. Safe for concurrent use.
type Cache struct {
	mu       sync.RWMutex
	duration time.Duration
	now      func() time.Time
	entry    *Entry
}

// New builds a cache with the given duration. Zero or negative falls
// back to DefaultDuration. The duration is fixed for the cache lifetime.
func New(duration time.Duration) *Cache {
	return NewWithClock(duration, time.Now)
}

// NewWithClock is New with an injectable clock, so expiry can be tested
// without sleeping.
func NewWithClock(duration time.Duration, now func() time.Time) *Cache {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Cache{
		duration: duration,
		now:      now,
	}
}

// Duration returns the fixed cache duration.
func (c *Cache) Duration() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.duration
}

// Get returns the cached dataset if one is stored and still valid. The
// second return value distinguishes "no servable data" from an
// empty-but-valid list.
func (c *Cache) Get() ([]mvg.Incident, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil || !c.now().Before(c.entry.ExpiresAt) {
		return nil, false
	}
	return c.entry.Data, true
}

// Set unconditionally replaces the slot, regardless of the prior
// entry's state.
func (c *Cache) Set(data []mvg.Incident) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entry = &Entry{
		Data:      data,
		FetchedAt: now,
		ExpiresAt: now.Add(c.duration),
	}
	log.Infof("cached %d incidents, expires at %s", len(data), c.entry.ExpiresAt.Format(time.RFC3339))
}

// Reset empties the slot. Only used by tests and the HTTP cache-flush
// endpoint.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}

// Status never fails and is servable in any state.
func (c *Cache) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil {
		return Status{
			Status:      StatusEmpty,
			CachedItems: 0,
		}
	}

	now := c.now()
	status := StatusValid
	if !now.Before(c.entry.ExpiresAt) {
		status = StatusExpired
	}

	return Status{
		Status:               status,
		CachedItems:          len(c.entry.Data),
		CachedAt:             c.entry.FetchedAt.Format(time.RFC3339),
		ExpiresAt:            c.entry.ExpiresAt.Format(time.RFC3339),
		ExpiresIn:            humanize.RelTime(c.entry.ExpiresAt, now, "ago", "from now"),
		CacheDurationMinutes: c.duration.Minutes(),
	}
}
