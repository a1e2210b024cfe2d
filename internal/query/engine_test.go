// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmoriz/mvg-stoerung-mcp/internal/cache"
	"github.com/rmoriz/mvg-stoerung-mcp/internal/mvg"
)

// stubFetcher counts upstream calls and serves canned data.
type stubFetcher struct {
	calls     int
	incidents []mvg.Incident
	err       error
}

func (f *stubFetcher) FetchIncidents(context.Context) ([]mvg.Incident, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.incidents, nil
}

func testIncidents() []mvg.Incident {
	return []mvg.Incident{
		{
			"type":        "INCIDENT",
			"title":       "U-Bahn Störung",
			"description": "Signalstörung auf der U3",
			"lines":       []interface{}{map[string]interface{}{"label": "U3"}},
		},
		{
			"type":        "INCIDENT",
			"title":       "Verspätungen",
			"description": "Stellwerksstörung",
			"lines":       []interface{}{map[string]interface{}{"label": "U6"}},
		},
		{
			"type":        "INCIDENT",
			"title":       "Aufzug defekt",
			"description": "Aufzug am Hauptbahnhof außer Betrieb",
		},
	}
}

func newTestEngine(t *testing.T, f Fetcher) *Engine {
	t.Helper()
	return NewEngine(cache.New(10*time.Minute), f)
}

func TestGetIncidents_PopulatesCacheOnMiss(t *testing.T) {
	fetcher := &stubFetcher{incidents: testIncidents()}
	engine := newTestEngine(t, fetcher)

	got, err := engine.GetIncidents(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, cache.StatusValid, engine.CacheStatus().Status)

	// Second call within the window is served from the cache.
	got, err = engine.GetIncidents(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 1, fetcher.calls, "no additional upstream call while valid")
}

func TestGetIncidents_ForceRefreshAlwaysFetches(t *testing.T) {
	fetcher := &stubFetcher{incidents: testIncidents()}
	engine := newTestEngine(t, fetcher)

	_, err := engine.GetIncidents(context.Background(), true)
	require.NoError(t, err)
	_, err = engine.GetIncidents(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.calls, "exactly one upstream call per force refresh")
}

func TestGetIncidents_FetchFailurePropagates(t *testing.T) {
	wantErr := errors.New("connection refused")
	fetcher := &stubFetcher{err: wantErr}
	engine := newTestEngine(t, fetcher)

	_, err := engine.GetIncidents(context.Background(), false)
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, cache.StatusEmpty, engine.CacheStatus().Status, "failed fetch leaves the cache unchanged")
}

func TestGetIncidents_FetchFailureKeepsStaleEntryInspectable(t *testing.T) {
	fetcher := &stubFetcher{incidents: testIncidents()}
	engine := newTestEngine(t, fetcher)

	_, err := engine.GetIncidents(context.Background(), false)
	require.NoError(t, err)

	// Later fetches fail; a forced refresh surfaces the error but the old
	// entry stays behind for diagnostics.
	fetcher.err = errors.New("boom")
	_, err = engine.GetIncidents(context.Background(), true)
	assert.Error(t, err)
	assert.Equal(t, 3, engine.CacheStatus().CachedItems)
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		line       string
		wantTitles []string
	}{
		{
			name:       "case-insensitive title match",
			query:      "u-bahn",
			wantTitles: []string{"U-Bahn Störung"},
		},
		{
			name:       "umlaut query uppercased",
			query:      "STÖRUNG",
			wantTitles: []string{"U-Bahn Störung", "Verspätungen"},
		},
		{
			name:       "description match",
			query:      "hauptbahnhof",
			wantTitles: []string{"Aufzug defekt"},
		},
		{
			name:       "line label match",
			query:      "u6",
			wantTitles: []string{"Verspätungen"},
		},
		{
			name:       "no match",
			query:      "S-Bahn",
			wantTitles: []string{},
		},
		{
			name:       "line filter narrows query matches",
			query:      "störung",
			line:       "U3",
			wantTitles: []string{"U-Bahn Störung"},
		},
		{
			name:       "line filter with no lines field never matches",
			query:      "aufzug",
			line:       "U3",
			wantTitles: []string{},
		},
		{
			name:       "lowercase line filter",
			query:      "störung",
			line:       "u6",
			wantTitles: []string{"Verspätungen"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &stubFetcher{incidents: testIncidents()}
			engine := newTestEngine(t, fetcher)

			result, err := engine.Search(context.Background(), tt.query, tt.line)
			require.NoError(t, err)

			assert.Equal(t, len(tt.wantTitles), result.Count)
			assert.Len(t, result.Incidents, len(tt.wantTitles))
			for i, want := range tt.wantTitles {
				assert.Equal(t, want, result.Incidents[i]["title"])
			}
			assert.Equal(t, tt.query, result.Query)
			assert.Equal(t, tt.line, result.LineFilter)
			assert.Equal(t, 3, result.TotalIncidents)
		})
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	engine := newTestEngine(t, &stubFetcher{})

	_, err := engine.Search(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrMissingQuery)
}

func TestSearch_UsesCacheWithoutForcing(t *testing.T) {
	fetcher := &stubFetcher{incidents: testIncidents()}
	engine := newTestEngine(t, fetcher)

	for range 3 {
		_, err := engine.Search(context.Background(), "störung", "")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, fetcher.calls, "search populates the cache once, then reuses it")
}

func TestSearch_MalformedLinesNeverThrow(t *testing.T) {
	fetcher := &stubFetcher{incidents: []mvg.Incident{
		{"title": "weird", "lines": "not a list"},
		{"title": "weirder", "lines": []interface{}{42, "U3", map[string]interface{}{"label": 7}}},
	}}
	engine := newTestEngine(t, fetcher)

	result, err := engine.Search(context.Background(), "weird", "U3")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Equal(t, 2, result.TotalIncidents)
}
