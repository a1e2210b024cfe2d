// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

package mvg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchIncidents(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"type":"INCIDENT","title":"U-Bahn Störung","publication":1709293800000},
			{"type":"INFO","title":"Bauarbeiten"}
		]`))
	}))
	defer upstream.Close()

	f := NewFetcher(upstream.URL, time.Second)
	incidents, err := f.FetchIncidents(context.Background())

	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, "U-Bahn Störung", incidents[0]["title"])
	assert.Contains(t, incidents[0], "publication_readable")
}

func TestFetchIncidents_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantErr: ErrUpstreamUnavailable,
		},
		{
			name: "undecodable body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>not json</html>"))
			},
			wantErr: ErrUpstreamMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(tt.handler)
			defer upstream.Close()

			f := NewFetcher(upstream.URL, time.Second)
			_, err := f.FetchIncidents(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFetchIncidents_NetworkFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	upstream.Close() // nothing is listening anymore

	f := NewFetcher(upstream.URL, time.Second)
	_, err := f.FetchIncidents(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestNewFetcher_Defaults(t *testing.T) {
	f := NewFetcher("", 0)
	assert.Equal(t, DefaultURL, f.URL())
}
