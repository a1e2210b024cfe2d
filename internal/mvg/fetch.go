// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

package mvg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/rmoriz/mvg-stoerung-mcp/internal/metrics"
)

// DefaultURL is the public MVG disruption-messages endpoint.
const DefaultURL = "https://www.mvg.de/api/bgw-pt/v3/messages"

// DefaultTimeout bounds a single upstream call. A hung upstream request
// must not hang the whole process.
const DefaultTimeout = 30 * time.Second

var (
	// ErrUpstreamUnavailable means the endpoint could not be reached or
	// answered with a non-2xx status.
	ErrUpstreamUnavailable = errors.New("mvg api unavailable")
	// ErrUpstreamMalformed means the response body was not decodable as
	// JSON.
	ErrUpstreamMalformed = errors.New("mvg api response malformed")
)

// Fetcher retrieves and processes MVG disruption data. The zero value is
// not usable; construct with NewFetcher.
type Fetcher struct {
	url    string
	client *http.Client
}

// NewFetcher builds a Fetcher against url with the given per-request
// timeout. Empty/zero arguments fall back to the defaults.
func NewFetcher(url string, timeout time.Duration) *Fetcher {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// URL returns the upstream endpoint this fetcher talks to.
func (f *Fetcher) URL() string {
	return f.url
}

// FetchRaw performs one GET against the endpoint and returns the parsed
// body. There are no retries; policy belongs to the caller.
func (f *Fetcher) FetchRaw(ctx context.Context) (gjson.Result, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		metrics.ObserveFetch("error", time.Since(start))
		return gjson.Result{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		metrics.ObserveFetch("error", time.Since(start))
		return gjson.Result{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveFetch("error", time.Since(start))
		return gjson.Result{}, fmt.Errorf("%w: unexpected status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	body := doc.Bytes()
	if !gjson.ValidBytes(body) {
		metrics.ObserveFetch("malformed", time.Since(start))
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON", ErrUpstreamMalformed)
	}

	metrics.ObserveFetch("success", time.Since(start))
	return gjson.ParseBytes(body), nil
}

// FetchIncidents fetches, normalizes and enriches the current incident
// set, preserving upstream order.
func (f *Fetcher) FetchIncidents(ctx context.Context) ([]Incident, error) {
	raw, err := f.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}

	incidents := Normalize(raw)
	enriched := make([]Incident, 0, len(incidents))
	for _, incident := range incidents {
		enriched = append(enriched, Enrich(incident))
	}

	log.Debugf("fetched %d incidents from MVG API", len(enriched))
	return enriched, nil
}
