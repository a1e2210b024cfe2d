// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

package command

import (
	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/rmoriz/mvg-stoerung-mcp/internal/cache"
	"github.com/rmoriz/mvg-stoerung-mcp/internal/mvg"
	"github.com/rmoriz/mvg-stoerung-mcp/internal/query"
)

// newEngine wires a fetcher, cache and query engine from the resolved
// command flags. Every command gets its own engine instance; there is no
// process-wide singleton.
func newEngine(cmd *cli.Command) *query.Engine {
	url := cmd.String("url")
	timeout := cmd.Duration("timeout")
	duration := cmd.Duration("cache-duration")

	fetcher := mvg.NewFetcher(url, timeout)
	log.Debugf("engine: url=%s timeout=%s cache=%s", fetcher.URL(), timeout, duration)

	return query.NewEngine(cache.New(duration), fetcher)
}
