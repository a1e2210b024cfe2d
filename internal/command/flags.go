// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/rmoriz/mvg-stoerung-mcp/internal/cache"
	"github.com/rmoriz/mvg-stoerung-mcp/internal/config"
	"github.com/rmoriz/mvg-stoerung-mcp/internal/mvg"
)

func init() {
	cfg, _ = config.Load()
}

var cfg config.Type

// NewGlobalFlags builds the flags shared by every command that talks to
// the MVG API. Precedence is flag > env > config file > default.
func NewGlobalFlags(ns string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "url",
			Aliases: []string{"u"},
			Usage:   "MVG disruption-messages endpoint",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("MVG_API_URL"),
				yaml.YAML(ns+"."+"api.url", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("api.url", altsrc.StringSourcer(cfg.Source)),
			),
			Value: mvg.DefaultURL,
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "upstream request timeout",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("MVG_API_TIMEOUT"),
				yaml.YAML(ns+"."+"api.timeout", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("api.timeout", altsrc.StringSourcer(cfg.Source)),
			),
			Value: mvg.DefaultTimeout,
		},
		&cli.DurationFlag{
			Name:    "cache-duration",
			Aliases: []string{"d"},
			Usage:   "how long fetched incidents stay servable",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("MVG_CACHE_DURATION"),
				yaml.YAML(ns+"."+"cache.duration", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("cache.duration", altsrc.StringSourcer(cfg.Source)),
			),
			Value: cache.DefaultDuration,
		},
	}
}
