// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rmoriz/mvg-stoerung-mcp/internal/config"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	// The arg immediately following the binary is the subcommand and also
	// the namespace key used when resolving config values. It could be
	// -h/--help, so ignore it if it appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}
	cfg, _ = config.Load(ns)

	app := &cli.Command{
		Name:  "mvg-stoerung-mcp",
		Usage: "MCP server for Munich public transport disruptions",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		ServeCommandBuilder(),
		IncidentsCommandBuilder(),
		SearchCommandBuilder(),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
