// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rmoriz/mvg-stoerung-mcp/internal/output"
)

// IncidentsCommandBuilder constructs the incidents command: a one-shot
// fetch that prints the current incident set as JSON.
func IncidentsCommandBuilder() *cli.Command {
	return &cli.Command{
		Name:  "incidents",
		Usage: "fetch and print current MVG incidents",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:        "refresh",
				Aliases:     []string{"r"},
				Usage:       "bypass the cache and fetch fresh data",
				HideDefault: true,
			},
		}, NewGlobalFlags("incidents")...),
		Action: incidentsAction,
	}
}

func incidentsAction(ctx context.Context, cmd *cli.Command) error {
	engine := newEngine(cmd)

	incidents, err := engine.GetIncidents(ctx, cmd.Bool("refresh"))
	if err != nil {
		return err
	}

	return output.Spit(os.Stdout, map[string]interface{}{
		"incidents": incidents,
		"count":     len(incidents),
	})
}
