// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rmoriz/mvg-stoerung-mcp/internal/output"
)

// SearchCommandBuilder constructs the search command.
func SearchCommandBuilder() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "search incidents by title, description or line label",
		UsageText: "mvg-stoerung-mcp search [options] <query>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "line",
				Aliases: []string{"l"},
				Usage:   "filter by line label (e.g. 'U6', 'S1', 'Bus 100')",
			},
		}, NewGlobalFlags("search")...),
		Action: searchAction,
	}
}

func searchAction(ctx context.Context, cmd *cli.Command) error {
	engine := newEngine(cmd)

	result, err := engine.Search(ctx, cmd.Args().First(), cmd.String("line"))
	if err != nil {
		return err
	}

	return output.Spit(os.Stdout, result)
}
