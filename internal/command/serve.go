// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/rmoriz/mvg-stoerung-mcp/internal/httpapi"
	"github.com/rmoriz/mvg-stoerung-mcp/internal/mcp"
	"github.com/rmoriz/mvg-stoerung-mcp/internal/version"
)

const serverName = "mvg-stoerung"

// ServeCommandBuilder constructs the serve command: the MCP server on
// stdio, with an optional HTTP API listener next to it.
func ServeCommandBuilder() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the MCP server on stdio",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "http",
				Usage: "also serve the HTTP API on this address (e.g. :8080)",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("MVG_HTTP_ADDR"),
					yaml.YAML("serve.http", altsrc.StringSourcer(cfg.Source)),
				),
			},
		}, NewGlobalFlags("serve")...),
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := newEngine(cmd)

	if addr := cmd.String("http"); addr != "" {
		api := httpapi.New(addr, engine)
		go func() {
			if err := api.ListenAndServe(); err != nil {
				log.WithError(err).Error("http api failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := api.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("http api shutdown failed")
			}
		}()
	}

	log.Infof("%s %s serving on stdio", serverName, version.Version)
	server := mcp.NewServer(serverName, version.Version, engine, os.Stdin, os.Stdout)
	return server.Run(ctx)
}
