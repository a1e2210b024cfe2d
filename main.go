// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rmoriz/mvg-stoerung-mcp/internal/command"
	mylog "github.com/rmoriz/mvg-stoerung-mcp/internal/log"
	"github.com/rmoriz/mvg-stoerung-mcp/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	// An MCP client launches the binary without arguments and expects the
	// stdio server, so default to serve.
	if len(args) < 2 {
		args = append(args, "serve")
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}
