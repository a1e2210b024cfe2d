// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rmoriz/mvg-stoerung-mcp/internal/mcp"
)

// Minimal DXT generator:
// - Introspects the server's tool and resource definitions
// - Emits a markdown Developer Experience Toolkit document so MCP client
//   configuration and the available surface stay documented from code.

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "mvg_stoerung_mcp.dxt", "output file")
	flag.Parse()

	// Only the static tool/resource definitions are needed here, so the
	// server runs without an engine or streams.
	server := mcp.NewServer("mvg-stoerung", "", nil, nil, nil)

	doc, err := render(server)
	if err != nil {
		fatalf("rendering DXT: %v", err)
	}

	if err := os.WriteFile(outPath, doc, 0o644); err != nil {
		fatalf("writing %s: %v", outPath, err)
	}
	fmt.Printf("%s generated successfully.\n", outPath)
}

func render(server *mcp.Server) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`# DXT for MVG Störung MCP Server

This document provides the Developer Experience Toolkit (DXT) for the MVG Störung MCP Server.

## Overview

The MVG Störung MCP Server provides real-time, cached access to Munich Public Transport (MVG) disruption data.

## MCP Client Configuration

To connect your MCP client to this server, use the following configuration:

` + "```json" + `
{
  "mcpServers": {
    "mvg-stoerung": {
      "command": "mvg-stoerung-mcp",
      "args": ["serve"]
    }
  }
}
` + "```" + `

---

## Available Tools

`)

	for _, tool := range server.Tools() {
		schema, err := json.MarshalIndent(tool.InputSchema, "", "  ")
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "### `%s`\n\n%s\n\n**Input schema:**\n\n```json\n%s\n```\n\n", tool.Name, tool.Description, schema)
	}

	buf.WriteString("## Available Resources\n\n")
	for _, res := range server.Resources() {
		fmt.Fprintf(&buf, "### `%s`\n\n%s (`%s`)\n\n", res.URI, res.Description, res.MimeType)
	}

	return buf.Bytes(), nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
