// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

// mvg-stoerung-mcp exposes Munich public-transport (MVG) disruption data
// over the Model Context Protocol, shielding the public MVG endpoint
// behind a short-lived in-memory cache. It wires the CLI, delegates to
// internal packages, and serves as the entry point.
package main
