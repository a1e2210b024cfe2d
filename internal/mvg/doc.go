// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

// Package mvg talks to the public MVG disruption-messages endpoint and
// turns its loosely-structured payload into a flat list of incident
// records with human-readable timestamps.
package mvg
