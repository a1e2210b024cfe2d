// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

// Package version holds the build version string, overridable at link time
// with -ldflags "-X ...version.Version=v1.2.3".
package version

var Version = "v1.0.0"
