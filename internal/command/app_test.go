// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitApp(t *testing.T) {
	app, err := InitApp(context.Background(), []string{"mvg-stoerung-mcp", "serve"})
	require.NoError(t, err)

	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"serve", "incidents", "search"}, names)
}

func TestGlobalFlags(t *testing.T) {
	flags := NewGlobalFlags("serve")
	require.Len(t, flags, 3)

	var names []string
	for _, f := range flags {
		names = append(names, f.Names()[0])
	}
	assert.Contains(t, names, "url")
	assert.Contains(t, names, "timeout")
	assert.Contains(t, names, "cache-duration")
}
