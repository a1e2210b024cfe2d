// Copyright (c) 2025 Roland Moriz.
// SPDX-License-Identifier: MIT

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// setupTestConfig points MVG_CFG at a testdata file and resets the
// global Config so it reloads.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	assert.NoError(t, err, "failed to get absolute path for test config")
	t.Setenv("MVG_CFG", absPath)

	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

func TestLoad(t *testing.T) {
	setupTestConfig(t, "simple.yaml")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.NotEmpty(t, cfg.Source)

	api, ok := cfg.Data["api"].(map[string]interface{})
	assert.True(t, ok, "api should be a map")
	assert.Equal(t, "https://example.test/messages", api["url"])
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("MVG_CFG", "/nonexistent/path/mvg-stoerung.yaml")
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestGetString(t *testing.T) {
	setupTestConfig(t, "simple.yaml")
	_, err := Load()
	assert.NoError(t, err)

	tests := []struct {
		name       string
		key        string
		defaultVal []string
		want       string
		wantErr    bool
	}{
		{name: "dotted key", key: "api.url", want: "https://example.test/messages"},
		{name: "nested dotted key", key: "serve.http", want: ":9090"},
		{name: "missing key with default", key: "api.token", defaultVal: []string{"fallback"}, want: "fallback"},
		{name: "missing key without default", key: "api.token", wantErr: true},
		{name: "non-string value", key: "retries", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetString(tt.key, tt.defaultVal...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	setupTestConfig(t, "simple.yaml")
	_, err := Load()
	assert.NoError(t, err)

	got, err := GetInt("retries")
	assert.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = GetInt("missing", 7)
	assert.NoError(t, err)
	assert.Equal(t, 7, got)

	_, err = GetInt("api.url")
	assert.Error(t, err)
}

func TestNamespacedLookup(t *testing.T) {
	setupTestConfig(t, "simple.yaml")
	_, err := Load("serve")
	assert.NoError(t, err)

	// The serve namespace overrides the global cache.duration.
	got, err := GetString("cache.duration")
	assert.NoError(t, err)
	assert.Equal(t, "2m", got)

	// Keys absent from the namespace fall through to the global path.
	got, err = GetString("api.url")
	assert.NoError(t, err)
	assert.Equal(t, "https://example.test/messages", got)
}
