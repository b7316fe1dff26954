// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults when no file is present", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 12270, cfg.Server.Port)
		assert.Equal(t, "release", cfg.Server.Mode)
		assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
		assert.Equal(t, "./data/snapshots", cfg.Snapshots.Location)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9999
  cors_origins: ["https://ui.example.org"]
snapshots:
  location: gs://exports/current
  providers_file: members.json
logging:
  level: debug
telemetry:
  otlp_endpoint: collector:4317
`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 9999, cfg.Server.Port)
		assert.Equal(t, []string{"https://ui.example.org"}, cfg.Server.CORSOrigins)
		assert.Equal(t, "gs://exports/current", cfg.Snapshots.Location)
		assert.Equal(t, "members.json", cfg.Snapshots.ProvidersFile)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "collector:4317", cfg.Telemetry.OTLPEndpoint)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0o644))
		t.Setenv("STATSAPI_PORT", "8088")
		t.Setenv("STATSAPI_SNAPSHOT_LOCATION", "/srv/snapshots")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 8088, cfg.Server.Port)
		assert.Equal(t, "/srv/snapshots", cfg.Snapshots.Location)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("rejects out-of-range ports", func(t *testing.T) {
		cfg := Default()
		cfg.Server.Port = 70000
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown gin modes", func(t *testing.T) {
		cfg := Default()
		cfg.Server.Mode = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown log levels", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects unsupported snapshot schemes", func(t *testing.T) {
		cfg := Default()
		cfg.Snapshots.Location = "s3://bucket/exports"
		err := cfg.Validate()
		assert.ErrorContains(t, err, "unsupported snapshot location scheme")
	})

	t.Run("accepts every supported scheme", func(t *testing.T) {
		for _, location := range []string{
			"./data/snapshots",
			"file:///srv/snapshots",
			"http://snapshots.internal/exports",
			"https://snapshots.example.org",
			"gs://exports/current",
		} {
			cfg := Default()
			cfg.Snapshots.Location = location
			assert.NoError(t, cfg.Validate(), location)
		}
	})
}
