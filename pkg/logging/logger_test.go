// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"  INFO ": slog.LevelInfo,
	}
	for name, want := range cases {
		level, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, level, name)
	}

	_, err := ParseLevel("verbose")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestNew(t *testing.T) {
	t.Run("emits JSON with the service attribute", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(Config{Level: "info", Service: "statsapi", Output: &buf})
		logger.Info("snapshots loaded", "tables", 4)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "statsapi", record["service"])
		assert.Equal(t, "snapshots loaded", record["msg"])
		assert.Equal(t, float64(4), record["tables"])
	})

	t.Run("level filters lower severities", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(Config{Level: "warn", Output: &buf})
		logger.Info("suppressed")
		assert.Empty(t, buf.Bytes())

		logger.Warn("emitted")
		assert.Contains(t, buf.String(), "emitted")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(Config{Level: "verbose", Output: &buf})
		assert.Contains(t, buf.String(), "unknown log level")

		logger.Info("still works")
		assert.Contains(t, buf.String(), "still works")
	})
}
