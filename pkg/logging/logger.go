// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logging provides structured logging for service components.
//
// The package is a thin layer over Go's standard slog: it parses the
// configured level, builds a JSON handler, and stamps every record with the
// service name so log collectors can separate components sharing one stream.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{Level: "info", Service: "statsapi"})
//	slog.SetDefault(logger)
//	slog.Info("snapshots loaded", "tables", 4)
//
// # Log Levels
//
// Four levels are supported, matching slog conventions:
//
//   - debug: development troubleshooting, verbose output
//   - info: normal operations (loads, request summaries)
//   - warn: recoverable issues (skipped records, degraded mode)
//   - error: operation failures where the process continues
//
// # Thread Safety
//
// The returned *slog.Logger is safe for concurrent use.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum severity to emit: debug, info, warn, or error.
	// Empty means info.
	Level string

	// Service is stamped on every record as the "service" attribute.
	Service string

	// Output receives the JSON log stream. Nil means os.Stdout, which
	// container log collectors pick up as-is.
	Output io.Writer
}

// ParseLevel maps a configured level name onto slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (expected debug, info, warn, or error)", name)
	}
}

// New builds a JSON logger from cfg. An unknown level falls back to info
// rather than failing; logging misconfiguration should never stop a service
// from starting.
func New(cfg Config) *slog.Logger {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	if err != nil {
		logger.Warn("unknown log level, using info", "configured", cfg.Level)
	}
	return logger
}

// Default returns an info-level JSON logger on stdout with no service tag.
func Default() *slog.Logger {
	return New(Config{})
}
