// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command statsapi runs the read-only provider/client metadata API.
//
// # Usage
//
//	# Run the HTTP server
//	statsapi serve --config config.yaml
//
//	# Load the snapshots once and report table counts
//	statsapi check
//
// # Environment Variables
//
//   - STATSAPI_PORT: HTTP server port (default: 12270)
//   - STATSAPI_SNAPSHOT_LOCATION: snapshot directory, http(s) base URL, or
//     gs://bucket/prefix (default: ./data/snapshots)
//   - STATSAPI_LOG_LEVEL: minimum log severity (default: info)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (empty disables tracing)
package main

import (
	"log"
	"log/slog"

	"github.com/AleutianAI/RegistryStats/pkg/logging"
)

func main() {
	// Bootstrap logger until the configuration is loaded; the root command
	// swaps in the configured one.
	slog.SetDefault(logging.Default())

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
