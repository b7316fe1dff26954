// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates the stats API configuration.
//
// Configuration is read from a YAML file, then overridden by environment
// variables for container deployments:
//
//   - STATSAPI_PORT: HTTP server port
//   - STATSAPI_SNAPSHOT_LOCATION: snapshot location (path, http(s), or gs)
//   - STATSAPI_LOG_LEVEL: minimum log severity (debug, info, warn, error)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector endpoint
//   - GIN_MODE: gin framework mode
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file consulted when --config is not given.
const DefaultPath = "config.yaml"

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Port is the HTTP server port. Default: 12270
	Port int `yaml:"port" validate:"min=1,max=65535"`

	// Mode sets the gin framework mode.
	Mode string `yaml:"mode" validate:"omitempty,oneof=debug release test"`

	// CORSOrigins lists the allowed CORS origins. A single "*" entry (the
	// default) allows every origin; the API is read-only public metadata.
	CORSOrigins []string `yaml:"cors_origins"`
}

// SnapshotConfig locates the four snapshot documents.
type SnapshotConfig struct {
	// Location is a local directory, file://, http(s):// base URL, or
	// gs://bucket/prefix holding the snapshot files.
	Location string `yaml:"location" validate:"required"`

	// The four object names below Location.
	ProvidersFile     string `yaml:"providers_file"`
	ProviderStatsFile string `yaml:"provider_stats_file"`
	ClientsFile       string `yaml:"clients_file"`
	ClientStatsFile   string `yaml:"client_stats_file"`

	// GCSCredentialsFile is an optional service account key, used only for
	// gs:// locations. Empty means application default credentials.
	GCSCredentialsFile string `yaml:"gcs_credentials_file"`
}

// LoggingConfig configures the structured log stream.
type LoggingConfig struct {
	// Level is the minimum severity to emit. Default: info
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// TelemetryConfig configures tracing export.
type TelemetryConfig struct {
	// OTLPEndpoint is the OTLP gRPC collector endpoint, e.g.
	// "otel-collector:4317". Empty disables tracing.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// Config is the root configuration for the stats API service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Snapshots SnapshotConfig  `yaml:"snapshots"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:        12270,
			Mode:        "release",
			CORSOrigins: []string{"*"},
		},
		Snapshots: SnapshotConfig{
			Location: "./data/snapshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration file at path, applies environment overrides,
// and validates the result.
//
// A missing file is only an error when the path was explicitly given;
// the default path is allowed to be absent, in which case defaults plus
// environment overrides apply.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults plus environment only.
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STATSAPI_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("STATSAPI_SNAPSHOT_LOCATION"); v != "" {
		cfg.Snapshots.Location = v
	}
	if v := os.Getenv("STATSAPI_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.OTLPEndpoint = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.Server.Mode = v
	}
}

// Validate checks field constraints and the snapshot location scheme.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validateLocation(c.Snapshots.Location); err != nil {
		return err
	}
	return nil
}

func validateLocation(location string) error {
	if !strings.Contains(location, "://") {
		return nil // bare local path
	}
	for _, scheme := range []string{"file://", "http://", "https://", "gs://"} {
		if strings.HasPrefix(location, scheme) {
			return nil
		}
	}
	return fmt.Errorf("invalid configuration: unsupported snapshot location scheme in %q", location)
}
