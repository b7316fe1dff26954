// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/RegistryStats/pkg/logging"
	"github.com/AleutianAI/RegistryStats/services/statsapi"
	"github.com/AleutianAI/RegistryStats/services/statsapi/config"
	"github.com/AleutianAI/RegistryStats/services/statsapi/dataset"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "statsapi",
	Short: "Read-only provider/client metadata API",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		slog.SetDefault(logging.New(logging.Config{
			Level:   cfg.Logging.Level,
			Service: "statsapi",
		}))
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := statsapi.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return svc.Run()
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the snapshots once and report table counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the statsapi version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("statsapi", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to the YAML configuration file (default: config.yaml if present)")
	rootCmd.AddCommand(serveCmd, checkCmd, versionCmd)
}

// runCheck performs one eager snapshot load and prints the per-table record
// counts. A failing load surfaces as a non-zero exit.
func runCheck(ctx context.Context) error {
	source, err := dataset.OpenSource(ctx, cfg.Snapshots.Location, cfg.Snapshots.GCSCredentialsFile)
	if err != nil {
		return fmt.Errorf("failed to open snapshot source: %w", err)
	}
	loader := dataset.NewLoader(source, dataset.SnapshotFiles{
		Providers:     cfg.Snapshots.ProvidersFile,
		ProviderStats: cfg.Snapshots.ProviderStatsFile,
		Clients:       cfg.Snapshots.ClientsFile,
		ClientStats:   cfg.Snapshots.ClientStatsFile,
	})

	ix, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("snapshot check failed: %w", err)
	}

	sizes := ix.TableSizes()
	slog.Info("snapshot check passed", "loaded_at", ix.Timestamp())
	fmt.Printf("snapshot location: %s\n", cfg.Snapshots.Location)
	for _, table := range []string{
		dataset.TableProviders, dataset.TableProviderStats,
		dataset.TableClients, dataset.TableClientStats,
	} {
		fmt.Printf("  %-15s %d records\n", table, sizes[table])
	}
	return nil
}
