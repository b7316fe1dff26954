// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dataset implements the in-memory data-merge/index engine behind
// the stats API.
//
// # Description
//
// The engine loads four pre-generated JSON snapshots (provider attributes,
// provider stats, client attributes, client stats) exactly once per process,
// indexes them by entity id, and answers merge and relationship queries over
// the resident data. The dataset is immutable after a successful load.
//
// # Components
//
//   - Source: fetches snapshot documents from a local directory, an HTTP
//     base URL, or a GCS bucket.
//   - Loader: four-way concurrent fetch+parse with atomic failure.
//   - Index: the immutable id-keyed tables plus merge/resolve queries.
//   - Store: the public query facade with the lazy single-flight load gate.
//
// # Concurrency
//
// Loading is single-flight: concurrent first callers share one in-flight
// load. Once an Index is published every query is a lock-free read.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/RegistryStats/services/statsapi/datatypes"
	"github.com/AleutianAI/RegistryStats/services/statsapi/observability"
	"golang.org/x/sync/errgroup"
)

// Snapshot table names used in logs and metrics labels.
const (
	TableProviders     = "providers"
	TableProviderStats = "provider_stats"
	TableClients       = "clients"
	TableClientStats   = "client_stats"
)

// SnapshotFiles names the four snapshot objects below the configured
// location.
type SnapshotFiles struct {
	Providers     string
	ProviderStats string
	Clients       string
	ClientStats   string
}

// DefaultSnapshotFiles returns the conventional snapshot object names.
func DefaultSnapshotFiles() SnapshotFiles {
	return SnapshotFiles{
		Providers:     "providers.json",
		ProviderStats: "provider-stats.json",
		Clients:       "clients.json",
		ClientStats:   "client-stats.json",
	}
}

// Loader reads and parses the four snapshot documents into an Index.
type Loader struct {
	source Source
	files  SnapshotFiles
}

// NewLoader builds a Loader over the given source. Empty file names fall
// back to the defaults.
func NewLoader(source Source, files SnapshotFiles) *Loader {
	defaults := DefaultSnapshotFiles()
	if files.Providers == "" {
		files.Providers = defaults.Providers
	}
	if files.ProviderStats == "" {
		files.ProviderStats = defaults.ProviderStats
	}
	if files.Clients == "" {
		files.Clients = defaults.Clients
	}
	if files.ClientStats == "" {
		files.ClientStats = defaults.ClientStats
	}
	return &Loader{source: source, files: files}
}

// snapshotDocument is the envelope every snapshot file carries: a top-level
// "data" array of records.
type snapshotDocument[T any] struct {
	Data []T `json:"data"`
}

// Load fetches and parses the four snapshots concurrently and returns a
// fully populated Index stamped with the load time.
//
// Failure is atomic: if any fetch or parse fails, the partially built tables
// are discarded and the returned error reports the first failing snapshot.
// Load has no side effects on the Loader itself and yields identical tables
// for identical input documents, so redundant concurrent loads converge.
func (l *Loader) Load(ctx context.Context) (*Index, error) {
	ix := &Index{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ix.providers, err = loadTable(ctx, l.source, l.files.Providers, TableProviders,
			func(r datatypes.ProviderAttributes) string { return r.ID })
		return err
	})
	g.Go(func() (err error) {
		ix.providerStats, err = loadTable(ctx, l.source, l.files.ProviderStats, TableProviderStats,
			func(r datatypes.StatsRecord) string { return r.ID })
		return err
	})
	g.Go(func() (err error) {
		ix.clients, err = loadTable(ctx, l.source, l.files.Clients, TableClients,
			func(r datatypes.ClientAttributes) string { return r.ID })
		return err
	})
	g.Go(func() (err error) {
		ix.clientStats, err = loadTable(ctx, l.source, l.files.ClientStats, TableClientStats,
			func(r datatypes.StatsRecord) string { return r.ID })
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ix.loadedAt = nowUTC()
	slog.Info("snapshot dataset loaded",
		"providers", ix.providers.size(),
		"provider_stats", ix.providerStats.size(),
		"clients", ix.clients.size(),
		"client_stats", ix.clientStats.size(),
	)
	return ix, nil
}

// loadTable fetches one snapshot document and indexes its records by id.
// Records with an empty id are skipped silently; that is a data-quality
// non-event, not an error.
func loadTable[T any](ctx context.Context, source Source, name, tableName string,
	id func(T) string) (*table[T], error) {

	raw, err := source.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	var doc snapshotDocument[T]
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", name, err)
	}

	tbl := newTable[T]()
	skipped := 0
	for _, rec := range doc.Data {
		recordID := id(rec)
		if recordID == "" {
			skipped++
			continue
		}
		tbl.insert(recordID, rec)
	}
	if skipped > 0 {
		slog.Warn("skipped snapshot records without an id",
			"snapshot", name, "skipped", skipped)
		if m := observability.DefaultMetrics; m != nil {
			m.RecordSkipped(tableName, skipped)
		}
	}
	return tbl, nil
}
