// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dataset

import (
	"time"

	"github.com/AleutianAI/RegistryStats/services/statsapi/datatypes"
)

// =============================================================================
// Table
// =============================================================================

// table is an id-keyed record collection that remembers snapshot declaration
// order. Duplicate ids keep the position of the first occurrence while the
// record content of the last occurrence wins.
//
// A table is write-only during a load and read-only forever after; it carries
// no locking of its own.
type table[T any] struct {
	byID  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{byID: make(map[string]T)}
}

func (t *table[T]) insert(id string, rec T) {
	if _, ok := t.byID[id]; !ok {
		t.order = append(t.order, id)
	}
	t.byID[id] = rec
}

func (t *table[T]) get(id string) (T, bool) {
	rec, ok := t.byID[id]
	return rec, ok
}

func (t *table[T]) list() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}

func (t *table[T]) size() int {
	return len(t.order)
}

// =============================================================================
// Index
// =============================================================================

// Index holds the four snapshot tables for one successfully completed load.
//
// # Thread Safety
//
// An Index is immutable once returned by the loader and may be read from any
// number of goroutines without synchronization. Merge queries build new
// composite values; they never touch the stored records.
type Index struct {
	providers     *table[datatypes.ProviderAttributes]
	providerStats *table[datatypes.StatsRecord]
	clients       *table[datatypes.ClientAttributes]
	clientStats   *table[datatypes.StatsRecord]

	loadedAt time.Time
}

// TableSizes returns the record count per snapshot table, keyed by the
// Table* name constants.
func (ix *Index) TableSizes() map[string]int {
	return map[string]int{
		TableProviders:     ix.providers.size(),
		TableProviderStats: ix.providerStats.size(),
		TableClients:       ix.clients.size(),
		TableClientStats:   ix.clientStats.size(),
	}
}

// LoadedAt returns the UTC time at which this index finished loading.
func (ix *Index) LoadedAt() time.Time {
	return ix.loadedAt
}

// Timestamp returns LoadedAt formatted as RFC 3339, the form exposed in
// listing metadata.
func (ix *Index) Timestamp() string {
	return ix.loadedAt.Format(time.RFC3339)
}

// Provider merges the provider's attributes record with its stats payload.
// The attributes record is the sole existence check: a stats record without
// one is unreachable here.
func (ix *Index) Provider(id string) (datatypes.Provider, bool) {
	attrs, ok := ix.providers.get(id)
	if !ok {
		return datatypes.Provider{}, false
	}
	merged := datatypes.Provider{ProviderAttributes: attrs}
	if stats, ok := ix.providerStats.get(id); ok {
		merged.Stats = stats.Stats
	}
	return merged, true
}

// Client merges the client's attributes record with its stats payload,
// mirroring Provider.
func (ix *Index) Client(id string) (datatypes.Client, bool) {
	attrs, ok := ix.clients.get(id)
	if !ok {
		return datatypes.Client{}, false
	}
	merged := datatypes.Client{ClientAttributes: attrs}
	if stats, ok := ix.clientStats.get(id); ok {
		merged.Stats = stats.Stats
	}
	return merged, true
}

// ProviderClients resolves the provider's declared client ids, in declared
// order, into client attributes records. Ids without a matching record are
// dropped silently. The second return reports whether the provider itself
// exists; a missing provider and a provider with no resolvable clients both
// yield an empty slice.
//
// Client stats are never attached here. Callers needing stats issue a merge
// query per client id.
func (ix *Index) ProviderClients(id string) ([]datatypes.ClientAttributes, bool) {
	attrs, ok := ix.providers.get(id)
	if !ok {
		return nil, false
	}
	ids := attrs.ClientIDs()
	resolved := make([]datatypes.ClientAttributes, 0, len(ids))
	for _, clientID := range ids {
		if client, ok := ix.clients.get(clientID); ok {
			resolved = append(resolved, client)
		}
	}
	return resolved, true
}
