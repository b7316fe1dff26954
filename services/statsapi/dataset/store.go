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
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/AleutianAI/RegistryStats/services/statsapi/datatypes"
	"github.com/AleutianAI/RegistryStats/services/statsapi/observability"
	"golang.org/x/sync/singleflight"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// =============================================================================
// Store
// =============================================================================

// Store is the public query facade over the snapshot dataset.
//
// # Description
//
// Every operation first ensures the dataset is resident, triggering a lazy
// load on the first access. Concurrent first callers share a single
// in-flight load; a failed load is reported to all of them and retried on
// the next access, never in the background.
//
// # Thread Safety
//
// Safe for concurrent use. The loaded Index is published through an atomic
// pointer, written exactly once per process lifetime; reads after
// publication take no locks.
type Store struct {
	loader *Loader
	group  singleflight.Group
	idx    atomic.Pointer[Index]
}

// NewStore builds a Store over the given loader. The dataset is not loaded
// until the first query arrives.
func NewStore(loader *Loader) *Store {
	return &Store{loader: loader}
}

// Ready reports whether a dataset has been loaded. It never triggers a load.
func (s *Store) Ready() bool {
	return s.idx.Load() != nil
}

// ensure returns the resident Index, performing the single-flight lazy load
// when none is published yet.
func (s *Store) ensure(ctx context.Context) (*Index, error) {
	if ix := s.idx.Load(); ix != nil {
		return ix, nil
	}
	v, err, _ := s.group.Do("load", func() (any, error) {
		// A racing caller may have completed the load while this one was
		// queued on the group.
		if ix := s.idx.Load(); ix != nil {
			return ix, nil
		}
		start := time.Now()
		ix, err := s.loader.Load(ctx)
		if err != nil {
			slog.Error("snapshot dataset load failed", "error", err)
			if m := observability.DefaultMetrics; m != nil {
				m.RecordLoad(false, time.Since(start))
			}
			return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
		}
		if m := observability.DefaultMetrics; m != nil {
			m.RecordLoad(true, time.Since(start))
			m.RecordTableSize(TableProviders, ix.providers.size())
			m.RecordTableSize(TableProviderStats, ix.providerStats.size())
			m.RecordTableSize(TableClients, ix.clients.size())
			m.RecordTableSize(TableClientStats, ix.clientStats.size())
		}
		s.idx.Store(ix)
		return ix, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}

func (s *Store) meta(ix *Index, total int) datatypes.ListMeta {
	return datatypes.ListMeta{Total: total, Timestamp: ix.Timestamp()}
}

// =============================================================================
// Provider Queries
// =============================================================================

// ListProviders returns every provider attributes record in snapshot order,
// with listing metadata. No stats are attached.
func (s *Store) ListProviders(ctx context.Context) ([]datatypes.ProviderAttributes, datatypes.ListMeta, error) {
	ix, err := s.ensure(ctx)
	if err != nil {
		return nil, datatypes.ListMeta{}, err
	}
	records := ix.providers.list()
	return records, s.meta(ix, len(records)), nil
}

// GetProvider returns the merged view of one provider.
func (s *Store) GetProvider(ctx context.Context, id string) (datatypes.Provider, error) {
	ix, err := s.ensure(ctx)
	if err != nil {
		return datatypes.Provider{}, err
	}
	merged, ok := ix.Provider(id)
	if !ok {
		return datatypes.Provider{}, &NotFoundError{Kind: KindProvider, ID: id}
	}
	return merged, nil
}

// GetProviderAttributes returns the raw attributes record of one provider.
func (s *Store) GetProviderAttributes(ctx context.Context, id string) (datatypes.ProviderAttributes, error) {
	ix, err := s.ensure(ctx)
	if err != nil {
		return datatypes.ProviderAttributes{}, err
	}
	attrs, ok := ix.providers.get(id)
	if !ok {
		return datatypes.ProviderAttributes{}, &NotFoundError{Kind: KindProvider, ID: id}
	}
	return attrs, nil
}

// GetProviderStats returns the raw stats record of one provider. Stats
// existence is independent of the attributes table, so the miss message
// notes that the provider itself may still exist.
func (s *Store) GetProviderStats(ctx context.Context, id string) (datatypes.StatsRecord, error) {
	ix, err := s.ensure(ctx)
	if err != nil {
		return datatypes.StatsRecord{}, err
	}
	stats, ok := ix.providerStats.get(id)
	if !ok {
		return datatypes.StatsRecord{}, &NotFoundError{
			Kind: KindProvider, ID: id,
			Hint: "no stats recorded; the provider may exist without stats",
		}
	}
	return stats, nil
}

// GetProviderClients resolves the provider's declared clients into their
// attributes records, in declared order.
//
// A missing provider and a provider whose relationship list resolves to
// nothing are both reported as not-found; an empty result is treated as
// absence, not as an empty list.
func (s *Store) GetProviderClients(ctx context.Context, id string) ([]datatypes.ClientAttributes, error) {
	ix, err := s.ensure(ctx)
	if err != nil {
		return nil, err
	}
	clients, ok := ix.ProviderClients(id)
	if !ok {
		return nil, &NotFoundError{Kind: KindProvider, ID: id}
	}
	if len(clients) == 0 {
		return nil, &NotFoundError{
			Kind: KindProvider, ID: id,
			Hint: "no clients are registered for this provider",
		}
	}
	return clients, nil
}

// =============================================================================
// Client Queries
// =============================================================================

// ListClients returns every client attributes record in snapshot order, with
// listing metadata. No stats are attached.
func (s *Store) ListClients(ctx context.Context) ([]datatypes.ClientAttributes, datatypes.ListMeta, error) {
	ix, err := s.ensure(ctx)
	if err != nil {
		return nil, datatypes.ListMeta{}, err
	}
	records := ix.clients.list()
	return records, s.meta(ix, len(records)), nil
}

// GetClient returns the merged view of one client.
func (s *Store) GetClient(ctx context.Context, id string) (datatypes.Client, error) {
	ix, err := s.ensure(ctx)
	if err != nil {
		return datatypes.Client{}, err
	}
	merged, ok := ix.Client(id)
	if !ok {
		return datatypes.Client{}, &NotFoundError{Kind: KindClient, ID: id}
	}
	return merged, nil
}

// GetClientAttributes returns the raw attributes record of one client.
func (s *Store) GetClientAttributes(ctx context.Context, id string) (datatypes.ClientAttributes, error) {
	ix, err := s.ensure(ctx)
	if err != nil {
		return datatypes.ClientAttributes{}, err
	}
	attrs, ok := ix.clients.get(id)
	if !ok {
		return datatypes.ClientAttributes{}, &NotFoundError{Kind: KindClient, ID: id}
	}
	return attrs, nil
}

// GetClientStats returns the raw stats record of one client.
func (s *Store) GetClientStats(ctx context.Context, id string) (datatypes.StatsRecord, error) {
	ix, err := s.ensure(ctx)
	if err != nil {
		return datatypes.StatsRecord{}, err
	}
	stats, ok := ix.clientStats.get(id)
	if !ok {
		return datatypes.StatsRecord{}, &NotFoundError{
			Kind: KindClient, ID: id,
			Hint: "no stats recorded; the client may exist without stats",
		}
	}
	return stats, nil
}
