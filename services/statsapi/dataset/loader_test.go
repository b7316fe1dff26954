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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSnapshots writes the four snapshot files into dir. Empty strings fall
// back to a valid empty document so tests only spell out what they exercise.
func writeSnapshots(t *testing.T, dir, providers, providerStats, clients, clientStats string) {
	t.Helper()
	const empty = `{"data": []}`
	files := map[string]string{
		"providers.json":      providers,
		"provider-stats.json": providerStats,
		"clients.json":        clients,
		"client-stats.json":   clientStats,
	}
	for name, content := range files {
		if content == "" {
			content = empty
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func newTestLoader(t *testing.T, dir string) *Loader {
	t.Helper()
	source, err := OpenSource(context.Background(), dir, "")
	require.NoError(t, err)
	return NewLoader(source, SnapshotFiles{})
}

func TestLoaderLoad(t *testing.T) {
	t.Run("indexes every record with an id", func(t *testing.T) {
		dir := t.TempDir()
		writeSnapshots(t, dir,
			`{"data": [{"id": "P1", "name": "Alpha"}, {"id": "P2", "name": "Beta"}]}`,
			`{"data": [{"id": "P1", "stats": {"works": 5}}]}`,
			`{"data": [{"id": "C1"}, {"id": "C2"}, {"id": "C3"}]}`,
			"")

		ix, err := newTestLoader(t, dir).Load(context.Background())
		require.NoError(t, err)

		sizes := ix.TableSizes()
		assert.Equal(t, 2, sizes[TableProviders])
		assert.Equal(t, 1, sizes[TableProviderStats])
		assert.Equal(t, 3, sizes[TableClients])
		assert.Equal(t, 0, sizes[TableClientStats])
		assert.False(t, ix.LoadedAt().IsZero())
	})

	t.Run("skips records without an id", func(t *testing.T) {
		dir := t.TempDir()
		writeSnapshots(t, dir,
			`{"data": [{"id": "P1"}, {"name": "no id here"}, {"id": ""}, {"id": "P2"}]}`,
			"", "", "")

		ix, err := newTestLoader(t, dir).Load(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, ix.TableSizes()[TableProviders])
		_, ok := ix.providers.get("P1")
		assert.True(t, ok)
		_, ok = ix.providers.get("")
		assert.False(t, ok)
	})

	t.Run("last write wins on duplicate ids, first position kept", func(t *testing.T) {
		dir := t.TempDir()
		writeSnapshots(t, dir,
			`{"data": [{"id": "P1", "name": "first"}, {"id": "P2"}, {"id": "P1", "name": "second"}]}`,
			"", "", "")

		ix, err := newTestLoader(t, dir).Load(context.Background())
		require.NoError(t, err)

		records := ix.providers.list()
		require.Len(t, records, 2)
		assert.Equal(t, "P1", records[0].ID)
		assert.Equal(t, "second", records[0].Name)
		assert.Equal(t, "P2", records[1].ID)
	})

	t.Run("preserves snapshot declaration order", func(t *testing.T) {
		dir := t.TempDir()
		writeSnapshots(t, dir,
			`{"data": [{"id": "P3"}, {"id": "P1"}, {"id": "P2"}]}`,
			"", "", "")

		ix, err := newTestLoader(t, dir).Load(context.Background())
		require.NoError(t, err)

		var ids []string
		for _, rec := range ix.providers.list() {
			ids = append(ids, rec.ID)
		}
		assert.Equal(t, []string{"P3", "P1", "P2"}, ids)
	})

	t.Run("fails atomically when one snapshot is missing", func(t *testing.T) {
		dir := t.TempDir()
		writeSnapshots(t, dir, `{"data": [{"id": "P1"}]}`, "", "", "")
		require.NoError(t, os.Remove(filepath.Join(dir, "client-stats.json")))

		ix, err := newTestLoader(t, dir).Load(context.Background())
		assert.Error(t, err)
		assert.Nil(t, ix)
	})

	t.Run("fails atomically when one snapshot is malformed", func(t *testing.T) {
		dir := t.TempDir()
		writeSnapshots(t, dir, `{"data": [{"id": "P1"}]}`, `{"data": [`, "", "")

		ix, err := newTestLoader(t, dir).Load(context.Background())
		assert.Error(t, err)
		assert.Nil(t, ix)
	})

	t.Run("identical documents load to identical tables", func(t *testing.T) {
		dir := t.TempDir()
		writeSnapshots(t, dir,
			`{"data": [{"id": "P1", "relationships": {"clients": ["C1", "C2"]}}]}`,
			`{"data": [{"id": "P1", "stats": {"works": 5}}]}`,
			`{"data": [{"id": "C1"}, {"id": "C2"}]}`,
			"")
		loader := newTestLoader(t, dir)

		first, err := loader.Load(context.Background())
		require.NoError(t, err)
		second, err := loader.Load(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first.TableSizes(), second.TableSizes())
		assert.Equal(t, first.providers.list(), second.providers.list())
		assert.Equal(t, first.clients.list(), second.clients.list())
	})
}

func TestLoaderDefaultFileNames(t *testing.T) {
	loader := NewLoader(&fileSource{dir: "."}, SnapshotFiles{Providers: "custom.json"})

	assert.Equal(t, "custom.json", loader.files.Providers)
	assert.Equal(t, "provider-stats.json", loader.files.ProviderStats)
	assert.Equal(t, "clients.json", loader.files.Clients)
	assert.Equal(t, "client-stats.json", loader.files.ClientStats)
}
