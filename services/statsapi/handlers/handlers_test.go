// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AleutianAI/RegistryStats/services/statsapi/dataset"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter builds a router over a small fixture dataset:
// P1 (clients C1, C2; stats works=5), P2 (no clients, no stats), C1, C2.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"providers.json": `{"data": [
			{"id": "P1", "name": "Alpha", "relationships": {"clients": ["C1", "C2"]}},
			{"id": "P2", "name": "Beta"}
		]}`,
		"provider-stats.json": `{"data": [{"id": "P1", "stats": {"works": 5}}]}`,
		"clients.json":        `{"data": [{"id": "C1"}, {"id": "C2"}]}`,
		"client-stats.json":   `{"data": [{"id": "C1", "stats": {"views": 3}}]}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write fixture %s: %v", name, err)
		}
	}
	return routerOver(t, dir)
}

func routerOver(t *testing.T, location string) *gin.Engine {
	t.Helper()
	source, err := dataset.OpenSource(context.Background(), location, "")
	if err != nil {
		t.Fatalf("Failed to open source: %v", err)
	}
	store := dataset.NewStore(dataset.NewLoader(source, dataset.SnapshotFiles{}))

	router := gin.New()
	router.GET("/api/providers", ListProviders(store))
	router.GET("/api/providers/:id", GetProvider(store))
	router.GET("/api/providers/:id/attributes", GetProviderAttributes(store))
	router.GET("/api/providers/:id/stats", GetProviderStats(store))
	router.GET("/api/providers/:id/clients", GetProviderClients(store))
	router.GET("/api/clients", ListClients(store))
	router.GET("/api/clients/:id", GetClient(store))
	router.GET("/api/clients/:id/attributes", GetClientAttributes(store))
	router.GET("/api/clients/:id/stats", GetClientStats(store))
	return router
}

func doGet(t *testing.T, router *gin.Engine, path string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(rec, req)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Response to %s is not JSON: %v (body: %s)", path, err, rec.Body.String())
	}
	return rec.Code, body
}

func TestListProvidersEnvelope(t *testing.T) {
	router := newTestRouter(t)

	code, body := doGet(t, router, "/api/providers")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	data, ok := body["data"].([]any)
	if !ok || len(data) != 2 {
		t.Fatalf("Expected 2 providers in data, got: %v", body["data"])
	}
	meta, ok := body["meta"].(map[string]any)
	if !ok {
		t.Fatalf("Expected meta object, got: %v", body["meta"])
	}
	if meta["total"] != float64(2) {
		t.Errorf("Expected meta.total 2, got %v", meta["total"])
	}
	if ts, _ := meta["timestamp"].(string); ts == "" {
		t.Errorf("Expected a load timestamp in meta, got %v", meta["timestamp"])
	}
	// Listings never attach stats.
	first := data[0].(map[string]any)
	if _, ok := first["stats"]; ok {
		t.Errorf("Listing should not attach stats, got: %v", first)
	}
}

func TestGetProviderMerged(t *testing.T) {
	router := newTestRouter(t)

	code, body := doGet(t, router, "/api/providers/P1")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	data := body["data"].(map[string]any)
	if data["id"] != "P1" {
		t.Errorf("Expected id P1, got %v", data["id"])
	}
	stats, ok := data["stats"].(map[string]any)
	if !ok || stats["works"] != float64(5) {
		t.Errorf("Expected merged stats {works: 5}, got %v", data["stats"])
	}

	// P2 has no stats record: the merged view must omit the key entirely.
	_, body = doGet(t, router, "/api/providers/P2")
	data = body["data"].(map[string]any)
	if _, ok := data["stats"]; ok {
		t.Errorf("Provider without stats should omit the stats key, got %v", data)
	}
}

func TestNotFoundResponses(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		path   string
		detail string
	}{
		{"/api/providers/nope", "provider nope not found"},
		{"/api/providers/nope/attributes", "provider nope not found"},
		{"/api/providers/P2/stats", "may exist without stats"},
		{"/api/providers/P2/clients", "no clients are registered"},
		{"/api/providers/nope/clients", "provider nope not found"},
		{"/api/clients/nope", "client nope not found"},
		{"/api/clients/C2/stats", "may exist without stats"},
	}
	for _, tc := range cases {
		code, body := doGet(t, router, tc.path)
		if code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", tc.path, code)
			continue
		}
		detail, _ := body["detail"].(string)
		if !strings.Contains(detail, tc.detail) {
			t.Errorf("%s: expected detail containing %q, got %q", tc.path, tc.detail, detail)
		}
	}
}

func TestMalformedIDResponses(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/api/providers/" + strings.Repeat("a", 300),
		"/api/clients/bad;id",
		"/api/providers/.P1/stats",
	} {
		code, body := doGet(t, router, path)
		if code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, code)
			continue
		}
		if detail, _ := body["detail"].(string); detail == "" {
			t.Errorf("%s: expected a validation detail, got %v", path, body)
		}
	}
}

func TestProviderClientsOrder(t *testing.T) {
	router := newTestRouter(t)

	code, body := doGet(t, router, "/api/providers/P1/clients")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	data := body["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("Expected 2 clients, got %d", len(data))
	}
	if first := data[0].(map[string]any); first["id"] != "C1" {
		t.Errorf("Expected C1 first, got %v", first["id"])
	}
	if second := data[1].(map[string]any); second["id"] != "C2" {
		t.Errorf("Expected C2 second, got %v", second["id"])
	}
}

func TestLoadFailureResponse(t *testing.T) {
	// A location with no snapshot files: every operation reports the
	// generic initialization failure, never a not-found and never the
	// underlying cause.
	router := routerOver(t, t.TempDir())

	for _, path := range []string{"/api/providers", "/api/providers/P1", "/api/clients"} {
		code, body := doGet(t, router, path)
		if code != http.StatusInternalServerError {
			t.Errorf("%s: expected 500, got %d", path, code)
		}
		if body["detail"] != "dataset initialization failed" {
			t.Errorf("%s: expected generic detail, got %v", path, body["detail"])
		}
	}
}

func TestHealthCheck(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck)

	code, body := doGet(t, router, "/health")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
}
