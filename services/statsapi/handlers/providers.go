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
	"github.com/AleutianAI/RegistryStats/services/statsapi/dataset"
	"github.com/gin-gonic/gin"
)

// ListProviders returns all provider attribute records.
func ListProviders(store *dataset.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, meta, err := store.ListProviders(c.Request.Context())
		if err != nil {
			respondError(c, "list_providers", err)
			return
		}
		respondList(c, records, meta)
	}
}

// GetProvider returns one provider merged with its stats payload.
func GetProvider(store *dataset.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := recordID(c)
		if !ok {
			return
		}
		merged, err := store.GetProvider(c.Request.Context(), id)
		if err != nil {
			respondError(c, "get_provider", err)
			return
		}
		respondData(c, merged)
	}
}

// GetProviderAttributes returns one provider's raw attributes record.
func GetProviderAttributes(store *dataset.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := recordID(c)
		if !ok {
			return
		}
		attrs, err := store.GetProviderAttributes(c.Request.Context(), id)
		if err != nil {
			respondError(c, "get_provider_attributes", err)
			return
		}
		respondData(c, attrs)
	}
}

// GetProviderStats returns one provider's raw stats record.
func GetProviderStats(store *dataset.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := recordID(c)
		if !ok {
			return
		}
		stats, err := store.GetProviderStats(c.Request.Context(), id)
		if err != nil {
			respondError(c, "get_provider_stats", err)
			return
		}
		respondData(c, stats)
	}
}

// GetProviderClients returns the attribute records of the provider's
// declared clients, in declared order.
func GetProviderClients(store *dataset.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := recordID(c)
		if !ok {
			return
		}
		clients, err := store.GetProviderClients(c.Request.Context(), id)
		if err != nil {
			respondError(c, "get_provider_clients", err)
			return
		}
		respondData(c, clients)
	}
}
