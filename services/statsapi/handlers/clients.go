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

// ListClients returns all client attribute records.
func ListClients(store *dataset.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, meta, err := store.ListClients(c.Request.Context())
		if err != nil {
			respondError(c, "list_clients", err)
			return
		}
		respondList(c, records, meta)
	}
}

// GetClient returns one client merged with its stats payload.
func GetClient(store *dataset.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := recordID(c)
		if !ok {
			return
		}
		merged, err := store.GetClient(c.Request.Context(), id)
		if err != nil {
			respondError(c, "get_client", err)
			return
		}
		respondData(c, merged)
	}
}

// GetClientAttributes returns one client's raw attributes record.
func GetClientAttributes(store *dataset.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := recordID(c)
		if !ok {
			return
		}
		attrs, err := store.GetClientAttributes(c.Request.Context(), id)
		if err != nil {
			respondError(c, "get_client_attributes", err)
			return
		}
		respondData(c, attrs)
	}
}

// GetClientStats returns one client's raw stats record.
func GetClientStats(store *dataset.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := recordID(c)
		if !ok {
			return
		}
		stats, err := store.GetClientStats(c.Request.Context(), id)
		if err != nil {
			respondError(c, "get_client_stats", err)
			return
		}
		respondData(c, stats)
	}
}
