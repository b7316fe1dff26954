// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers contains the gin handlers for the stats API.
//
// Response envelope conventions:
//   - single entity:  {"data": <record>}
//   - listing:        {"data": [...], "meta": {"total": n, "timestamp": t}}
//   - bad request:    400 {"detail": "<validation message>"}
//   - not found:      404 {"detail": "<message naming the id and kind>"}
//   - load failure:   500 {"detail": "dataset initialization failed"}
//
// Load failures never leak the underlying cause to the client; the cause
// goes to the log only.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AleutianAI/RegistryStats/pkg/validation"
	"github.com/AleutianAI/RegistryStats/services/statsapi/dataset"
	"github.com/gin-gonic/gin"
)

const initFailureDetail = "dataset initialization failed"

// respondData writes a single-entity success envelope.
func respondData(c *gin.Context, record any) {
	c.JSON(http.StatusOK, gin.H{"data": record})
}

// respondList writes a listing envelope with metadata.
func respondList(c *gin.Context, records, meta any) {
	c.JSON(http.StatusOK, gin.H{"data": records, "meta": meta})
}

// recordID extracts and validates the :id path parameter. A malformed id is
// answered with 400 before it reaches the query layer or the logs; callers
// must return when ok is false.
func recordID(c *gin.Context) (id string, ok bool) {
	id, err := validation.SanitizeID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return "", false
	}
	return id, true
}

// respondError maps a facade error onto the wire. NotFound results become
// 404 with the structured detail message; everything else is a load failure
// surfaced as a generic 500.
func respondError(c *gin.Context, operation string, err error) {
	var nf *dataset.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"detail": nf.Error()})
		return
	}

	if !errors.Is(err, dataset.ErrLoadFailed) {
		// Queries over resident data cannot fail any other way; log loudly
		// if one ever does.
		slog.Error("unexpected query error", "operation", operation, "error", err)
	} else {
		slog.Error("query aborted, dataset not loadable", "operation", operation, "error", err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": initFailureDetail})
}

// HealthCheck reports process liveness. It deliberately does not touch the
// dataset: a pod that cannot load snapshots should still answer health
// probes so the failure is observable through the API itself.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
