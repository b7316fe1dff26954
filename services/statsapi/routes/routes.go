// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package routes wires the stats API route table onto a gin engine.
package routes

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/AleutianAI/RegistryStats/services/statsapi/dataset"
	"github.com/AleutianAI/RegistryStats/services/statsapi/handlers"
	"github.com/AleutianAI/RegistryStats/services/statsapi/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed openapi.yaml
var openAPIDocument []byte

const docsPage = `<!DOCTYPE html>
<html>
<head><title>RegistryStats API</title></head>
<body>
<h1>RegistryStats API</h1>
<p>Read-only provider and client metadata.</p>
<ul>
<li><a href="/openapi.yaml">OpenAPI document</a></li>
<li><a href="/api/providers">GET /api/providers</a></li>
<li><a href="/api/clients">GET /api/clients</a></li>
</ul>
</body>
</html>`

// SetupRoutes registers middleware and the full route table.
func SetupRoutes(router *gin.Engine, store *dataset.Store, corsOrigins []string) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(cors.New(corsConfig(corsOrigins)))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Friendly entry point: the root redirects to the docs page.
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs")
	})
	router.GET("/docs", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsPage))
	})
	router.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", openAPIDocument)
	})

	api := router.Group("/api")
	{
		providers := api.Group("/providers")
		{
			providers.GET("", handlers.ListProviders(store))
			providers.GET("/:id", handlers.GetProvider(store))
			providers.GET("/:id/attributes", handlers.GetProviderAttributes(store))
			providers.GET("/:id/stats", handlers.GetProviderStats(store))
			providers.GET("/:id/clients", handlers.GetProviderClients(store))
		}
		clients := api.Group("/clients")
		{
			clients.GET("", handlers.ListClients(store))
			clients.GET("/:id", handlers.GetClient(store))
			clients.GET("/:id/attributes", handlers.GetClientAttributes(store))
			clients.GET("/:id/stats", handlers.GetClientStats(store))
		}
	}
}

// corsConfig builds the CORS policy. The API serves public read-only
// metadata, so the default is every origin; deployments can restrict it via
// configuration.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Accept", "Content-Type", middleware.RequestIDHeader},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
