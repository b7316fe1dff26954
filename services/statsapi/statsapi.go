// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package statsapi provides the read-only provider/client metadata service.
//
// # Description
//
// The service answers merge and relationship queries over four pre-generated
// JSON snapshots (provider attributes, provider stats, client attributes,
// client stats). The snapshots are loaded lazily on the first query and held
// immutable in memory for the process lifetime; see the dataset package for
// the core engine.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svc, err := statsapi.New(context.Background(), cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
package statsapi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AleutianAI/RegistryStats/services/statsapi/config"
	"github.com/AleutianAI/RegistryStats/services/statsapi/dataset"
	"github.com/AleutianAI/RegistryStats/services/statsapi/observability"
	"github.com/AleutianAI/RegistryStats/services/statsapi/routes"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const serviceName = "statsapi"

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the stats API service.
//
// Run() blocks and should be called at most once per instance. Router()
// exposes the configured gin engine for integration tests.
type Service interface {
	// Run starts the HTTP server and blocks until it stops.
	Run() error

	// Router returns the underlying gin engine for testing.
	Router() *gin.Engine

	// Store returns the dataset query facade.
	Store() *dataset.Store
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// All fields are read-only after New() returns; the mutable dataset state
// lives behind the Store's own synchronization.
type service struct {
	config        config.Config
	router        *gin.Engine
	store         *dataset.Store
	tracerCleanup func(context.Context)
}

var _ Service = (*service)(nil)

// New creates a ready-to-run stats API service.
//
// Initialization order:
//  1. gin mode from configuration
//  2. Prometheus metrics registration
//  3. OpenTelemetry tracing (only when an OTLP endpoint is configured)
//  4. snapshot source, loader, and store (the dataset itself is not loaded
//     here; the first query triggers the load)
//  5. HTTP router with the full route table
func New(ctx context.Context, cfg config.Config) (Service, error) {
	s := &service{config: cfg}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	observability.InitMetrics()

	if cfg.Telemetry.OTLPEndpoint != "" {
		cleanup, err := initTracer(ctx, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		s.tracerCleanup = cleanup
	}

	source, err := dataset.OpenSource(ctx, cfg.Snapshots.Location, cfg.Snapshots.GCSCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot source: %w", err)
	}
	loader := dataset.NewLoader(source, dataset.SnapshotFiles{
		Providers:     cfg.Snapshots.ProvidersFile,
		ProviderStats: cfg.Snapshots.ProviderStatsFile,
		Clients:       cfg.Snapshots.ClientsFile,
		ClientStats:   cfg.Snapshots.ClientStatsFile,
	})
	s.store = dataset.NewStore(loader)

	s.initRouter()
	return s, nil
}

// Run starts the HTTP server and blocks until it stops.
func (s *service) Run() error {
	if s.tracerCleanup != nil {
		defer s.tracerCleanup(context.Background())
	}
	addr := fmt.Sprintf(":%d", s.config.Server.Port)
	slog.Info("starting stats API server", "addr", addr,
		"snapshot_location", s.config.Snapshots.Location)
	return s.router.Run(addr)
}

// Router returns the configured gin engine.
func (s *service) Router() *gin.Engine {
	return s.router
}

// Store returns the dataset query facade.
func (s *service) Store() *dataset.Store {
	return s.store
}

// initRouter sets up the gin router with all routes.
func (s *service) initRouter() {
	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(otelgin.Middleware(serviceName))

	routes.SetupRoutes(s.router, s.store, s.config.Server.CORSOrigins)
}

// =============================================================================
// Tracing
// =============================================================================

// initTracer configures the OTLP gRPC trace exporter and installs the
// global tracer provider. The returned cleanup shuts the exporter down.
func initTracer(ctx context.Context, endpoint string) (func(context.Context), error) {
	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}
