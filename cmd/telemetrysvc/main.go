/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"log"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/grpc"

	"github.com/carverauto/taskradar/pkg/config"
	"github.com/carverauto/taskradar/pkg/db"
	"github.com/carverauto/taskradar/pkg/lifecycle"
	"github.com/carverauto/taskradar/pkg/logger"
	"github.com/carverauto/taskradar/pkg/telemetrysvc"
)

const (
	serviceName    = "taskradar-telemetry"
	serviceVersion = "1.0.0"
)

func main() {
	configPath := flag.String("config", "/etc/taskradar/telemetrysvc.json", "Path to config file")
	flag.Parse()

	ctx := context.Background()

	var cfg telemetrysvc.Config

	cfgLoader := config.NewConfig(nil)
	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	loggerConfig := cfg.Logging
	if loggerConfig == nil {
		loggerConfig = logger.DefaultConfig()
	}

	tp, ctx, rootSpan, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		OTel:           &loggerConfig.OTel,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	defer func() {
		if shutdownErr := tp.Shutdown(context.Background()); shutdownErr != nil {
			log.Printf("Error shutting down tracer provider: %v", shutdownErr)
		}

		rootSpan.End()
	}()

	if _, err = logger.InitializeMetrics(ctx, logger.MetricsConfig{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		OTel:           &loggerConfig.OTel,
	}); err != nil && !errors.Is(err, logger.ErrOTelMetricsDisabled) {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	dbLogger, err := lifecycle.CreateComponentLogger(ctx, "telemetrysvc-db", loggerConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database logger: %v", err)
	}

	serviceLogger, err := lifecycle.CreateComponentLogger(ctx, "telemetrysvc", loggerConfig)
	if err != nil {
		log.Fatalf("Failed to initialize service logger: %v", err)
	}

	store, err := db.New(ctx, &cfg.Database, dbLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event store: %v", err)
	}

	svc, err := telemetrysvc.NewServer(&cfg, store, serviceLogger)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry service: %v", err)
	}

	opts := &lifecycle.ServerOptions{
		ListenAddr:        cfg.ListenAddr,
		ServiceName:       "telemetrysvc",
		Service:           svc,
		EnableHealthCheck: true,
		RegisterGRPCServices: []lifecycle.GRPCServiceRegistrar{
			func(s *grpc.Server) error {
				coltracepb.RegisterTraceServiceServer(s, telemetrysvc.NewTraceService(svc))
				collogspb.RegisterLogsServiceServer(s, telemetrysvc.NewLogsService(svc))

				return nil
			},
		},
		Security: cfg.Security,
	}

	if err := lifecycle.RunServer(ctx, opts); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
