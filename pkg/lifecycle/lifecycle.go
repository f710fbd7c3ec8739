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

// Package lifecycle manages the startup and shutdown of service binaries:
// it wires the gRPC server, security provider, and signal handling around
// a Service implementation.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	ggrpc "google.golang.org/grpc"

	"github.com/carverauto/taskradar/pkg/grpc"
	"github.com/carverauto/taskradar/pkg/logger"
	"github.com/carverauto/taskradar/pkg/models"
)

const (
	defaultShutdownTimeout = 10 * time.Second
)

var (
	errServiceRequired = errors.New("server options require a service")
)

// Service defines the lifecycle hooks a long-running service implements.
// Start may block until ctx is canceled or return after launching its
// background work; Stop must release resources and flush pending state.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// GRPCServiceRegistrar registers a gRPC service implementation on the server.
type GRPCServiceRegistrar func(*ggrpc.Server) error

// ServerOptions configures RunServer.
type ServerOptions struct {
	ListenAddr           string
	ServiceName          string
	Service              Service
	RegisterGRPCServices []GRPCServiceRegistrar
	EnableHealthCheck    bool
	Security             *models.SecurityConfig
	TelemetryFilter      grpc.TelemetryFilter
}

// RunServer starts the service and its gRPC server, then blocks until a
// shutdown signal arrives, the context is canceled, or either component
// fails. Shutdown stops the gRPC server before the service so in-flight
// RPCs drain into the service's final flush.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	if opts == nil || opts.Service == nil {
		return errServiceRequired
	}

	log, err := CreateComponentLogger(ctx, "lifecycle", logger.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to create lifecycle logger: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv, cleanup, err := setupServer(ctx, opts, log)
	if err != nil {
		return err
	}
	defer cleanup()

	errCh := make(chan error, 2)

	go func() {
		if startErr := opts.Service.Start(ctx); startErr != nil && !errors.Is(startErr, context.Canceled) {
			errCh <- fmt.Errorf("service error: %w", startErr)
		}
	}()

	go func() {
		if serveErr := srv.Start(); serveErr != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", serveErr)
		}
	}()

	log.Info().
		Str("listen_addr", opts.ListenAddr).
		Str("service", opts.ServiceName).
		Msg("Service running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case runErr := <-errCh:
		log.Error().Err(runErr).Msg("Component failed, shutting down")
		cancel()

		_ = shutdownServer(opts, srv, log)

		return runErr
	case <-ctx.Done():
		log.Info().Msg("Context canceled, shutting down")
	}

	cancel()

	return shutdownServer(opts, srv, log)
}

// setupServer builds the gRPC server with transport credentials from the
// configured security mode and registers the provided services.
func setupServer(ctx context.Context, opts *ServerOptions, log logger.Logger) (*grpc.Server, func(), error) {
	provider, err := grpc.NewSecurityProvider(ctx, opts.Security, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create security provider: %w", err)
	}

	creds, err := provider.GetServerCredentials(ctx)
	if err != nil {
		_ = provider.Close()

		return nil, nil, fmt.Errorf("failed to get server credentials: %w", err)
	}

	serverOpts := []grpc.ServerOption{
		grpc.WithServerOptions(creds),
	}

	if opts.TelemetryFilter != nil {
		serverOpts = append(serverOpts, grpc.WithTelemetryFilter(opts.TelemetryFilter))
	}

	srv := grpc.NewServer(opts.ListenAddr, log, serverOpts...)

	for _, register := range opts.RegisterGRPCServices {
		if err := register(srv.GetGRPCServer()); err != nil {
			_ = provider.Close()

			return nil, nil, fmt.Errorf("failed to register gRPC service: %w", err)
		}
	}

	if opts.EnableHealthCheck {
		if err := srv.RegisterHealthServer(); err != nil {
			log.Warn().Err(err).Msg("Health server registration skipped")
		}
	}

	cleanup := func() {
		if err := provider.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close security provider")
		}
	}

	return srv, cleanup, nil
}

// shutdownServer stops the gRPC server, then the service, each bounded by
// the shutdown timeout. A fresh context is used because the run context is
// already canceled by the time shutdown begins.
func shutdownServer(opts *ServerOptions, srv *grpc.Server, log logger.Logger) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	srv.Stop(shutdownCtx)

	if err := opts.Service.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop service: %w", err)
	}

	log.Info().Str("service", opts.ServiceName).Msg("Service stopped")

	return nil
}
