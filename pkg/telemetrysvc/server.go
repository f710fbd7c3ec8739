// Package telemetrysvc runs the OTLP ingestion service: it receives
// trace and log export requests from task workers, normalizes them into
// task events, and writes them to the event store.
package telemetrysvc

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"google.golang.org/grpc/metadata"

	"github.com/carverauto/taskradar/pkg/db"
	"github.com/carverauto/taskradar/pkg/lifecycle"
	"github.com/carverauto/taskradar/pkg/logger"
	"github.com/carverauto/taskradar/pkg/models"
	"github.com/carverauto/taskradar/pkg/natsutil"
	"github.com/carverauto/taskradar/pkg/otlp"
)

const (
	// writeModeMetadataKey selects the store path for one request.
	writeModeMetadataKey = "x-taskradar-write-mode"
	writeModeImmediate   = "immediate"
)

// Server wires the normalization pipeline to the event store and the
// notification publisher, and owns their lifetimes.
type Server struct {
	cfg      *Config
	store    db.Service
	exporter Exporter
	logger   logger.Logger

	mu        sync.RWMutex
	nc        *nats.Conn
	publisher *natsutil.EventPublisher
}

// NewServer builds the service from a validated configuration and an
// opened event store.
func NewServer(cfg *Config, store db.Service, log logger.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: log,
	}

	s.exporter = otlp.NewExporter(store, NewCostEnricher(), log,
		otlp.WithNotifier(s),
		otlp.WithVerbose(cfg.Verbose),
	)

	return s, nil
}

// Start connects to NATS and sets up the notification publisher. With
// events disabled it only logs; the gRPC surface is started by the
// lifecycle shell.
func (s *Server) Start(ctx context.Context) error {
	if !s.cfg.Events.Enabled {
		s.logger.Info().
			Str("listen_addr", s.cfg.ListenAddr).
			Bool("immediate_writes", s.cfg.ImmediateWrites).
			Msg("Telemetry service started, notifications disabled")

		return nil
	}

	nc, err := natsutil.ConnectWithSecurity(ctx, s.cfg.NATS.URL, s.cfg.NATS.Security, s.logger)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	publisher, err := natsutil.CreateEventPublisherWithDomain(ctx, nc, s.cfg.NATS.Domain, s.cfg.Events.StreamName, s.cfg.Events.Subjects)
	if err != nil {
		nc.Close()

		return err
	}

	s.mu.Lock()
	s.nc = nc
	s.publisher = publisher
	s.mu.Unlock()

	s.logger.Info().
		Str("listen_addr", s.cfg.ListenAddr).
		Str("stream_name", s.cfg.Events.StreamName).
		Bool("immediate_writes", s.cfg.ImmediateWrites).
		Msg("Telemetry service started")

	return nil
}

// Stop drains the event store and closes the NATS connection.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.store.Flush(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to flush event store during shutdown")
	}

	if err := s.store.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to close event store")
	}

	s.mu.Lock()
	nc := s.nc
	s.nc = nil
	s.publisher = nil
	s.mu.Unlock()

	if nc != nil {
		nc.Close()
	}

	s.logger.Info().Msg("Telemetry service stopped")

	return nil
}

// EventsStored publishes one events-stored notification. Without a
// publisher (events disabled, or Start not yet run) it is a no-op.
func (s *Server) EventsStored(ctx context.Context, count int) error {
	if count == 0 {
		return nil
	}

	s.mu.RLock()
	publisher := s.publisher
	s.mu.RUnlock()

	if publisher == nil {
		return nil
	}

	return publisher.PublishEventsStored(ctx, models.EventsStoredData{
		Count:     count,
		Source:    natsutil.EventSource,
		Timestamp: time.Now(),
	})
}

// immediateMode reports whether a request bypasses the write buffer,
// either globally via configuration or per request via the
// x-taskradar-write-mode metadata header.
func (s *Server) immediateMode(ctx context.Context) bool {
	if s.cfg.ImmediateWrites {
		return true
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return false
	}

	for _, value := range md.Get(writeModeMetadataKey) {
		if strings.EqualFold(value, writeModeImmediate) {
			return true
		}
	}

	return false
}

var (
	_ lifecycle.Service = (*Server)(nil)
	_ otlp.Notifier     = (*Server)(nil)
)
