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

package otlp

import (
	"context"
	"fmt"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"

	"github.com/carverauto/taskradar/pkg/logger"
	"github.com/carverauto/taskradar/pkg/models"
)

// Exporter is the normalization facade: it filters resource batches,
// maps the surviving wire records to task events, enriches the mapped
// batch once, and hands it to the store. It is stateless and safe for
// concurrent use; collaborators own all timeouts and retries.
type Exporter struct {
	writer   EventWriter
	enricher Enricher
	notifier Notifier
	ids      IDGenerator
	verbose  bool
	logger   logger.Logger
}

// ExporterOption is a function type that modifies Exporter configuration.
type ExporterOption func(*Exporter)

// WithNotifier attaches a post-dispatch notification collaborator.
// Notification failures are logged and never fail the export.
func WithNotifier(n Notifier) ExporterOption {
	return func(e *Exporter) {
		e.notifier = n
	}
}

// WithIDGenerator replaces the identity primitive used for log-derived
// events.
func WithIDGenerator(ids IDGenerator) ExporterOption {
	return func(e *Exporter) {
		e.ids = ids
	}
}

// WithVerbose enables per-call diagnostic counters on the debug level.
func WithVerbose(verbose bool) ExporterOption {
	return func(e *Exporter) {
		e.verbose = verbose
	}
}

// NewExporter creates an Exporter writing through the given store. The
// enricher runs once per export call over the full mapped batch; pass
// nil to store events unmodified.
func NewExporter(writer EventWriter, enricher Enricher, log logger.Logger, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		writer:   writer,
		enricher: enricher,
		ids:      RandomIDGenerator{},
		logger:   log,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// exportStats counts one call's work for verbose diagnostics.
type exportStats struct {
	batches  int
	admitted int
	records  int
	dropped  int
}

// ExportTraces normalizes one OTLP trace export request and dispatches
// the resulting events. The ack carries no payload; a dispatch failure
// fails the whole call with nothing committed.
func (e *Exporter) ExportTraces(ctx context.Context, req *coltracepb.ExportTraceServiceRequest, immediate bool) (*coltracepb.ExportTraceServiceResponse, error) {
	var (
		stats  exportStats
		events []*models.CreatableEvent
	)

	for _, rs := range req.GetResourceSpans() {
		stats.batches++

		resourceAttrs := rs.GetResource().GetAttributes()
		if !admitSpans(resourceAttrs) {
			continue
		}

		stats.admitted++
		props := extractResourceProperties(resourceAttrs)

		for _, ss := range rs.GetScopeSpans() {
			for _, span := range ss.GetSpans() {
				stats.records++

				ev, ok := mapSpanEvent(span, resourceAttrs, props)
				if !ok {
					stats.dropped++
					continue
				}

				events = append(events, ev)
			}
		}
	}

	if err := e.dispatch(ctx, events, immediate); err != nil {
		return nil, err
	}

	e.logExport("traces", stats, len(events), immediate)

	return &coltracepb.ExportTraceServiceResponse{}, nil
}

// ExportLogs normalizes one OTLP logs export request and dispatches the
// resulting synthetic events.
func (e *Exporter) ExportLogs(ctx context.Context, req *collogspb.ExportLogsServiceRequest, immediate bool) (*collogspb.ExportLogsServiceResponse, error) {
	var (
		stats  exportStats
		events []*models.CreatableEvent
	)

	for _, rl := range req.GetResourceLogs() {
		stats.batches++

		resourceAttrs := rl.GetResource().GetAttributes()
		if !admitLogs(resourceAttrs) {
			continue
		}

		stats.admitted++
		props := extractResourceProperties(resourceAttrs)

		for _, sl := range rl.GetScopeLogs() {
			for _, record := range sl.GetLogRecords() {
				stats.records++

				ev, ok := mapLogEvent(record, resourceAttrs, props, e.ids)
				if !ok {
					stats.dropped++
					continue
				}

				events = append(events, ev)
			}
		}
	}

	if err := e.dispatch(ctx, events, immediate); err != nil {
		return nil, err
	}

	e.logExport("logs", stats, len(events), immediate)

	return &collogspb.ExportLogsServiceResponse{}, nil
}

// dispatch enriches the mapped batch once and writes it through the
// requested store path. The batch is handed over even when empty so the
// store keeps a single code path; it short-circuits empty inserts.
func (e *Exporter) dispatch(ctx context.Context, events []*models.CreatableEvent, immediate bool) error {
	if e.enricher != nil {
		enriched, err := e.enricher.Enrich(ctx, events)
		if err != nil {
			return fmt.Errorf("failed to enrich events: %w", err)
		}

		events = enriched
	}

	insert := e.writer.InsertEvents
	if immediate {
		insert = e.writer.InsertEventsImmediate
	}

	if err := insert(ctx, events); err != nil {
		return fmt.Errorf("failed to store events: %w", err)
	}

	if e.notifier != nil {
		if err := e.notifier.EventsStored(ctx, len(events)); err != nil {
			e.logger.Warn().Err(err).Int("count", len(events)).Msg("Failed to publish events-stored notification")
		}
	}

	return nil
}

func (e *Exporter) logExport(signal string, stats exportStats, produced int, immediate bool) {
	if !e.verbose {
		return
	}

	e.logger.Debug().
		Str("signal", signal).
		Int("batches", stats.batches).
		Int("admitted", stats.admitted).
		Int("records", stats.records).
		Int("events", produced).
		Int("dropped", stats.dropped).
		Bool("immediate", immediate).
		Msg("Export request normalized")
}
