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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/taskradar/pkg/logger"
	"github.com/carverauto/taskradar/pkg/models"
)

var errStoreDown = errors.New("store down")

func traceRequest(resourceAttrs []*commonpb.KeyValue, spans ...*tracepb.Span) *coltracepb.ExportTraceServiceRequest {
	return &coltracepb.ExportTraceServiceRequest{
		ResourceSpans: []*tracepb.ResourceSpans{
			{
				Resource:   &resourcepb.Resource{Attributes: resourceAttrs},
				ScopeSpans: []*tracepb.ScopeSpans{{Spans: spans}},
			},
		},
	}
}

func logsRequest(resourceAttrs []*commonpb.KeyValue, records ...*logspb.LogRecord) *collogspb.ExportLogsServiceRequest {
	return &collogspb.ExportLogsServiceRequest{
		ResourceLogs: []*logspb.ResourceLogs{
			{
				Resource:  &resourcepb.Resource{Attributes: resourceAttrs},
				ScopeLogs: []*logspb.ScopeLogs{{LogRecords: records}},
			},
		},
	}
}

func TestExportTracesEndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockEventWriter(ctrl)

	var stored []*models.CreatableEvent

	writer.EXPECT().InsertEvents(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, events []*models.CreatableEvent) error {
			stored = events
			return nil
		})

	exporter := NewExporter(writer, nil, logger.NewTestLogger(), WithVerbose(true))

	resourceAttrs := []*commonpb.KeyValue{
		kvBool(AttrTriggerMarker, true),
		kvStr(AttrEnvironmentID, "env_1"),
		kvStr(AttrServiceName, "worker"),
	}

	resp, err := exporter.ExportTraces(context.Background(), traceRequest(resourceAttrs, validSpan()), false)
	require.NoError(t, err)
	require.NotNil(t, resp)

	require.Len(t, stored, 1)

	ev := stored[0]
	assert.Equal(t, "run-task", ev.Message)
	assert.Equal(t, time.Duration(4000), ev.Duration)
	assert.Equal(t, models.EventStatusOK, ev.Status)
	assert.Equal(t, models.EventKindInternal, ev.Kind)
	assert.Equal(t, "env_1", ev.EnvironmentID)
	assert.Equal(t, "worker", ev.ServiceName)
}

func TestExportTracesUnmarkedBatchPasses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockEventWriter(ctrl)
	writer.EXPECT().InsertEvents(gomock.Any(), gomock.Len(1)).Return(nil)

	exporter := NewExporter(writer, nil, logger.NewTestLogger())

	_, err := exporter.ExportTraces(context.Background(), traceRequest(nil, validSpan()), false)
	require.NoError(t, err)
}

func TestExportLogsUnmarkedBatchDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockEventWriter(ctrl)
	writer.EXPECT().InsertEvents(gomock.Any(), gomock.Len(0)).Return(nil)

	exporter := NewExporter(writer, nil, logger.NewTestLogger())

	resp, err := exporter.ExportLogs(context.Background(), logsRequest(nil, validLogRecord()), false)
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestExportTracesMalformedSpansExcluded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockEventWriter(ctrl)
	writer.EXPECT().InsertEvents(gomock.Any(), gomock.Len(1)).Return(nil)

	exporter := NewExporter(writer, nil, logger.NewTestLogger())

	malformed := validSpan()
	malformed.SpanId = nil

	_, err := exporter.ExportTraces(context.Background(), traceRequest(nil, validSpan(), malformed), false)
	require.NoError(t, err)
}

func TestExportTracesImmediatePath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockEventWriter(ctrl)
	writer.EXPECT().InsertEventsImmediate(gomock.Any(), gomock.Len(1)).Return(nil)

	exporter := NewExporter(writer, nil, logger.NewTestLogger())

	_, err := exporter.ExportTraces(context.Background(), traceRequest(nil, validSpan()), true)
	require.NoError(t, err)
}

func TestExportTracesDispatchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockEventWriter(ctrl)
	writer.EXPECT().InsertEvents(gomock.Any(), gomock.Any()).Return(errStoreDown)

	exporter := NewExporter(writer, nil, logger.NewTestLogger())

	resp, err := exporter.ExportTraces(context.Background(), traceRequest(nil, validSpan()), false)
	require.Error(t, err)
	require.ErrorIs(t, err, errStoreDown)
	assert.Nil(t, resp)
}

func TestExportTracesEnricherRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	enriched := []*models.CreatableEvent{{Message: "enriched"}}

	enricher := NewMockEnricher(ctrl)
	enricher.EXPECT().Enrich(gomock.Any(), gomock.Len(1)).Return(enriched, nil)

	writer := NewMockEventWriter(ctrl)
	writer.EXPECT().InsertEvents(gomock.Any(), enriched).Return(nil)

	exporter := NewExporter(writer, enricher, logger.NewTestLogger())

	_, err := exporter.ExportTraces(context.Background(), traceRequest(nil, validSpan()), false)
	require.NoError(t, err)
}

func TestExportTracesEnricherFailureFailsCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	enricher := NewMockEnricher(ctrl)
	enricher.EXPECT().Enrich(gomock.Any(), gomock.Any()).Return(nil, errStoreDown)

	writer := NewMockEventWriter(ctrl)

	exporter := NewExporter(writer, enricher, logger.NewTestLogger())

	_, err := exporter.ExportTraces(context.Background(), traceRequest(nil, validSpan()), false)
	require.Error(t, err)
	require.ErrorIs(t, err, errStoreDown)
}

func TestExportNotifierIsBestEffort(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockEventWriter(ctrl)
	writer.EXPECT().InsertEvents(gomock.Any(), gomock.Len(1)).Return(nil)

	notifier := NewMockNotifier(ctrl)
	notifier.EXPECT().EventsStored(gomock.Any(), 1).Return(errStoreDown)

	exporter := NewExporter(writer, nil, logger.NewTestLogger(), WithNotifier(notifier))

	_, err := exporter.ExportTraces(context.Background(), traceRequest(nil, validSpan()), false)
	require.NoError(t, err)
}

func TestExportLogsEndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ids := NewMockIDGenerator(ctrl)
	ids.EXPECT().GenerateSpanID().Return("0011223344556677")

	var stored []*models.CreatableEvent

	writer := NewMockEventWriter(ctrl)
	writer.EXPECT().InsertEvents(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, events []*models.CreatableEvent) error {
			stored = events
			return nil
		})

	exporter := NewExporter(writer, nil, logger.NewTestLogger(), WithIDGenerator(ids), WithVerbose(true))

	resourceAttrs := []*commonpb.KeyValue{
		kvBool(AttrTriggerMarker, true),
		kvStr(AttrServiceName, "worker"),
	}

	resp, err := exporter.ExportLogs(context.Background(), logsRequest(resourceAttrs, validLogRecord()), false)
	require.NoError(t, err)
	require.NotNil(t, resp)

	require.Len(t, stored, 1)

	ev := stored[0]
	assert.Equal(t, "0011223344556677", ev.SpanID)
	assert.Equal(t, testSpanIDHex, ev.ParentID)
	assert.Equal(t, "task started", ev.Message)
	assert.Equal(t, "worker", ev.ServiceName)
}
