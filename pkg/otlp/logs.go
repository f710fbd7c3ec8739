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
	"fmt"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"

	"github.com/carverauto/taskradar/pkg/models"
)

// mapLogEvent converts one wire log record plus its resource context
// into a synthetic task event. A log record is not a span, so the event
// gets a freshly generated span id and hangs off the emitting span as a
// child: parentId is the record's own wire span id. Records missing a
// wire trace or span identifier are dropped.
func mapLogEvent(record *logspb.LogRecord, resourceAttrs []*commonpb.KeyValue, props *resourceProperties, ids IDGenerator) (*models.CreatableEvent, bool) {
	traceID, ok := hexID(record.GetTraceId())
	if !ok {
		return nil, false
	}

	parentID, ok := hexID(record.GetSpanId())
	if !ok {
		return nil, false
	}

	message, ok := stringValue(record.GetBody())
	if !ok {
		message = fmt.Sprintf("%s log", record.GetSeverityText())
	}

	level := eventLevelFromSeverity(record.GetSeverityNumber())

	ts := record.GetTimeUnixNano()
	if ts == 0 {
		ts = record.GetObservedTimeUnixNano()
	}

	ev := &models.CreatableEvent{
		TraceID:   traceID,
		SpanID:    ids.GenerateSpanID(),
		ParentID:  parentID,
		Message:   message,
		Kind:      models.EventKindInternal,
		Level:     level,
		Status:    eventStatusFromSeverity(record.GetSeverityNumber()),
		IsError:   level == models.EventLevelError,
		StartTime: timeFromUnixNano(ts),

		Properties: eventProperties(record.GetAttributes(), resourceAttrs),
	}

	applyResourceProperties(ev, props)
	applyAttemptOverrides(ev, record.GetAttributes())

	return ev, true
}
