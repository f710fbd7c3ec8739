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
	"time"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/carverauto/taskradar/pkg/models"
)

// Span attributes that steer identity resolution and must not leak into
// event properties.
var spanReservedKeys = map[string]struct{}{
	AttrSpanID:      {},
	AttrSpanPartial: {},
}

// Resource attributes excluded from the metadata merge.
var resourceExcludedKeys = map[string]struct{}{
	AttrTriggerMarker: {},
}

// mapSpanEvent converts one wire span plus its resource context into a
// task event. Spans missing a wire trace or span identifier are dropped,
// never defaulted: the second return is false and nothing is emitted.
func mapSpanEvent(span *tracepb.Span, resourceAttrs []*commonpb.KeyValue, props *resourceProperties) (*models.CreatableEvent, bool) {
	traceID, ok := hexID(span.GetTraceId())
	if !ok {
		return nil, false
	}

	spanID, ok := hexID(span.GetSpanId())
	if !ok {
		return nil, false
	}

	// A partial span announces the identity its completed record will
	// reuse, so the store can reconcile partial and final by span id.
	isPartial, _ := attrBool(span.GetAttributes(), AttrSpanPartial)
	if isPartial {
		if override, found := attrString(span.GetAttributes(), AttrSpanID); found {
			spanID = override
		}
	}

	parentID, _ := hexID(span.GetParentSpanId())
	status := eventStatusFromStatusCode(span.GetStatus().GetCode())

	ev := &models.CreatableEvent{
		TraceID:   traceID,
		SpanID:    spanID,
		ParentID:  parentID,
		Message:   span.GetName(),
		Kind:      eventKindFromSpanKind(span.GetKind()),
		Level:     models.EventLevelTrace,
		Status:    status,
		IsPartial: isPartial,
		IsError:   status == models.EventStatusError,
		StartTime: timeFromUnixNano(span.GetStartTimeUnixNano()),
		Duration:  time.Duration(int64(span.GetEndTimeUnixNano()) - int64(span.GetStartTimeUnixNano())),

		Properties: eventProperties(span.GetAttributes(), resourceAttrs),
		Style:      projectGroup(span.GetAttributes(), GroupStyle),
		Output:     projectGroup(span.GetAttributes(), GroupOutput),
		Payload:    projectGroup(span.GetAttributes(), GroupPayload),

		Links:  mapSpanLinks(span.GetLinks()),
		Events: mapSpanEvents(span.GetEvents()),
	}

	ev.PayloadType = DefaultPayloadType
	if pt, found := attrString(span.GetAttributes(), AttrPayloadType); found {
		ev.PayloadType = pt
	}

	applyResourceProperties(ev, props)
	applyAttemptOverrides(ev, span.GetAttributes())
	applyUsageOverrides(ev, span.GetAttributes())

	return ev, true
}

// projectGroup projects one attribute group ("style", "output",
// "payload") onto its event field, unwrapping to a single scalar when
// the group's sentinel key was emitted.
func projectGroup(attrs []*commonpb.KeyValue, group string) any {
	return unwrapSingleton(project(pick(attrs, group), nil, ""), group)
}

// eventProperties projects record attributes (minus the reserved
// identity keys) and merges in the resource attributes under the
// metadata prefix. Record-level keys win; a record-level "metadata.*"
// attribute is the explicit way to override a resource value.
func eventProperties(attrs, resourceAttrs []*commonpb.KeyValue) map[string]any {
	properties := project(attrs, spanReservedKeys, "")

	merged := project(resourceAttrs, resourceExcludedKeys, MetadataPrefix)
	if merged == nil {
		return properties
	}

	if properties == nil {
		return merged
	}

	for key, value := range merged {
		if _, exists := properties[key]; !exists {
			properties[key] = value
		}
	}

	return properties
}

// applyResourceProperties copies the batch-level extraction onto one
// event.
func applyResourceProperties(ev *models.CreatableEvent, props *resourceProperties) {
	ev.ServiceName = props.serviceName
	ev.ServiceNamespace = props.serviceNamespace
	ev.EnvironmentID = props.environmentID
	ev.EnvironmentType = props.environmentType
	ev.OrganizationID = props.organizationID
	ev.ProjectID = props.projectID
	ev.ProjectRef = props.projectRef
	ev.RunID = props.runID
	ev.RunIsTest = props.runIsTest
	ev.TaskSlug = props.taskSlug

	ev.AttemptID = props.attemptID
	ev.AttemptNumber = props.attemptNumber
	ev.QueueID = props.queueID
	ev.QueueName = props.queueName
	ev.BatchID = props.batchID
	ev.IdempotencyKey = props.idempotencyKey
	ev.MachinePreset = props.machinePreset
	ev.MachinePresetCPU = props.machinePresetCPU
	ev.MachinePresetMemory = props.machinePresetMemory
	ev.MachinePresetCentsPerMs = props.machinePresetCentsPerMs
	ev.UsageDurationMs = props.usageDurationMs
	ev.UsageCostInCents = props.usageCostInCents
	ev.WorkerID = props.workerID
	ev.WorkerVersion = props.workerVersion
}

// applyAttemptOverrides lets a record override the batch-level attempt
// attribution through metadata-prefixed attributes.
func applyAttemptOverrides(ev *models.CreatableEvent, attrs []*commonpb.KeyValue) {
	if id, ok := attrString(attrs, metadataKey(AttrAttemptID)); ok {
		ev.AttemptID = &id
	}

	if number, ok := attrInt(attrs, metadataKey(AttrAttemptNumber)); ok {
		ev.AttemptNumber = &number
	}
}

// applyUsageOverrides reads span-level usage metrics, preferring them
// over the resource-extracted values. Duration falls back from the
// double variant to the int variant; cost is double only.
func applyUsageOverrides(ev *models.CreatableEvent, attrs []*commonpb.KeyValue) {
	if d, ok := attrDouble(attrs, AttrUsageDurationMs); ok {
		ev.UsageDurationMs = &d
	} else if i, ok := attrInt(attrs, AttrUsageDurationMs); ok {
		f := float64(i)
		ev.UsageDurationMs = &f
	}

	if cost, ok := attrDouble(attrs, AttrUsageCostInCents); ok {
		ev.UsageCostInCents = &cost
	}
}

func mapSpanLinks(links []*tracepb.Span_Link) []models.SpanLink {
	if len(links) == 0 {
		return nil
	}

	out := make([]models.SpanLink, 0, len(links))

	for _, link := range links {
		traceID, _ := hexID(link.GetTraceId())
		spanID, _ := hexID(link.GetSpanId())

		out = append(out, models.SpanLink{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceState: link.GetTraceState(),
			Properties: project(link.GetAttributes(), nil, ""),
		})
	}

	return out
}

func mapSpanEvents(events []*tracepb.Span_Event) []models.SpanEvent {
	if len(events) == 0 {
		return nil
	}

	out := make([]models.SpanEvent, 0, len(events))

	for _, event := range events {
		out = append(out, models.SpanEvent{
			Name:       event.GetName(),
			Time:       timeFromUnixNano(event.GetTimeUnixNano()),
			Properties: project(event.GetAttributes(), nil, ""),
		})
	}

	return out
}

func timeFromUnixNano(ns uint64) time.Time {
	return time.Unix(0, int64(ns)).UTC()
}
