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

// Package otlp converts OTLP trace and log export requests into
// normalized task events for the task_events stream.
package otlp

// Attribute keys recognized by the pipeline. Task workers emit these on
// resources and spans; nothing here is mutated at runtime.
const (
	// Resource attributes: identity and classification.
	AttrServiceName      = "service.name"
	AttrServiceNamespace = "service.namespace"
	AttrEnvironmentID    = "ctx.environment.id"
	AttrEnvironmentType  = "ctx.environment.type"
	AttrOrganizationID   = "ctx.organization.id"
	AttrProjectID        = "ctx.project.id"
	AttrProjectRef       = "ctx.project.ref"
	AttrRunID            = "ctx.run.id"
	AttrRunIsTest        = "ctx.run.is_test"
	AttrTaskSlug         = "ctx.task.slug"

	// Resource attributes: optional attribution.
	AttrAttemptID      = "ctx.attempt.id"
	AttrAttemptNumber  = "ctx.attempt.number"
	AttrQueueID        = "ctx.queue.id"
	AttrQueueName      = "ctx.queue.name"
	AttrBatchID        = "ctx.batch.id"
	AttrIdempotencyKey = "ctx.run.idempotency_key"
	AttrMachinePreset  = "ctx.machine.preset"
	AttrMachineCPU     = "ctx.machine.cpu"
	AttrMachineMemory  = "ctx.machine.memory"
	AttrMachineRate    = "ctx.machine.cents_per_ms"
	AttrWorkerID       = "ctx.worker.id"
	AttrWorkerVersion  = "ctx.worker.version"

	// Usage metrics. Duration is read double-first with an int fallback;
	// cost is double only.
	AttrUsageDurationMs  = "usage.duration_ms"
	AttrUsageCostInCents = "usage.cost_in_cents"

	// Admission markers on the resource.
	AttrTriggerMarker   = "taskradar.trigger"
	AttrExecutionEnv    = "execution.environment"
	ExecutionEnvTrigger = "trigger"

	// Span attributes controlling identity resolution.
	AttrSpanPartial = "span.partial"
	AttrSpanID      = "span.id"

	// Attribute groups projected onto dedicated event fields. A group
	// whose payload was emitted under "<group>.<group>" (the sentinel)
	// unwraps to that single scalar.
	GroupStyle   = "style"
	GroupOutput  = "output"
	GroupPayload = "payload"

	// Payload content type; deliberately not "payload."-prefixed so it
	// stays out of the payload group.
	AttrPayloadType    = "payload_type"
	DefaultPayloadType = "application/json"

	// Prefix under which resource attributes merge into event
	// properties. Span-level "metadata.*" keys share the namespace and
	// take precedence.
	MetadataPrefix = "metadata"
)

// metadataKey returns the span-level override key for a resource
// attribute, e.g. "metadata.ctx.attempt.id".
func metadataKey(key string) string {
	return MetadataPrefix + "." + key
}
