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
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
)

// unknownValue is the default for identity fields a resource omits.
const unknownValue = "unknown"

// resourceProperties is the fixed field set extracted once per resource
// batch and merged into every event produced from that batch. Identity
// fields default to "unknown"; optional fields stay nil when absent.
type resourceProperties struct {
	serviceName      string
	serviceNamespace string
	environmentID    string
	environmentType  string
	organizationID   string
	projectID        string
	projectRef       string
	runID            string
	runIsTest        bool
	taskSlug         string

	attemptID               *string
	attemptNumber           *int64
	queueID                 *string
	queueName               *string
	batchID                 *string
	idempotencyKey          *string
	machinePreset           *string
	machinePresetCPU        *float64
	machinePresetMemory     *float64
	machinePresetCentsPerMs *float64
	usageDurationMs         *float64
	usageCostInCents        *float64
	workerID                *string
	workerVersion           *string
}

// extractResourceProperties pulls the named field set from a resource's
// attribute list. It is pure: no side effects, no retained references.
func extractResourceProperties(attrs []*commonpb.KeyValue) *resourceProperties {
	props := &resourceProperties{
		serviceName:      stringOrUnknown(attrs, AttrServiceName),
		serviceNamespace: stringOrUnknown(attrs, AttrServiceNamespace),
		environmentID:    stringOrUnknown(attrs, AttrEnvironmentID),
		environmentType:  stringOrUnknown(attrs, AttrEnvironmentType),
		organizationID:   stringOrUnknown(attrs, AttrOrganizationID),
		projectID:        stringOrUnknown(attrs, AttrProjectID),
		projectRef:       stringOrUnknown(attrs, AttrProjectRef),
		runID:            stringOrUnknown(attrs, AttrRunID),
		taskSlug:         stringOrUnknown(attrs, AttrTaskSlug),

		attemptID:      optionalString(attrs, AttrAttemptID),
		attemptNumber:  optionalInt(attrs, AttrAttemptNumber),
		queueID:        optionalString(attrs, AttrQueueID),
		queueName:      optionalString(attrs, AttrQueueName),
		batchID:        optionalString(attrs, AttrBatchID),
		idempotencyKey: optionalString(attrs, AttrIdempotencyKey),
		machinePreset:  optionalString(attrs, AttrMachinePreset),

		machinePresetCPU:        optionalDouble(attrs, AttrMachineCPU),
		machinePresetMemory:     optionalDouble(attrs, AttrMachineMemory),
		machinePresetCentsPerMs: optionalDouble(attrs, AttrMachineRate),

		usageDurationMs:  usageDuration(attrs),
		usageCostInCents: optionalDouble(attrs, AttrUsageCostInCents),

		workerID:      optionalString(attrs, AttrWorkerID),
		workerVersion: optionalString(attrs, AttrWorkerVersion),
	}

	if isTest, ok := attrBool(attrs, AttrRunIsTest); ok {
		props.runIsTest = isTest
	}

	return props
}

// usageDuration reads the usage duration, preferring the double variant
// and falling back to an int variant of the same key.
func usageDuration(attrs []*commonpb.KeyValue) *float64 {
	if d, ok := attrDouble(attrs, AttrUsageDurationMs); ok {
		return &d
	}

	if i, ok := attrInt(attrs, AttrUsageDurationMs); ok {
		f := float64(i)
		return &f
	}

	return nil
}

func stringOrUnknown(attrs []*commonpb.KeyValue, key string) string {
	if s, ok := attrString(attrs, key); ok {
		return s
	}

	return unknownValue
}

func optionalString(attrs []*commonpb.KeyValue, key string) *string {
	if s, ok := attrString(attrs, key); ok {
		return &s
	}

	return nil
}

func optionalInt(attrs []*commonpb.KeyValue, key string) *int64 {
	if i, ok := attrInt(attrs, key); ok {
		return &i
	}

	return nil
}

func optionalDouble(attrs []*commonpb.KeyValue, key string) *float64 {
	if d, ok := attrDouble(attrs, key); ok {
		return &d
	}

	return nil
}
