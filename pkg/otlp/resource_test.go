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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
)

func TestExtractResourcePropertiesDefaults(t *testing.T) {
	props := extractResourceProperties(nil)

	assert.Equal(t, unknownValue, props.serviceName)
	assert.Equal(t, unknownValue, props.serviceNamespace)
	assert.Equal(t, unknownValue, props.environmentID)
	assert.Equal(t, unknownValue, props.environmentType)
	assert.Equal(t, unknownValue, props.organizationID)
	assert.Equal(t, unknownValue, props.projectID)
	assert.Equal(t, unknownValue, props.projectRef)
	assert.Equal(t, unknownValue, props.runID)
	assert.Equal(t, unknownValue, props.taskSlug)
	assert.False(t, props.runIsTest)

	assert.Nil(t, props.attemptID)
	assert.Nil(t, props.attemptNumber)
	assert.Nil(t, props.queueID)
	assert.Nil(t, props.queueName)
	assert.Nil(t, props.batchID)
	assert.Nil(t, props.idempotencyKey)
	assert.Nil(t, props.machinePreset)
	assert.Nil(t, props.machinePresetCPU)
	assert.Nil(t, props.machinePresetMemory)
	assert.Nil(t, props.machinePresetCentsPerMs)
	assert.Nil(t, props.usageDurationMs)
	assert.Nil(t, props.usageCostInCents)
	assert.Nil(t, props.workerID)
	assert.Nil(t, props.workerVersion)
}

func TestExtractResourcePropertiesFullBatch(t *testing.T) {
	attrs := []*commonpb.KeyValue{
		kvStr(AttrServiceName, "worker"),
		kvStr(AttrServiceNamespace, "prod"),
		kvStr(AttrEnvironmentID, "env_1"),
		kvStr(AttrEnvironmentType, "PRODUCTION"),
		kvStr(AttrOrganizationID, "org_1"),
		kvStr(AttrProjectID, "proj_1"),
		kvStr(AttrProjectRef, "proj_ref_1"),
		kvStr(AttrRunID, "run_1"),
		kvBool(AttrRunIsTest, true),
		kvStr(AttrTaskSlug, "send-email"),
		kvStr(AttrAttemptID, "attempt_1"),
		kvInt(AttrAttemptNumber, 3),
		kvStr(AttrQueueID, "queue_1"),
		kvStr(AttrQueueName, "default"),
		kvStr(AttrBatchID, "batch_1"),
		kvStr(AttrIdempotencyKey, "idem_1"),
		kvStr(AttrMachinePreset, "small-1x"),
		kvDouble(AttrMachineCPU, 0.5),
		kvDouble(AttrMachineMemory, 0.25),
		kvDouble(AttrMachineRate, 0.0001),
		kvDouble(AttrUsageDurationMs, 125.5),
		kvDouble(AttrUsageCostInCents, 0.02),
		kvStr(AttrWorkerID, "worker_1"),
		kvStr(AttrWorkerVersion, "20250801.1"),
	}

	props := extractResourceProperties(attrs)

	assert.Equal(t, "worker", props.serviceName)
	assert.Equal(t, "prod", props.serviceNamespace)
	assert.Equal(t, "env_1", props.environmentID)
	assert.Equal(t, "PRODUCTION", props.environmentType)
	assert.Equal(t, "org_1", props.organizationID)
	assert.Equal(t, "proj_1", props.projectID)
	assert.Equal(t, "proj_ref_1", props.projectRef)
	assert.Equal(t, "run_1", props.runID)
	assert.True(t, props.runIsTest)
	assert.Equal(t, "send-email", props.taskSlug)

	require.NotNil(t, props.attemptID)
	assert.Equal(t, "attempt_1", *props.attemptID)
	require.NotNil(t, props.attemptNumber)
	assert.Equal(t, int64(3), *props.attemptNumber)
	require.NotNil(t, props.queueID)
	assert.Equal(t, "queue_1", *props.queueID)
	require.NotNil(t, props.queueName)
	assert.Equal(t, "default", *props.queueName)
	require.NotNil(t, props.batchID)
	assert.Equal(t, "batch_1", *props.batchID)
	require.NotNil(t, props.idempotencyKey)
	assert.Equal(t, "idem_1", *props.idempotencyKey)
	require.NotNil(t, props.machinePreset)
	assert.Equal(t, "small-1x", *props.machinePreset)
	require.NotNil(t, props.machinePresetCPU)
	assert.InDelta(t, 0.5, *props.machinePresetCPU, 0)
	require.NotNil(t, props.machinePresetMemory)
	assert.InDelta(t, 0.25, *props.machinePresetMemory, 0)
	require.NotNil(t, props.machinePresetCentsPerMs)
	assert.InDelta(t, 0.0001, *props.machinePresetCentsPerMs, 0)
	require.NotNil(t, props.usageDurationMs)
	assert.InDelta(t, 125.5, *props.usageDurationMs, 0)
	require.NotNil(t, props.usageCostInCents)
	assert.InDelta(t, 0.02, *props.usageCostInCents, 0)
	require.NotNil(t, props.workerID)
	assert.Equal(t, "worker_1", *props.workerID)
	require.NotNil(t, props.workerVersion)
	assert.Equal(t, "20250801.1", *props.workerVersion)
}

func TestUsageDurationIntFallback(t *testing.T) {
	props := extractResourceProperties([]*commonpb.KeyValue{
		kvInt(AttrUsageDurationMs, 200),
	})

	require.NotNil(t, props.usageDurationMs)
	assert.InDelta(t, 200.0, *props.usageDurationMs, 0)
}

func TestUsageDurationPrefersDouble(t *testing.T) {
	props := extractResourceProperties([]*commonpb.KeyValue{
		kvDouble(AttrUsageDurationMs, 100.5),
		kvInt(AttrUsageDurationMs, 200),
	})

	require.NotNil(t, props.usageDurationMs)
	assert.InDelta(t, 100.5, *props.usageDurationMs, 0)
}

func TestUsageCostHasNoIntFallback(t *testing.T) {
	props := extractResourceProperties([]*commonpb.KeyValue{
		kvInt(AttrUsageCostInCents, 2),
	})

	assert.Nil(t, props.usageCostInCents)
}

func TestRunIsTestWrongTagStaysFalse(t *testing.T) {
	props := extractResourceProperties([]*commonpb.KeyValue{
		kvStr(AttrRunIsTest, "true"),
	})

	assert.False(t, props.runIsTest)
}
