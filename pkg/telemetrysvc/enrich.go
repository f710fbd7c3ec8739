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

package telemetrysvc

import (
	"context"

	"github.com/carverauto/taskradar/pkg/models"
	"github.com/carverauto/taskradar/pkg/otlp"
)

// CostEnricher fills in usage cost for events that report a usage
// duration and a machine-preset rate but no cost of their own. Workers
// on older SDKs report duration and rate separately and leave the
// multiplication to the server.
type CostEnricher struct{}

// NewCostEnricher creates the enricher.
func NewCostEnricher() *CostEnricher {
	return &CostEnricher{}
}

// Enrich computes usageCostInCents = usageDurationMs * centsPerMs for
// eligible events, in place. Events with a cost already set, or missing
// either input, pass through untouched.
func (*CostEnricher) Enrich(_ context.Context, events []*models.CreatableEvent) ([]*models.CreatableEvent, error) {
	for _, event := range events {
		if event == nil || event.UsageCostInCents != nil {
			continue
		}

		if event.UsageDurationMs == nil || event.MachinePresetCentsPerMs == nil {
			continue
		}

		cost := *event.UsageDurationMs * *event.MachinePresetCentsPerMs
		event.UsageCostInCents = &cost
	}

	return events, nil
}

// NoopEnricher passes batches through unmodified.
type NoopEnricher struct{}

func (*NoopEnricher) Enrich(_ context.Context, events []*models.CreatableEvent) ([]*models.CreatableEvent, error) {
	return events, nil
}

var (
	_ otlp.Enricher = (*CostEnricher)(nil)
	_ otlp.Enricher = (*NoopEnricher)(nil)
)
