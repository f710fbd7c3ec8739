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

//go:generate mockgen -destination=mock_exporter.go -package=telemetrysvc github.com/carverauto/taskradar/pkg/telemetrysvc Exporter

package telemetrysvc

import (
	"context"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
)

// Exporter normalizes OTLP export requests into stored task events. The
// immediate flag selects the unbuffered store path.
type Exporter interface {
	ExportTraces(ctx context.Context, req *coltracepb.ExportTraceServiceRequest, immediate bool) (*coltracepb.ExportTraceServiceResponse, error)
	ExportLogs(ctx context.Context, req *collogspb.ExportLogsServiceRequest, immediate bool) (*collogspb.ExportLogsServiceResponse, error)
}
