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

	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TraceService is the OTLP trace collector surface.
type TraceService struct {
	coltracepb.UnimplementedTraceServiceServer

	server *Server
}

// NewTraceService creates the trace collector backed by the server's
// exporter.
func NewTraceService(s *Server) *TraceService {
	return &TraceService{server: s}
}

// Export normalizes one trace export request into task events.
func (t *TraceService) Export(ctx context.Context, req *coltracepb.ExportTraceServiceRequest) (*coltracepb.ExportTraceServiceResponse, error) {
	resp, err := t.server.exporter.ExportTraces(ctx, req, t.server.immediateMode(ctx))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to export traces: %v", err)
	}

	return resp, nil
}
