package telemetrysvc

import (
	"context"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LogsService is the OTLP logs collector surface.
type LogsService struct {
	collogspb.UnimplementedLogsServiceServer

	server *Server
}

// NewLogsService creates the logs collector backed by the server's
// exporter.
func NewLogsService(s *Server) *LogsService {
	return &LogsService{server: s}
}

// Export normalizes one logs export request into task events.
func (l *LogsService) Export(ctx context.Context, req *collogspb.ExportLogsServiceRequest) (*collogspb.ExportLogsServiceResponse, error) {
	resp, err := l.server.exporter.ExportLogs(ctx, req, l.server.immediateMode(ctx))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to export logs: %v", err)
	}

	return resp, nil
}
