package otlp

import (
	"testing"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
)

func TestAdmitSpans(t *testing.T) {
	tests := []struct {
		name     string
		attrs    []*commonpb.KeyValue
		expected bool
	}{
		{
			name:     "unmarked batch passes",
			attrs:    nil,
			expected: true,
		},
		{
			name:     "marker true passes",
			attrs:    []*commonpb.KeyValue{kvBool(AttrTriggerMarker, true)},
			expected: true,
		},
		{
			name:     "marker false is dropped",
			attrs:    []*commonpb.KeyValue{kvBool(AttrTriggerMarker, false)},
			expected: false,
		},
		{
			name:     "marker with wrong tag is dropped",
			attrs:    []*commonpb.KeyValue{kvStr(AttrTriggerMarker, "true")},
			expected: false,
		},
		{
			name:     "trigger execution environment passes",
			attrs:    []*commonpb.KeyValue{kvStr(AttrExecutionEnv, ExecutionEnvTrigger)},
			expected: true,
		},
		{
			name:     "foreign execution environment is dropped",
			attrs:    []*commonpb.KeyValue{kvStr(AttrExecutionEnv, "lambda")},
			expected: false,
		},
		{
			name: "foreign environment with marker true passes",
			attrs: []*commonpb.KeyValue{
				kvStr(AttrExecutionEnv, "lambda"),
				kvBool(AttrTriggerMarker, true),
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := admitSpans(tt.attrs); got != tt.expected {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAdmitLogs(t *testing.T) {
	tests := []struct {
		name     string
		attrs    []*commonpb.KeyValue
		expected bool
	}{
		{
			name:     "unmarked batch is dropped",
			attrs:    nil,
			expected: false,
		},
		{
			name:     "marker true passes",
			attrs:    []*commonpb.KeyValue{kvBool(AttrTriggerMarker, true)},
			expected: true,
		},
		{
			name:     "marker false is dropped",
			attrs:    []*commonpb.KeyValue{kvBool(AttrTriggerMarker, false)},
			expected: false,
		},
		{
			name:     "trigger environment alone is not enough",
			attrs:    []*commonpb.KeyValue{kvStr(AttrExecutionEnv, ExecutionEnvTrigger)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := admitLogs(tt.attrs); got != tt.expected {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
