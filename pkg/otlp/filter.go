package otlp

import (
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
)

// admitSpans decides whether a resource batch of spans passes admission.
// Unmarked batches pass: spans are the primary channel and carry the
// platform's own instrumentation, which sets no marker. A batch running
// inside the trigger execution environment passes; otherwise the
// trigger marker must be boolean true.
func admitSpans(resourceAttrs []*commonpb.KeyValue) bool {
	_, hasMarker := attrValue(resourceAttrs, AttrTriggerMarker)
	_, hasEnv := attrValue(resourceAttrs, AttrExecutionEnv)

	if !hasMarker && !hasEnv {
		return true
	}

	if env, ok := attrString(resourceAttrs, AttrExecutionEnv); ok && env == ExecutionEnvTrigger {
		return true
	}

	marked, ok := attrBool(resourceAttrs, AttrTriggerMarker)

	return ok && marked
}

// admitLogs decides whether a resource batch of log records passes
// admission. Logs are opt-in: the trigger marker must be present and
// boolean true, so unmarked batches are dropped.
func admitLogs(resourceAttrs []*commonpb.KeyValue) bool {
	marked, ok := attrBool(resourceAttrs, AttrTriggerMarker)

	return ok && marked
}
