package otlp

import (
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/carverauto/taskradar/pkg/models"
)

// eventKindFromSpanKind translates the wire span kind. Unrecognized
// kinds (including unspecified) land on INTERNAL.
func eventKindFromSpanKind(kind tracepb.Span_SpanKind) models.EventKind {
	switch kind {
	case tracepb.Span_SPAN_KIND_CLIENT:
		return models.EventKindClient
	case tracepb.Span_SPAN_KIND_SERVER:
		return models.EventKindServer
	case tracepb.Span_SPAN_KIND_CONSUMER:
		return models.EventKindConsumer
	case tracepb.Span_SPAN_KIND_PRODUCER:
		return models.EventKindProducer
	case tracepb.Span_SPAN_KIND_INTERNAL:
		return models.EventKindInternal
	default:
		return models.EventKindInternal
	}
}

// eventStatusFromStatusCode translates the wire status code.
// Unrecognized codes land on UNSET.
func eventStatusFromStatusCode(code tracepb.Status_StatusCode) models.EventStatus {
	switch code {
	case tracepb.Status_STATUS_CODE_OK:
		return models.EventStatusOK
	case tracepb.Status_STATUS_CODE_ERROR:
		return models.EventStatusError
	case tracepb.Status_STATUS_CODE_UNSET:
		return models.EventStatusUnset
	default:
		return models.EventStatusUnset
	}
}

// eventLevelFromSeverity buckets the 24 wire severities into display
// levels. ERROR and FATAL ranges both collapse to ERROR; anything
// unrecognized is INFO.
func eventLevelFromSeverity(sev logspb.SeverityNumber) models.EventLevel {
	switch {
	case sev >= logspb.SeverityNumber_SEVERITY_NUMBER_TRACE && sev <= logspb.SeverityNumber_SEVERITY_NUMBER_TRACE4:
		return models.EventLevelTrace
	case sev >= logspb.SeverityNumber_SEVERITY_NUMBER_DEBUG && sev <= logspb.SeverityNumber_SEVERITY_NUMBER_DEBUG4:
		return models.EventLevelDebug
	case sev >= logspb.SeverityNumber_SEVERITY_NUMBER_INFO && sev <= logspb.SeverityNumber_SEVERITY_NUMBER_INFO4:
		return models.EventLevelInfo
	case sev >= logspb.SeverityNumber_SEVERITY_NUMBER_WARN && sev <= logspb.SeverityNumber_SEVERITY_NUMBER_WARN4:
		return models.EventLevelWarn
	case sev >= logspb.SeverityNumber_SEVERITY_NUMBER_ERROR && sev <= logspb.SeverityNumber_SEVERITY_NUMBER_FATAL4:
		return models.EventLevelError
	default:
		return models.EventLevelInfo
	}
}

// eventStatusFromSeverity marks ERROR and FATAL ranges as failed;
// everything else, unrecognized included, is OK.
func eventStatusFromSeverity(sev logspb.SeverityNumber) models.EventStatus {
	if sev >= logspb.SeverityNumber_SEVERITY_NUMBER_ERROR && sev <= logspb.SeverityNumber_SEVERITY_NUMBER_FATAL4 {
		return models.EventStatusError
	}

	return models.EventStatusOK
}
