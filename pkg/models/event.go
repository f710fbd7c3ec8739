package models

import "time"

// EventKind classifies the role a span played in a trace.
type EventKind string

const (
	EventKindInternal EventKind = "INTERNAL"
	EventKindClient   EventKind = "CLIENT"
	EventKindServer   EventKind = "SERVER"
	EventKindConsumer EventKind = "CONSUMER"
	EventKindProducer EventKind = "PRODUCER"
)

// EventLevel is the display severity of a task event.
type EventLevel string

const (
	EventLevelTrace EventLevel = "TRACE"
	EventLevelDebug EventLevel = "DEBUG"
	EventLevelInfo  EventLevel = "INFO"
	EventLevelWarn  EventLevel = "WARN"
	EventLevelError EventLevel = "ERROR"
)

// EventStatus is the outcome recorded on a task event.
type EventStatus string

const (
	EventStatusOK    EventStatus = "OK"
	EventStatusError EventStatus = "ERROR"
	EventStatusUnset EventStatus = "UNSET"
)

// CreatableEvent is one normalized task event, ready for insertion into
// the task_events stream. Identifier fields hold lowercase hex strings.
// A nil Properties map (and nil Style/Output/Payload) means the field was
// absent on the wire; the store omits absent fields rather than writing
// empty containers.
type CreatableEvent struct {
	TraceID   string        `json:"trace_id"`
	SpanID    string        `json:"span_id"`
	ParentID  string        `json:"parent_id,omitempty"`
	Message   string        `json:"message"`
	Kind      EventKind     `json:"kind"`
	Level     EventLevel    `json:"level"`
	Status    EventStatus   `json:"status"`
	IsPartial bool          `json:"is_partial"`
	IsError   bool          `json:"is_error"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`

	Properties  map[string]any `json:"properties,omitempty"`
	Style       any            `json:"style,omitempty"`
	Output      any            `json:"output,omitempty"`
	Payload     any            `json:"payload,omitempty"`
	PayloadType string         `json:"payload_type,omitempty"`

	Links  []SpanLink  `json:"links,omitempty"`
	Events []SpanEvent `json:"events,omitempty"`

	// Identity and classification, extracted from the resource batch.
	// These default to "unknown" (or false) when the resource omits them.
	ServiceName      string `json:"service_name"`
	ServiceNamespace string `json:"service_namespace"`
	EnvironmentID    string `json:"environment_id"`
	EnvironmentType  string `json:"environment_type"`
	OrganizationID   string `json:"organization_id"`
	ProjectID        string `json:"project_id"`
	ProjectRef       string `json:"project_ref"`
	RunID            string `json:"run_id"`
	RunIsTest        bool   `json:"run_is_test"`
	TaskSlug         string `json:"task_slug"`

	// Optional attribution and usage. Nil pointers mean the attribute was
	// absent; absence survives into Nullable store columns.
	AttemptID               *string  `json:"attempt_id,omitempty"`
	AttemptNumber           *int64   `json:"attempt_number,omitempty"`
	QueueID                 *string  `json:"queue_id,omitempty"`
	QueueName               *string  `json:"queue_name,omitempty"`
	BatchID                 *string  `json:"batch_id,omitempty"`
	IdempotencyKey          *string  `json:"idempotency_key,omitempty"`
	MachinePreset           *string  `json:"machine_preset,omitempty"`
	MachinePresetCPU        *float64 `json:"machine_preset_cpu,omitempty"`
	MachinePresetMemory     *float64 `json:"machine_preset_memory,omitempty"`
	MachinePresetCentsPerMs *float64 `json:"machine_preset_cents_per_ms,omitempty"`
	UsageDurationMs         *float64 `json:"usage_duration_ms,omitempty"`
	UsageCostInCents        *float64 `json:"usage_cost_in_cents,omitempty"`
	WorkerID                *string  `json:"worker_id,omitempty"`
	WorkerVersion           *string  `json:"worker_version,omitempty"`
}

// SpanLink references another span from a task event.
type SpanLink struct {
	TraceID    string         `json:"trace_id,omitempty"`
	SpanID     string         `json:"span_id,omitempty"`
	TraceState string         `json:"trace_state,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// SpanEvent is a point-in-time annotation recorded on a span.
type SpanEvent struct {
	Name       string         `json:"name"`
	Time       time.Time      `json:"time"`
	Properties map[string]any `json:"properties,omitempty"`
}
