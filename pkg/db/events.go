package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/timeplus-io/proton-go-driver/v2/lib/driver"

	"github.com/carverauto/taskradar/pkg/models"
)

// InsertEventsImmediate writes events to the task_events stream in a
// single batch, bypassing the write buffer.
func (db *DB) InsertEventsImmediate(ctx context.Context, events []*models.CreatableEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := db.Conn.PrepareBatch(ctx, "INSERT INTO task_events (* except _tp_time)")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, event := range events {
		if event == nil {
			continue
		}

		if err := appendEvent(batch, event); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	return nil
}

// appendEvent appends one event to the batch. Column order must match the
// task_events stream definition in migrations/schema.sql.
func appendEvent(batch driver.Batch, event *models.CreatableEvent) error {
	return batch.Append(
		event.TraceID,
		event.SpanID,
		event.ParentID,
		event.Message,
		string(event.Kind),
		string(event.Level),
		string(event.Status),
		event.IsPartial,
		event.IsError,
		event.StartTime,
		int64(event.Duration),
		propertiesColumn(event.Properties),
		jsonColumn(event.Style),
		jsonColumn(event.Output),
		jsonColumn(event.Payload),
		event.PayloadType,
		linksColumn(event.Links),
		eventsColumn(event.Events),
		event.ServiceName,
		event.ServiceNamespace,
		event.EnvironmentID,
		event.EnvironmentType,
		event.OrganizationID,
		event.ProjectID,
		event.ProjectRef,
		event.RunID,
		event.RunIsTest,
		event.TaskSlug,
		event.AttemptID,
		event.AttemptNumber,
		event.QueueID,
		event.QueueName,
		event.BatchID,
		event.IdempotencyKey,
		event.MachinePreset,
		event.MachinePresetCPU,
		event.MachinePresetMemory,
		event.MachinePresetCentsPerMs,
		event.UsageDurationMs,
		event.UsageCostInCents,
		event.WorkerID,
		event.WorkerVersion,
	)
}

// jsonColumn encodes a decoded attribute group for a string column. A nil
// value means the group was absent on the wire and stores as the empty
// string, never as "null" or an empty container.
func jsonColumn(v any) string {
	if v == nil {
		return ""
	}

	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}

	return string(data)
}

func propertiesColumn(properties map[string]any) string {
	if properties == nil {
		return ""
	}

	return jsonColumn(properties)
}

func linksColumn(links []models.SpanLink) string {
	if links == nil {
		return ""
	}

	return jsonColumn(links)
}

func eventsColumn(events []models.SpanEvent) string {
	if events == nil {
		return ""
	}

	return jsonColumn(events)
}
