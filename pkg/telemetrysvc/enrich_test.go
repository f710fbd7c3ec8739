package telemetrysvc

import (
	"context"
	"testing"

	"github.com/carverauto/taskradar/pkg/models"
)

func fptr(v float64) *float64 { return &v }

func TestCostEnricherComputesCost(t *testing.T) {
	t.Parallel()

	events := []*models.CreatableEvent{
		{
			Message:                 "run-task",
			UsageDurationMs:         fptr(1500),
			MachinePresetCentsPerMs: fptr(0.5),
		},
	}

	enriched, err := NewCostEnricher().Enrich(context.Background(), events)
	if err != nil {
		t.Fatalf("Enrich error: %v", err)
	}

	if len(enriched) != 1 {
		t.Fatalf("expected 1 event, got %d", len(enriched))
	}

	if enriched[0].UsageCostInCents == nil {
		t.Fatal("expected usage cost to be set")
	}

	if got := *enriched[0].UsageCostInCents; got != 750 {
		t.Fatalf("usage cost = %v, want 750", got)
	}
}

func TestCostEnricherPreservesExistingCost(t *testing.T) {
	t.Parallel()

	events := []*models.CreatableEvent{
		{
			UsageDurationMs:         fptr(1500),
			MachinePresetCentsPerMs: fptr(0.5),
			UsageCostInCents:        fptr(12),
		},
	}

	if _, err := NewCostEnricher().Enrich(context.Background(), events); err != nil {
		t.Fatalf("Enrich error: %v", err)
	}

	if got := *events[0].UsageCostInCents; got != 12 {
		t.Fatalf("usage cost = %v, want reported 12 preserved", got)
	}
}

func TestCostEnricherSkipsIncompleteInputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event *models.CreatableEvent
	}{
		{"no usage at all", &models.CreatableEvent{Message: "plain"}},
		{"duration only", &models.CreatableEvent{UsageDurationMs: fptr(100)}},
		{"rate only", &models.CreatableEvent{MachinePresetCentsPerMs: fptr(0.25)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewCostEnricher().Enrich(context.Background(), []*models.CreatableEvent{tc.event}); err != nil {
				t.Fatalf("Enrich error: %v", err)
			}

			if tc.event.UsageCostInCents != nil {
				t.Fatalf("usage cost = %v, want nil", *tc.event.UsageCostInCents)
			}
		})
	}
}

func TestCostEnricherToleratesNilEntries(t *testing.T) {
	t.Parallel()

	events := []*models.CreatableEvent{nil, {UsageDurationMs: fptr(10), MachinePresetCentsPerMs: fptr(2)}}

	enriched, err := NewCostEnricher().Enrich(context.Background(), events)
	if err != nil {
		t.Fatalf("Enrich error: %v", err)
	}

	if got := *enriched[1].UsageCostInCents; got != 20 {
		t.Fatalf("usage cost = %v, want 20", got)
	}
}

func TestNoopEnricherReturnsSameSlice(t *testing.T) {
	t.Parallel()

	events := []*models.CreatableEvent{{Message: "untouched"}}

	enriched, err := (&NoopEnricher{}).Enrich(context.Background(), events)
	if err != nil {
		t.Fatalf("Enrich error: %v", err)
	}

	if &enriched[0] != &events[0] {
		t.Fatal("expected the input slice back")
	}

	if enriched[0].UsageCostInCents != nil {
		t.Fatal("noop enricher modified an event")
	}
}
