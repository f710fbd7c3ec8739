package db

import (
	"testing"
	"time"

	"github.com/carverauto/taskradar/pkg/models"
)

func TestJSONColumn_AbsentValueStoresEmpty(t *testing.T) {
	t.Parallel()

	if got := jsonColumn(nil); got != "" {
		t.Fatalf("jsonColumn(nil)=%q, want empty string", got)
	}
}

func TestJSONColumn_EncodesValue(t *testing.T) {
	t.Parallel()

	if got := jsonColumn(map[string]any{"attempt": int64(3)}); got != `{"attempt":3}` {
		t.Fatalf("jsonColumn=%q, want %q", got, `{"attempt":3}`)
	}

	if got := jsonColumn("retrying"); got != `"retrying"` {
		t.Fatalf("jsonColumn=%q, want %q", got, `"retrying"`)
	}
}

func TestJSONColumn_EmptyContainersSurvive(t *testing.T) {
	t.Parallel()

	// An empty group that was present on the wire is not the same as an
	// absent one; it stores as an empty object.
	if got := jsonColumn(map[string]any{}); got != "{}" {
		t.Fatalf("jsonColumn(empty map)=%q, want %q", got, "{}")
	}
}

func TestPropertiesColumn_NilMapStoresEmpty(t *testing.T) {
	t.Parallel()

	// A nil map passed through any would marshal to "null"; the typed
	// helper must catch it first.
	var properties map[string]any

	if got := propertiesColumn(properties); got != "" {
		t.Fatalf("propertiesColumn(nil)=%q, want empty string", got)
	}

	if got := propertiesColumn(map[string]any{"task.slug": "send-email"}); got != `{"task.slug":"send-email"}` {
		t.Fatalf("propertiesColumn=%q, want %q", got, `{"task.slug":"send-email"}`)
	}
}

func TestLinksColumn_NilSliceStoresEmpty(t *testing.T) {
	t.Parallel()

	var links []models.SpanLink

	if got := linksColumn(links); got != "" {
		t.Fatalf("linksColumn(nil)=%q, want empty string", got)
	}

	got := linksColumn([]models.SpanLink{{TraceID: "aa", SpanID: "bb"}})
	want := `[{"trace_id":"aa","span_id":"bb"}]`

	if got != want {
		t.Fatalf("linksColumn=%q, want %q", got, want)
	}
}

func TestEventsColumn_NilSliceStoresEmpty(t *testing.T) {
	t.Parallel()

	var spanEvents []models.SpanEvent

	if got := eventsColumn(spanEvents); got != "" {
		t.Fatalf("eventsColumn(nil)=%q, want empty string", got)
	}

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	got := eventsColumn([]models.SpanEvent{{Name: "cache.miss", Time: at}})
	want := `[{"name":"cache.miss","time":"2025-06-01T12:00:00Z"}]`

	if got != want {
		t.Fatalf("eventsColumn=%q, want %q", got, want)
	}
}
