package progress_test

import (
	"context"
	"testing"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/platform/database/databasetest"
	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/progress"
)

func TestMemoryEventLogger_LogEvent(t *testing.T) {
	logger := progress.NewMemoryEventLogger()

	err := logger.LogEvent(context.Background(), progress.Event{
		LearnerID: "learner-1",
		EventType: progress.EventContentCompleted,
		Data:      map[string]any{"points": 10},
	})
	if err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	events := logger.Events()
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestMemoryEventLogger_Validation(t *testing.T) {
	logger := progress.NewMemoryEventLogger()
	tests := []progress.Event{
		{LearnerID: "learner-1"},
		{EventType: progress.EventContentDenied},
	}
	for _, e := range tests {
		if err := logger.LogEvent(context.Background(), e); err == nil {
			t.Errorf("LogEvent(%+v) should fail", e)
		}
	}
	if len(logger.Events()) != 0 {
		t.Error("invalid events should not be stored")
	}
}

func TestPostgresEventLogger_NilPool(t *testing.T) {
	logger := progress.NewPostgresEventLogger(nil)

	err := logger.LogEvent(context.Background(), progress.Event{
		LearnerID: "learner-1",
		EventType: progress.EventContentCompleted,
	})
	if err == nil {
		t.Fatal("expected error for nil pool")
	}
}

func TestPostgresEventLogger_LogEvent(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()
	logger := progress.NewPostgresEventLogger(db.Pool)

	err := logger.LogEvent(ctx, progress.Event{
		LearnerID: "learner-1",
		EventType: progress.EventContentDenied,
		Data:      map[string]any{"content_id": "algebra", "grade": 2},
	})
	if err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	var (
		eventType string
		contentID string
	)
	row := db.Pool.QueryRow(ctx, `SELECT event_type, data->>'content_id' FROM events WHERE learner_id = $1`, "learner-1")
	if err := row.Scan(&eventType, &contentID); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if eventType != progress.EventContentDenied || contentID != "algebra" {
		t.Errorf("event = %s/%s", eventType, contentID)
	}
}
