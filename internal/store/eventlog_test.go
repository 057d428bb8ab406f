package store

import (
	"context"
	"testing"
)

func TestEventLogAppendAndRead(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	if err := s.AppendEvent(ctx, "task.schedule.set", "task_a", map[string]any{"mode": "range"}); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := s.AppendEvent(ctx, "task.schedule.clear", "task_b", nil); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	evs, err := s.ReadEvents(ctx, 0, "")
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Type != "task.schedule.set" || evs[0].EntityID != "task_a" {
		t.Fatalf("unexpected first event: %+v", evs[0])
	}

	only, err := s.ReadEvents(ctx, 0, "task_b")
	if err != nil {
		t.Fatalf("ReadEvents filtered: %v", err)
	}
	if len(only) != 1 || only[0].EntityID != "task_b" {
		t.Fatalf("entity filter failed: %+v", only)
	}

	limited, err := s.ReadEvents(ctx, 1, "")
	if err != nil {
		t.Fatalf("ReadEvents limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit failed: %d", len(limited))
	}
}
