package memory

import (
	"context"
	"testing"
	"time"

	"cashbook/internal/core"
)

func receiveSnapshot(t *testing.T, ch <-chan []core.Entry) []core.Entry {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestWatchDeliversInitialSnapshot(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := s.Create(ctx, core.Entry{Type: core.CashIn, Amount: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	snap := receiveSnapshot(t, ch)
	if len(snap) != 1 {
		t.Fatalf("initial snapshot has %d entries, want 1", len(snap))
	}
	if snap[0].ID == "" {
		t.Error("store must assign an id on create")
	}
}

func TestMutationsPushFullSnapshots(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	receiveSnapshot(t, ch) // empty initial

	id, err := s.Create(ctx, core.Entry{Type: core.CashIn, Amount: 5, Date: "2024-01-01", Time: "10:00"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	snap := receiveSnapshot(t, ch)
	if len(snap) != 1 {
		t.Fatalf("snapshot after create has %d entries, want 1", len(snap))
	}

	update := core.Entry{Type: core.CashIn, Amount: 99, Date: "1999-09-09", Time: "23:59"}
	if err := s.Update(ctx, id, update); err != nil {
		t.Fatalf("update: %v", err)
	}
	snap = receiveSnapshot(t, ch)
	if snap[0].Amount != 99 {
		t.Errorf("amount not updated: %v", snap[0].Amount)
	}
	if snap[0].Date != "2024-01-01" || snap[0].Time != "10:00" {
		t.Errorf("date/time must survive updates, got %s %s", snap[0].Date, snap[0].Time)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	snap = receiveSnapshot(t, ch)
	if len(snap) != 0 {
		t.Errorf("snapshot after delete has %d entries, want 0", len(snap))
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s := New()
	if err := s.Update(context.Background(), "nope", core.Entry{}); err == nil {
		t.Error("expected error updating unknown id")
	}
	if err := s.Delete(context.Background(), "nope"); err == nil {
		t.Error("expected error deleting unknown id")
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	receiveSnapshot(t, ch)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			// A snapshot may still be buffered; the next read must observe close.
			if _, ok := <-ch; ok {
				t.Error("channel still open after cancel")
			}
		}
	case <-time.After(time.Second):
		t.Error("channel not closed after cancel")
	}
}
