package notes_test

import (
	"context"
	"testing"

	"fieldnote/internal/logging"
	"fieldnote/internal/notes"
	"fieldnote/internal/testsupport"
)

func newService(t *testing.T) *notes.Service {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	return notes.NewService(store, logging.NewNop())
}

func TestSaveAppendsHistory(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.Save(ctx, "p1", "draft one")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.Content != "draft one" || len(first.History) != 1 {
		t.Fatalf("unexpected notes %+v", first)
	}
	if first.Timestamp == "" {
		t.Fatal("expected timestamp")
	}

	second, err := svc.Save(ctx, "p1", "draft two")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if second.Content != "draft two" || len(second.History) != 2 {
		t.Fatalf("unexpected notes %+v", second)
	}
	if second.History[0].Content != "draft one" {
		t.Fatalf("history lost earlier revision: %+v", second.History)
	}

	loaded, found, err := svc.Load(ctx, "p1")
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	if loaded.Content != "draft two" {
		t.Fatalf("unexpected loaded content %q", loaded.Content)
	}
}

func TestUndoRestoresPreviousRevision(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Save(ctx, "p1", "draft one"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := svc.Save(ctx, "p1", "draft two"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reverted, undone, err := svc.Undo(ctx, "p1")
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !undone {
		t.Fatal("expected undo to apply")
	}
	if reverted.Content != "draft one" || len(reverted.History) != 1 {
		t.Fatalf("unexpected notes after undo %+v", reverted)
	}

	// A second undo has only one revision left and is a no-op.
	same, undone, err := svc.Undo(ctx, "p1")
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if undone {
		t.Fatal("undo with a single revision must be a no-op")
	}
	if same.Content != "draft one" {
		t.Fatalf("content changed on no-op undo: %q", same.Content)
	}
}

func TestUndoWithoutNotesIsNoop(t *testing.T) {
	svc := newService(t)

	notes, undone, err := svc.Undo(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if undone || notes.Content != "" {
		t.Fatalf("expected no-op, got undone=%v notes=%+v", undone, notes)
	}
}

func TestDeleteRemovesNotes(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Save(ctx, "p1", "draft"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := svc.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, err := svc.Load(ctx, "p1"); err != nil || found {
		t.Fatalf("expected notes gone, found=%v err=%v", found, err)
	}

	// Deleting again is not an error.
	if err := svc.Delete(ctx, "p1"); err != nil {
		t.Fatalf("repeat Delete: %v", err)
	}
}
