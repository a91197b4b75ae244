package mutate

import (
	"context"
	"testing"
	"time"

	"github.com/cleohq/cleo/internal/model"
)

// completeAt backdates id's completedAt timestamp directly in storage,
// since Complete() always stamps "now" and these tests need tasks that
// already cleared an age cutoff.
func completeAt(t *testing.T, c *Core, id string, when time.Time) {
	t.Helper()
	ctx := context.Background()
	if _, err := c.Complete(ctx, id, ""); err != nil {
		t.Fatalf("Complete(%s): %v", id, err)
	}
	ts := when.UTC().Format("2006-01-02T15:04:05Z")
	if err := c.Store.MutateTodo(ctx, func(todo *model.TodoFile) error {
		task := todo.FindTask(id)
		task.CompletedAt = &ts
		return nil
	}); err != nil {
		t.Fatalf("backdating %s: %v", id, err)
	}
}

func TestArchiveMovesTasksOlderThanDaysUntilArchive(t *testing.T) {
	c := newCore(t)
	ctx := context.Background()
	old, err := c.Add(ctx, "old done task", AddOptions{})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	recent, err := c.Add(ctx, "recently done task", AddOptions{})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	completeAt(t, c, old.ID, time.Now().AddDate(0, 0, -60))
	completeAt(t, c, recent.ID, time.Now().AddDate(0, 0, -1))

	moved, err := c.Archive(ctx, ArchiveFilter{DaysUntilArchive: 30})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if len(moved) != 1 || moved[0] != old.ID {
		t.Errorf("moved = %v, want only %s", moved, old.ID)
	}
}

func TestArchiveSinceCutoffOverridesDaysUntilArchive(t *testing.T) {
	c := newCore(t)
	ctx := context.Background()
	task, err := c.Add(ctx, "done a week ago", AddOptions{})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	completeAt(t, c, task.ID, time.Now().AddDate(0, 0, -7))

	// DaysUntilArchive alone wouldn't move this (30-day threshold), but
	// an explicit cutoff of 3 days ago should.
	moved, err := c.Archive(ctx, ArchiveFilter{
		DaysUntilArchive: 30,
		SinceCutoff:      time.Now().AddDate(0, 0, -3).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if len(moved) != 1 || moved[0] != task.ID {
		t.Errorf("moved = %v, want %s moved via SinceCutoff", moved, task.ID)
	}
}

func TestArchiveRejectsUnparseableSinceCutoff(t *testing.T) {
	c := newCore(t)
	_, err := c.Archive(context.Background(), ArchiveFilter{SinceCutoff: "not-a-timestamp"})
	if err == nil {
		t.Fatal("expected an error for an unparseable SinceCutoff")
	}
}

func TestArchivePreservesRecentCountRegardlessOfAge(t *testing.T) {
	c := newCore(t)
	ctx := context.Background()
	task, err := c.Add(ctx, "old but recent-ranked", AddOptions{})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	completeAt(t, c, task.ID, time.Now().AddDate(0, 0, -60))

	moved, err := c.Archive(ctx, ArchiveFilter{DaysUntilArchive: 30, PreserveRecentCount: 1})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if len(moved) != 0 {
		t.Errorf("moved = %v, want none: PreserveRecentCount should keep the only completed task", moved)
	}
}
