package migrate

import (
	"context"
	"testing"

	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/storage"
	_ "github.com/cleohq/cleo/internal/storage/jsonstore"
)

func newAccessor(t *testing.T) storage.Accessor {
	t.Helper()
	a, err := storage.New(storage.Config{Engine: storage.EngineJSON, Root: t.TempDir()})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestMigrateCopiesAllAggregates(t *testing.T) {
	ctx := context.Background()
	src := newAccessor(t)
	dst := newAccessor(t)

	if err := src.MutateTodo(ctx, func(todo *model.TodoFile) error {
		todo.Tasks = append(todo.Tasks, &model.Task{ID: "T1", Title: "one"})
		return nil
	}); err != nil {
		t.Fatalf("seeding todo: %v", err)
	}
	if err := src.MutateArchive(ctx, func(a *model.ArchiveFile) error {
		a.Tasks = append(a.Tasks, &model.Task{ID: "T0", Title: "archived"})
		return nil
	}); err != nil {
		t.Fatalf("seeding archive: %v", err)
	}
	if err := src.MutateSessions(ctx, func(s *model.SessionsFile) error {
		s.Sessions = append(s.Sessions, &model.Session{ID: "S1"})
		return nil
	}); err != nil {
		t.Fatalf("seeding sessions: %v", err)
	}

	result, err := Migrate(ctx, src, dst)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if result.TasksMigrated != 1 || result.ArchivedMigrated != 1 || result.SessionsMigrated != 1 {
		t.Errorf("got %+v", result)
	}
	if !result.ChecksumMatch {
		t.Error("expected ChecksumMatch after a clean migration")
	}

	dstTodo, err := dst.LoadTodo(ctx)
	if err != nil {
		t.Fatalf("LoadTodo(dst): %v", err)
	}
	if len(dstTodo.Tasks) != 1 || dstTodo.Tasks[0].ID != "T1" {
		t.Errorf("got %+v", dstTodo.Tasks)
	}
}

func TestPreflightRefusesMismatchedNonEmptyDestination(t *testing.T) {
	ctx := context.Background()
	src := newAccessor(t)
	dst := newAccessor(t)

	if err := src.MutateTodo(ctx, func(todo *model.TodoFile) error {
		todo.Tasks = append(todo.Tasks, &model.Task{ID: "T1"})
		return nil
	}); err != nil {
		t.Fatalf("seeding src: %v", err)
	}
	if err := dst.MutateTodo(ctx, func(todo *model.TodoFile) error {
		todo.Tasks = append(todo.Tasks, &model.Task{ID: "T2"})
		return nil
	}); err != nil {
		t.Fatalf("seeding dst: %v", err)
	}

	if err := Preflight(ctx, src, dst); err == nil {
		t.Fatal("expected Preflight to refuse a mismatched non-empty destination")
	}
}

func TestPreflightAllowsEmptyDestination(t *testing.T) {
	ctx := context.Background()
	src := newAccessor(t)
	dst := newAccessor(t)
	if err := Preflight(ctx, src, dst); err != nil {
		t.Errorf("expected Preflight to allow an empty destination, got %v", err)
	}
}

func TestPreflightAllowsDestinationAlreadyCaughtUp(t *testing.T) {
	ctx := context.Background()
	src := newAccessor(t)
	dst := newAccessor(t)

	seed := func(a storage.Accessor) {
		if err := a.MutateTodo(ctx, func(todo *model.TodoFile) error {
			todo.Tasks = append(todo.Tasks, &model.Task{ID: "T1", Title: "same"})
			return nil
		}); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}
	seed(src)
	seed(dst)

	if err := Preflight(ctx, src, dst); err != nil {
		t.Errorf("expected Preflight to allow a destination already matching the source, got %v", err)
	}
}
