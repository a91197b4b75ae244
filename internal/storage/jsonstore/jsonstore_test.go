package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/storage"
)

func TestLoadTodoLazilyCreatesOnFirstRead(t *testing.T) {
	root := t.TempDir()
	a := New(root)
	ctx := context.Background()

	todo, err := a.LoadTodo(ctx)
	if err != nil {
		t.Fatalf("LoadTodo: %v", err)
	}
	if len(todo.Tasks) != 0 {
		t.Errorf("expected an empty fresh TodoFile, got %+v", todo.Tasks)
	}
	layout := paths.NewLayout(root)
	if _, err := os.Stat(layout.TodoFile); err != nil {
		t.Errorf("expected todo.json to exist on disk after LoadTodo, got %v", err)
	}
}

func TestMutateTodoPersistsAcrossInstances(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	a := New(root)
	if err := a.MutateTodo(ctx, func(todo *model.TodoFile) error {
		todo.Tasks = append(todo.Tasks, &model.Task{ID: "T1", Title: "first"})
		return nil
	}); err != nil {
		t.Fatalf("MutateTodo: %v", err)
	}

	b := New(root)
	todo, err := b.LoadTodo(ctx)
	if err != nil {
		t.Fatalf("LoadTodo from a fresh Accessor: %v", err)
	}
	if len(todo.Tasks) != 1 || todo.Tasks[0].ID != "T1" {
		t.Errorf("got %+v, want the persisted task visible to a new Accessor", todo.Tasks)
	}
}

func TestMutateTodoPropagatesFnError(t *testing.T) {
	root := t.TempDir()
	a := New(root)
	ctx := context.Background()

	sentinel := os.ErrPermission
	err := a.MutateTodo(ctx, func(todo *model.TodoFile) error {
		return sentinel
	})
	if err != sentinel {
		t.Errorf("expected the transform's error to propagate, got %v", err)
	}

	// And the file must be untouched by the aborted mutation.
	layout := paths.NewLayout(root)
	data, readErr := os.ReadFile(layout.TodoFile)
	if readErr != nil {
		t.Fatalf("ReadFile: %v", readErr)
	}
	var todo model.TodoFile
	if err := json.Unmarshal(data, &todo); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(todo.Tasks) != 0 {
		t.Errorf("expected no tasks written after an aborted mutation, got %+v", todo.Tasks)
	}
}

func TestMutateTodoAndArchiveWritesBothDocuments(t *testing.T) {
	root := t.TempDir()
	a := New(root)
	ctx := context.Background()

	err := a.MutateTodoAndArchive(ctx, func(todo *model.TodoFile, archive *model.ArchiveFile) error {
		todo.Tasks = append(todo.Tasks, &model.Task{ID: "T1"})
		archive.Tasks = append(archive.Tasks, &model.Task{ID: "T0"})
		return nil
	})
	if err != nil {
		t.Fatalf("MutateTodoAndArchive: %v", err)
	}

	todo, err := a.LoadTodo(ctx)
	if err != nil {
		t.Fatalf("LoadTodo: %v", err)
	}
	archive, err := a.LoadArchive(ctx)
	if err != nil {
		t.Fatalf("LoadArchive: %v", err)
	}
	if len(todo.Tasks) != 1 || len(archive.Tasks) != 1 {
		t.Errorf("expected both documents written, got todo=%+v archive=%+v", todo.Tasks, archive.Tasks)
	}
}

func TestQueryDoesNotMutate(t *testing.T) {
	root := t.TempDir()
	a := New(root)
	ctx := context.Background()
	if err := a.MutateTodo(ctx, func(todo *model.TodoFile) error {
		todo.Tasks = append(todo.Tasks, &model.Task{ID: "T1"})
		return nil
	}); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	var seen int
	if err := a.Query(ctx, func(todo *model.TodoFile) error {
		seen = len(todo.Tasks)
		todo.Tasks = nil // mutating the passed-in copy must not affect storage
		return nil
	}); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if seen != 1 {
		t.Errorf("Query saw %d tasks, want 1", seen)
	}

	todo, err := a.LoadTodo(ctx)
	if err != nil {
		t.Fatalf("LoadTodo: %v", err)
	}
	if len(todo.Tasks) != 1 {
		t.Errorf("Query's mutation of its local copy leaked into storage: %+v", todo.Tasks)
	}
}

func TestEngineReportsJSON(t *testing.T) {
	a := New(t.TempDir())
	if a.Engine() != storage.EngineJSON {
		t.Errorf("Engine() = %v", a.Engine())
	}
}

func TestLayoutFilesLiveUnderMarkerDir(t *testing.T) {
	root := t.TempDir()
	a := New(root)
	if filepath.Dir(a.layout.TodoFile) != a.layout.StateDir {
		t.Errorf("TodoFile not under StateDir: %q", a.layout.TodoFile)
	}
}
