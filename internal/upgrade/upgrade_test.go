package upgrade

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cleohq/cleo/internal/config"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/storage"
	_ "github.com/cleohq/cleo/internal/storage/jsonstore"
	_ "github.com/cleohq/cleo/internal/storage/sqlstore"
)

// newProject sets up a fresh project. When explicitJSONEngine is true,
// a config.json pinning storage.engine=json is written before
// Initialize, so GetValueSource reports it as config-file-sourced
// rather than default — exercising the "engine was deliberately
// chosen" path instead of the "never configured" preflight trigger.
func newProject(t *testing.T, explicitJSONEngine bool) (string, paths.Layout, storage.Accessor) {
	t.Helper()
	root := t.TempDir()
	layout := paths.NewLayout(root)

	if explicitJSONEngine {
		if err := os.MkdirAll(filepath.Dir(layout.ConfigFile), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(layout.ConfigFile, []byte(`{"storage":{"engine":"json"}}`), 0o644); err != nil {
			t.Fatalf("writing config.json: %v", err)
		}
	}
	if err := config.Initialize(root); err != nil {
		t.Fatalf("config.Initialize: %v", err)
	}
	store, err := storage.New(storage.Config{Engine: storage.EngineJSON, Root: root})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return root, layout, store
}

func TestRunDryRunReportsStorageMigrationPreview(t *testing.T) {
	root, layout, store := newProject(t, false)
	ctx := context.Background()

	result, err := Run(ctx, root, layout, store, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	found := false
	for _, a := range result.Actions {
		if a.Code == ActionStorageMigration && a.Status == StatusPreview {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a storage_migration preview action, got %+v", result.Actions)
	}
}

func TestRunAppliesBackfillForDoneTaskMissingCompletedAt(t *testing.T) {
	root, layout, store := newProject(t, true)
	ctx := context.Background()

	if err := store.MutateTodo(ctx, func(todo *model.TodoFile) error {
		todo.Tasks = append(todo.Tasks, &model.Task{
			ID: "T1", Title: "finished", Status: model.StatusDone, Priority: model.PriorityMedium,
			Size: model.SizeSmall, UpdatedAt: "2026-01-01T00:00:00Z",
		})
		return nil
	}); err != nil {
		t.Fatalf("seeding task: %v", err)
	}

	if _, err := Run(ctx, root, layout, store, false); err != nil {
		t.Fatalf("Run: %v", err)
	}

	todo, err := store.LoadTodo(ctx)
	if err != nil {
		t.Fatalf("LoadTodo: %v", err)
	}
	task := todo.FindTask("T1")
	if task.CompletedAt == nil || *task.CompletedAt != "2026-01-01T00:00:00Z" {
		t.Errorf("expected completedAt backfilled from updatedAt, got %+v", task.CompletedAt)
	}
}

// TestRunIsIdempotentAfterStorageMigration exercises a single Run call
// that both migrates storage and fixes a checksum in the same pass
// (exactly what a real legacy project looks like), then reopens the
// project on the new engine the way a second CLI invocation would and
// confirms nothing is left for a follow-up run to do.
func TestRunIsIdempotentAfterStorageMigration(t *testing.T) {
	root, layout, store := newProject(t, false)
	ctx := context.Background()

	if err := store.MutateTodo(ctx, func(todo *model.TodoFile) error {
		todo.Tasks = append(todo.Tasks, &model.Task{
			ID: "T1", Title: "legacy", Status: model.StatusActive,
			Priority: model.PriorityMedium, Size: model.SizeSmall,
		})
		return nil
	}); err != nil {
		t.Fatalf("seeding task: %v", err)
	}

	if _, err := Run(ctx, root, layout, store, false); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	engine := storage.Engine(config.GetString("storage.engine"))
	if engine != storage.EngineSQL {
		t.Fatalf("expected storage.engine rewritten to sqlite, got %q", engine)
	}

	migrated, err := storage.New(storage.Config{Engine: engine, Root: root})
	if err != nil {
		t.Fatalf("reopening migrated store: %v", err)
	}
	defer migrated.Close()

	todo, err := migrated.LoadTodo(ctx)
	if err != nil {
		t.Fatalf("LoadTodo on migrated store: %v", err)
	}
	if todo.FindTask("T1") == nil {
		t.Fatal("expected T1 to have survived the migration")
	}

	result, err := Run(ctx, root, layout, migrated, false)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(result.Actions) != 0 {
		t.Errorf("expected zero actions on the run after migration, got %+v", result.Actions)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	root, layout, store := newProject(t, true)
	ctx := context.Background()

	if _, err := Run(ctx, root, layout, store, false); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	result, err := Run(ctx, root, layout, store, false)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(result.Actions) != 0 {
		t.Errorf("expected zero actions on second run, got %+v", result.Actions)
	}
}
