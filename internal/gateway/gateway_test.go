package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/storage"
	_ "github.com/cleohq/cleo/internal/storage/jsonstore"
)

func newTestMatrix(t *testing.T) *Matrix {
	t.Helper()
	root := t.TempDir()
	store, err := storage.New(storage.Config{Engine: storage.EngineJSON, Root: root})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewDefaultMatrix(store, paths.NewLayout(root), NewCLIRunner())
}

func TestDispatchUnknownOperationFails(t *testing.T) {
	m := newTestMatrix(t)
	env := m.Dispatch(context.Background(), KindQuery, DomainTasks, "not-a-real-op", nil, true)
	if env.Success {
		t.Fatal("expected dispatch to fail for an unknown operation")
	}
	if env.Error.Name != "INVALID_OPERATION" {
		t.Errorf("got error name %q, want INVALID_OPERATION", env.Error.Name)
	}
}

func TestDispatchKindMismatchFails(t *testing.T) {
	m := newTestMatrix(t)
	env := m.Dispatch(context.Background(), KindQuery, DomainTasks, "add", map[string]interface{}{"title": "x"}, true)
	if env.Success {
		t.Fatal("expected dispatch to fail when add (mutate) is dispatched as a query")
	}
}

func TestDispatchCLIOnlyOperationRequiresCLIAccess(t *testing.T) {
	m := newTestMatrix(t)
	env := m.Dispatch(context.Background(), KindMutate, DomainOrchestrate, "run", nil, false)
	if env.Success {
		t.Fatal("expected dispatch to fail without CLI access")
	}
	if env.Error.Name != "CLI_REQUIRED" {
		t.Errorf("got error name %q, want CLI_REQUIRED", env.Error.Name)
	}
}

func TestDispatchTasksAddRoundTrips(t *testing.T) {
	m := newTestMatrix(t)
	env := m.Dispatch(context.Background(), KindMutate, DomainTasks, "add", map[string]interface{}{"title": "ship it"}, true)
	if !env.Success {
		t.Fatalf("expected success, got %+v", env.Error)
	}
	if env.Meta.Domain != DomainTasks || env.Meta.Operation != "add" {
		t.Errorf("unexpected meta: %+v", env.Meta)
	}
	if env.ExitCode() != 0 {
		t.Errorf("ExitCode() = %d, want 0", env.ExitCode())
	}
}

func TestDispatchTasksAddThenGetRoundTrips(t *testing.T) {
	m := newTestMatrix(t)
	ctx := context.Background()
	addEnv := m.Dispatch(ctx, KindMutate, DomainTasks, "add", map[string]interface{}{"title": "ship it"}, true)
	if !addEnv.Success {
		t.Fatalf("add failed: %+v", addEnv.Error)
	}

	nextEnv := m.Dispatch(ctx, KindQuery, DomainTasks, "next", map[string]interface{}{"limit": 5}, true)
	if !nextEnv.Success {
		t.Fatalf("next failed: %+v", nextEnv.Error)
	}
}

func TestEnvelopeExitCodeMapsNoChangeToHundred(t *testing.T) {
	env := Success(DomainTasks, "update", nil, "nothing changed", true, time.Now())
	if env.ExitCode() != 100 {
		t.Errorf("ExitCode() = %d, want 100 for NoChange", env.ExitCode())
	}
}
