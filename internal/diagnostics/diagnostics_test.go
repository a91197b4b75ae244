package diagnostics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOperationWritesJSONLineWhenInitialized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagnostics.log")
	Init(path, false)
	defer Init("", false)

	Operation(context.Background(), "tasks", "add", 12, true, "")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, `"domain":"tasks"`) || !strings.Contains(line, `"operation":"add"`) {
		t.Errorf("log line = %q, missing expected fields", line)
	}
	if strings.Contains(line, "errorCode") {
		t.Errorf("log line = %q, should omit errorCode on success", line)
	}
}

func TestOperationIncludesErrorCodeOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagnostics.log")
	Init(path, false)
	defer Init("", false)

	Operation(context.Background(), "tasks", "delete", 3, false, "NOT_FOUND")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"errorCode":"NOT_FOUND"`) {
		t.Errorf("log line = %q, want errorCode NOT_FOUND", string(data))
	}
}

func TestOperationIsNoOpWithoutInit(t *testing.T) {
	Init("", false)
	// Should not panic with no logger configured.
	Operation(context.Background(), "tasks", "add", 1, true, "")
}

func TestDebugfOnlyLogsAtDebugLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagnostics.log")
	Init(path, false)
	defer Init("", false)

	Debugf(context.Background(), "decoded params", "count", 3)

	data, _ := os.ReadFile(path)
	if len(data) != 0 {
		t.Errorf("expected no debug output at info level, got %q", string(data))
	}
}
