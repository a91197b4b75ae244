package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cleohq/cleo/internal/paths"
)

func TestDoctorFlagsMissingStateDirsAsInfo(t *testing.T) {
	root := t.TempDir()
	layout := paths.NewLayout(root)
	if err := os.MkdirAll(layout.StateDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	findings := Doctor(layout, TodoSummary{})
	found := false
	for _, f := range findings {
		if f.Check == "state-dirs" && f.Severity == SeverityInfo {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an info-level state-dirs finding, got %+v", findings)
	}
}

func TestDoctorWarnsOnMissingStateDir(t *testing.T) {
	root := t.TempDir()
	layout := paths.NewLayout(root)
	// StateDir deliberately left uncreated.

	findings := Doctor(layout, TodoSummary{})
	found := false
	for _, f := range findings {
		if f.Check == "state-dir" && f.Severity == SeverityWarn {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warn-level state-dir finding, got %+v", findings)
	}
}

func TestDoctorWarnsOnSequenceDrift(t *testing.T) {
	root := t.TempDir()
	layout := paths.NewLayout(root)
	if err := os.MkdirAll(layout.StateDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	findings := Doctor(layout, TodoSummary{MaxTaskSeq: 10, SequenceCount: 3})
	found := false
	for _, f := range findings {
		if f.Check == "sequence-drift" && f.Severity == SeverityWarn {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a sequence-drift warning, got %+v", findings)
	}
}

func TestDoctorFlagsPresentLockFile(t *testing.T) {
	root := t.TempDir()
	layout := paths.NewLayout(root)
	if err := os.MkdirAll(layout.StateDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(layout.StateDir, "todo.lock"), []byte("1234\n"), 0644); err != nil {
		t.Fatalf("write lock: %v", err)
	}

	findings := Doctor(layout, TodoSummary{})
	found := false
	for _, f := range findings {
		if f.Check == "lock-files" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a lock-files finding, got %+v", findings)
	}
}
