package cleo_test

import (
	"testing"

	"github.com/cleohq/cleo"
)

func TestConstants(t *testing.T) {
	if cleo.StatusPending != "pending" {
		t.Errorf("StatusPending = %q, want %q", cleo.StatusPending, "pending")
	}
	if cleo.StatusActive != "active" {
		t.Errorf("StatusActive = %q, want %q", cleo.StatusActive, "active")
	}
	if cleo.PriorityCritical != "critical" {
		t.Errorf("PriorityCritical = %q, want %q", cleo.PriorityCritical, "critical")
	}
	if cleo.SizeLarge != "large" {
		t.Errorf("SizeLarge = %q, want %q", cleo.SizeLarge, "large")
	}
	if cleo.DomainTasks != "tasks" {
		t.Errorf("DomainTasks = %q, want %q", cleo.DomainTasks, "tasks")
	}
	if cleo.KindMutate != "mutate" {
		t.Errorf("KindMutate = %q, want %q", cleo.KindMutate, "mutate")
	}
}

func TestFindProjectRootNoMarker(t *testing.T) {
	if root := cleo.FindProjectRoot(t.TempDir()); root != "" {
		t.Errorf("expected no project root, got %q", root)
	}
}

func TestNewLayoutDerivesPaths(t *testing.T) {
	root := t.TempDir()
	layout := cleo.NewLayout(root)
	if layout.Root != root {
		t.Errorf("layout.Root = %q, want %q", layout.Root, root)
	}
}
