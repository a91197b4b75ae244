package tasktemplate

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemplate(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".toml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadReadsFields(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "bugfix", `
title = "Fix {{component}}"
description = "Investigate and fix the {{component}} bug"
priority = "high"
size = "small"
type = "task"
labels = ["bug", "{{component}}"]
acceptance = ["{{component}} no longer errors"]
`)

	tmpl, err := Load(dir, "bugfix")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tmpl.Priority != "high" || tmpl.Size != "small" || tmpl.Type != "task" {
		t.Errorf("got %+v, want priority=high size=small type=task", tmpl)
	}
	if len(tmpl.Labels) != 2 || len(tmpl.Acceptance) != 1 {
		t.Errorf("got %+v, unexpected label/acceptance counts", tmpl)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir, "missing"); err == nil {
		t.Error("expected an error for a missing template file")
	}
}

func TestRenderSubstitutesAllStringFields(t *testing.T) {
	tmpl := &Template{
		Title:       "Fix {{component}}",
		Description: "debug {{component}} in {{module}}",
		Labels:      []string{"bug", "{{component}}"},
		Acceptance:  []string{"{{component}} passes tests"},
	}
	rendered := tmpl.Render(map[string]string{"component": "auth", "module": "gateway"})

	if rendered.Title != "Fix auth" {
		t.Errorf("Title = %q, want %q", rendered.Title, "Fix auth")
	}
	if rendered.Description != "debug auth in gateway" {
		t.Errorf("Description = %q", rendered.Description)
	}
	if rendered.Labels[1] != "auth" {
		t.Errorf("Labels = %v, want rendered component label", rendered.Labels)
	}
	if rendered.Acceptance[0] != "auth passes tests" {
		t.Errorf("Acceptance = %v", rendered.Acceptance)
	}
}

func TestRenderLeavesUnmatchedPlaceholderUntouched(t *testing.T) {
	tmpl := &Template{Title: "Fix {{component}}"}
	rendered := tmpl.Render(map[string]string{})
	if rendered.Title != "Fix {{component}}" {
		t.Errorf("Title = %q, want the placeholder left untouched", rendered.Title)
	}
}
