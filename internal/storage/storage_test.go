package storage

import "testing"

func TestNewRejectsUnknownEngine(t *testing.T) {
	_, err := New(Config{Engine: "carrier-pigeon", Root: t.TempDir()})
	if err == nil {
		t.Fatal("expected an error for an unregistered engine name")
	}
}

func TestNewDispatchesToRegisteredJSONEngine(t *testing.T) {
	original := newJSONAccessor
	defer RegisterJSONEngine(original)

	var gotRoot string
	RegisterJSONEngine(func(root string) (Accessor, error) {
		gotRoot = root
		return nil, nil
	})

	root := t.TempDir()
	if _, err := New(Config{Engine: EngineJSON, Root: root}); err != nil {
		t.Fatalf("New: %v", err)
	}
	if gotRoot != root {
		t.Errorf("got root %q, want %q", gotRoot, root)
	}
}

func TestNewDefaultsEmptyEngineToJSON(t *testing.T) {
	original := newJSONAccessor
	defer RegisterJSONEngine(original)

	called := false
	RegisterJSONEngine(func(root string) (Accessor, error) {
		called = true
		return nil, nil
	})

	if _, err := New(Config{Engine: "", Root: t.TempDir()}); err != nil {
		t.Fatalf("New: %v", err)
	}
	if !called {
		t.Error("expected an empty Engine to dispatch to the JSON engine")
	}
}
