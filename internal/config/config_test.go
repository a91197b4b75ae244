package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeDefaults(t *testing.T) {
	if err := Initialize(t.TempDir()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := GetString("storage.engine"); got != "json" {
		t.Errorf("storage.engine default = %q, want json", got)
	}
	if got := GetInt("archive.daysUntilArchive"); got != 30 {
		t.Errorf("archive.daysUntilArchive default = %d, want 30", got)
	}
	if !GetBool("validation.validateDependencies") {
		t.Error("validation.validateDependencies default should be true")
	}
}

func TestInitializeReadsProjectConfigFile(t *testing.T) {
	root := t.TempDir()
	stateDir := filepath.Join(root, ".cleo")
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `{"storage":{"engine":"json"},"validation":{"strictMode":true}}`
	if err := os.WriteFile(filepath.Join(stateDir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Initialize(root); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := GetString("storage.engine"); got != "json" {
		t.Errorf("storage.engine = %q, want json", got)
	}
	if !GetBool("validation.strictMode") {
		t.Error("validation.strictMode should be true from config file")
	}
	if GetValueSource("storage.engine") != SourceConfigFile {
		t.Errorf("GetValueSource(storage.engine) = %v, want SourceConfigFile", GetValueSource("storage.engine"))
	}
}

func TestGetValueSourceEnvVar(t *testing.T) {
	if err := Initialize(t.TempDir()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Setenv("CLEO_STORAGE_ENGINE", "json")
	if got := GetString("storage.engine"); got != "json" {
		t.Errorf("storage.engine = %q, want json from env", got)
	}
	if GetValueSource("storage.engine") != SourceEnvVar {
		t.Errorf("GetValueSource(storage.engine) = %v, want SourceEnvVar", GetValueSource("storage.engine"))
	}
}

func TestSetOverridesInMemory(t *testing.T) {
	if err := Initialize(t.TempDir()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Set("storage.engine", "sqlite")
	if got := GetString("storage.engine"); got != "sqlite" {
		t.Errorf("storage.engine = %q, want sqlite after Set", got)
	}
}

func TestWriteConfigFileOmitsUnsetDefaults(t *testing.T) {
	root := t.TempDir()
	if err := Initialize(root); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	configPath := filepath.Join(root, ".cleo", "config.json")
	if err := WriteConfigFile(configPath); err != nil {
		t.Fatalf("WriteConfigFile: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading written config: %v", err)
	}
	if strings.Contains(string(data), "storage") {
		t.Errorf("expected no storage key in a config written with no explicit Set, got %s", data)
	}

	// A later process loading this file must still see storage.engine
	// as SourceDefault, not SourceConfigFile, or upgrade's
	// never-configured detection breaks.
	if err := Initialize(root); err != nil {
		t.Fatalf("re-Initialize: %v", err)
	}
	if GetValueSource("storage.engine") != SourceDefault {
		t.Errorf("GetValueSource(storage.engine) = %v, want SourceDefault", GetValueSource("storage.engine"))
	}
}

func TestWriteConfigFilePersistsOnlyExplicitKeys(t *testing.T) {
	root := t.TempDir()
	if err := Initialize(root); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Set("storage.engine", "sqlite")
	configPath := filepath.Join(root, ".cleo", "config.json")
	if err := WriteConfigFile(configPath); err != nil {
		t.Fatalf("WriteConfigFile: %v", err)
	}

	if err := Initialize(root); err != nil {
		t.Fatalf("re-Initialize: %v", err)
	}
	if got := GetString("storage.engine"); got != "sqlite" {
		t.Errorf("storage.engine = %q, want sqlite persisted from Set", got)
	}
	if GetValueSource("storage.engine") != SourceConfigFile {
		t.Errorf("GetValueSource(storage.engine) = %v, want SourceConfigFile", GetValueSource("storage.engine"))
	}
	if got := GetInt("archive.daysUntilArchive"); got != 30 {
		t.Errorf("archive.daysUntilArchive = %d, want the default 30 to still apply", got)
	}
}
