// Package config loads CLEO's layered configuration: project
// config.json, environment variables, and command-line flags, in that
// ascending precedence order (spec.md §6 "Configuration").
//
// Grounded on the deleted internal/config/config.go's viper singleton:
// same explicit SetConfigFile resolution (walk up from cwd looking for
// the project marker before falling back to a home-directory config),
// same env-prefix/replacer binding, same Get*/Set/AllSettings surface.
// Adapted from the teacher's YAML-at-.beads/config.yaml layout to
// CLEO's JSON-at-.cleo/config.json (spec.md §6 lists config.json among
// paths.Layout's canonical files), and from the teacher's bd-specific
// keys (routing, sync, hierarchy, directory labels, multi-repo) to
// CLEO's own recognized key set (spec.md §6): storage.engine,
// archive.*, validation.*, contextAlerts.*, analyze.lockAwareness.*,
// session.*.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cleohq/cleo/internal/paths"
)

var v *viper.Viper

// explicitOverrides tracks keys set via Set, so WriteConfigFile can
// persist only deliberate choices instead of viper's full merged
// settings (which would bake every SetDefault value into config.json
// and make GetValueSource see them as explicit forever after).
var explicitOverrides = map[string]interface{}{}

// EnvPrefix is CLEO's environment-variable binding prefix (spec.md
// §6: CLEO_ROOT/CLEO_HOME/CLEO_SESSION follow the same convention).
const EnvPrefix = "CLEO"

// Initialize sets up the viper singleton. Should be called once at
// process startup, after paths.FindProjectRoot has resolved root (or
// root is empty, in which case only home/default config applies).
func Initialize(root string) error {
	v = viper.New()
	v.SetConfigType("json")
	explicitOverrides = map[string]interface{}{}

	configFileSet := false

	// 1. Walk up from root (or cwd) looking for <marker>/config.json.
	start := root
	if start == "" {
		if cwd, err := os.Getwd(); err == nil {
			start = cwd
		}
	}
	if start != "" {
		for dir := start; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			candidate := filepath.Join(dir, paths.MarkerDir, "config.json")
			if _, err := os.Stat(candidate); err == nil {
				v.SetConfigFile(candidate)
				configFileSet = true
				break
			}
		}
	}

	// 2. $CLEO_HOME/config.json.
	if !configFileSet {
		if home := os.Getenv(paths.HomeEnvVar); home != "" {
			candidate := filepath.Join(home, "config.json")
			if _, err := os.Stat(candidate); err == nil {
				v.SetConfigFile(candidate)
				configFileSet = true
			}
		}
	}

	// 3. Legacy home fallback (~/.cleo/config.json).
	if !configFileSet {
		if homeDir, err := paths.HomeDir(); err == nil {
			candidate := filepath.Join(homeDir, ".cleo", "config.json")
			if _, err := os.Stat(candidate); err == nil {
				v.SetConfigFile(candidate)
				configFileSet = true
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: reading config file: %w", err)
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.engine", "json")

	v.SetDefault("archive.enabled", true)
	v.SetDefault("archive.daysUntilArchive", 30)
	v.SetDefault("archive.preserveRecentCount", 10)
	v.SetDefault("archive.archiveOnSessionEnd", false)

	v.SetDefault("validation.strictMode", false)
	v.SetDefault("validation.maxActiveTasks", 0)
	v.SetDefault("validation.validateDependencies", true)
	v.SetDefault("validation.detectCircularDeps", true)

	v.SetDefault("contextAlerts.enabled", true)
	v.SetDefault("contextAlerts.suppressDuration", "2m")
	v.SetDefault("contextAlerts.triggerCommands", []string{"tasks.add", "tasks.update", "tasks.complete"})

	v.SetDefault("analyze.lockAwareness.enabled", true)
	v.SetDefault("analyze.lockAwareness.warnOnly", false)

	v.SetDefault("session.requireSession", false)
	v.SetDefault("session.requireSessionNote", false)
}

// ConfigSource identifies where an effective config value came from.
type ConfigSource string

const (
	SourceDefault    ConfigSource = "default"
	SourceConfigFile ConfigSource = "config_file"
	SourceEnvVar     ConfigSource = "env_var"
	SourceFlag       ConfigSource = "flag"
)

// GetValueSource reports the highest-precedence source backing key,
// among env var and config file (flag precedence is resolved by the
// caller, which knows whether a flag was explicitly set).
func GetValueSource(key string) ConfigSource {
	if v == nil {
		return SourceDefault
	}
	envKey := EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	if os.Getenv(envKey) != "" {
		return SourceEnvVar
	}
	if v.InConfig(key) {
		return SourceConfigFile
	}
	return SourceDefault
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration retrieves a duration configuration value.
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// GetStringSlice retrieves a string-slice configuration value.
func GetStringSlice(key string) []string {
	if v == nil {
		return nil
	}
	return v.GetStringSlice(key)
}

// Set overrides a configuration value for the remainder of the
// process (used by upgrade to rewrite storage.engine post-migration).
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
	explicitOverrides[key] = value
}

// AllSettings returns every configuration setting as a nested map.
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}

// WriteConfigFile persists explicitly-set values back to path as
// JSON, used by init to create a project's config.json and by upgrade
// to rewrite config.storage.engine after a successful migration
// (spec.md §4.K). Only keys passed to Set are written (merged over
// whatever the file already contained); SetDefault values never
// appear, so a value that was never deliberately chosen keeps
// reporting SourceDefault on every later load, not SourceConfigFile.
func WriteConfigFile(path string) error {
	if v == nil {
		return fmt.Errorf("config: not initialized")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	out := map[string]interface{}{}
	if existing, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(existing, &out)
	}
	for key, value := range explicitOverrides {
		setNestedKey(out, strings.Split(key, "."), value)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// setNestedKey writes value into m at the dotted path described by
// parts, creating intermediate maps as needed.
func setNestedKey(m map[string]interface{}, parts []string, value interface{}) {
	if len(parts) == 1 {
		m[parts[0]] = value
		return
	}
	next, ok := m[parts[0]].(map[string]interface{})
	if !ok {
		next = map[string]interface{}{}
		m[parts[0]] = next
	}
	setNestedKey(next, parts[1:], value)
}
