// Package concurrency implements spec.md §4.I: a per-session context
// window monitor with threshold classification and alert
// deduplication, and a lock warner that classifies .cleo/*.lock files
// as active/stale/orphaned.
//
// Grounded on the deleted cmd/bd/daemon_watcher.go's FileWatcher (the
// teacher's own fsnotify usage, generalized from JSONL+git-ref
// watching to the state directory's lock/context-state files) for the
// watcher feed, and spec.md §4.I directly for the threshold/dedupe
// state machine, which has no teacher counterpart — BeadsLog has no
// concept of an LLM context window at all.
package concurrency

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/paths"
)

// Level classifies context usage (spec.md §4.I).
type Level string

const (
	LevelOK        Level = "ok"
	LevelWarning   Level = "warning"
	LevelCaution   Level = "caution"
	LevelCritical  Level = "critical"
	LevelEmergency Level = "emergency"
	LevelStale     Level = "stale"
)

// thresholds maps each non-ok, non-stale level to its minimum usage
// fraction (spec.md §4.I: "warning (>=70%) | caution (>=85%) |
// critical (>=90%) | emergency (>=95%)").
var thresholds = []struct {
	level Level
	min   float64
}{
	{LevelEmergency, 0.95},
	{LevelCritical, 0.90},
	{LevelCaution, 0.85},
	{LevelWarning, 0.70},
}

// TTL bounds freshness: a state file older than this is treated as
// stale regardless of its recorded usage (spec.md §4.I: "freshness TTL
// ~= 5s").
const TTL = 5 * time.Second

// Reading is one {context_window_size, current_usage} sample from the
// host runtime.
type Reading struct {
	ContextWindowSize int       `json:"contextWindowSize"`
	CurrentUsage      int       `json:"currentUsage"`
	RecordedAt        time.Time `json:"recordedAt"`
}

// Classify returns the threshold level for a reading, given the
// current time for freshness comparison.
func Classify(r Reading, now time.Time) Level {
	if now.Sub(r.RecordedAt) > TTL {
		return LevelStale
	}
	if r.ContextWindowSize <= 0 {
		return LevelOK
	}
	fraction := float64(r.CurrentUsage) / float64(r.ContextWindowSize)
	for _, t := range thresholds {
		if fraction >= t.min {
			return t.level
		}
	}
	return LevelOK
}

// ExitCode maps a Level to its process exit code (spec.md §4.I /
// §4.J: ok=0, warning=50, caution=51, critical=52, emergency=53,
// stale=54).
func ExitCode(l Level) int {
	switch l {
	case LevelWarning:
		return apperr.ExitCodeFor(apperr.CodeContextWarning)
	case LevelCaution:
		return apperr.ExitCodeFor(apperr.CodeContextCaution)
	case LevelCritical:
		return apperr.ExitCodeFor(apperr.CodeContextCritical)
	case LevelEmergency:
		return apperr.ExitCodeFor(apperr.CodeContextEmergency)
	case LevelStale:
		return apperr.ExitCodeFor(apperr.CodeContextStale)
	default:
		return apperr.ExitCodeFor(apperr.CodeContextOK)
	}
}

// state is the on-disk shape of a session's context state file.
type state struct {
	Reading       Reading   `json:"reading"`
	LastLevel     Level     `json:"lastLevel"`
	LastAlertedAt time.Time `json:"lastAlertedAt"`
}

// statePath returns the context state file path for a session (spec.md
// §6: "<cleoDir>/context-states/context-state-<sessionId>.json").
func statePath(l paths.Layout, sessionID string) string {
	return filepath.Join(l.ContextDir, fmt.Sprintf("context-state-%s.json", sessionID))
}

// Monitor records readings per session and decides whether a new
// alert should fire, per the dedupe rule: only re-alert once the
// level has strictly advanced past the last-alerted level, and not
// again within suppressDuration of the same level.
type Monitor struct {
	Layout           paths.Layout
	SuppressDuration time.Duration
}

// NewMonitor returns a Monitor with the default suppress duration
// (same as TTL's order of magnitude is too short for a human-facing
// repeat-alert suppression window, so this defaults separately).
func NewMonitor(l paths.Layout) *Monitor {
	return &Monitor{Layout: l, SuppressDuration: 2 * time.Minute}
}

// Record persists r for sessionID and returns the classified level
// plus whether a new alert should be raised.
func (m *Monitor) Record(sessionID string, r Reading) (Level, bool, error) {
	if err := os.MkdirAll(m.Layout.ContextDir, 0755); err != nil {
		return LevelOK, false, fmt.Errorf("concurrency: creating context state directory: %w", err)
	}

	path := statePath(m.Layout, sessionID)
	prev, _ := loadState(path)

	level := Classify(r, time.Now())
	shouldAlert := false
	if level != LevelOK && level != LevelStale {
		advanced := levelRank(level) > levelRank(prev.LastLevel)
		suppressExpired := time.Since(prev.LastAlertedAt) > m.SuppressDuration
		if advanced || (prev.LastLevel == level && suppressExpired) {
			shouldAlert = true
		}
	}

	next := state{Reading: r, LastLevel: prev.LastLevel}
	if shouldAlert {
		next.LastLevel = level
		next.LastAlertedAt = time.Now()
	}

	if err := writeState(path, next); err != nil {
		return level, false, err
	}
	return level, shouldAlert, nil
}

func levelRank(l Level) int {
	switch l {
	case LevelWarning:
		return 1
	case LevelCaution:
		return 2
	case LevelCritical:
		return 3
	case LevelEmergency:
		return 4
	default:
		return 0
	}
}

func loadState(path string) (state, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return state{}, err
	}
	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return state{}, err
	}
	return s, nil
}

func writeState(path string, s state) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("concurrency: encoding context state: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}
