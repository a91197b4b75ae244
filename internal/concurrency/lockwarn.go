package concurrency

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/cleohq/cleo/internal/paths"
)

// LockClass classifies a lock file by its owning process's liveness
// and age (spec.md §4.I).
type LockClass string

const (
	LockActive   LockClass = "active"
	LockStale    LockClass = "stale"
	LockOrphaned LockClass = "orphaned"
)

// Severity is a lock warning's urgency (spec.md §4.I: "INFO/WARN/BLOCK").
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityBlock Severity = "BLOCK"
)

// staleAge is the age past which an active-PID lock is still
// downgraded to stale (spec.md §4.I: "stale (> 5 min)").
const staleAge = 5 * time.Minute

// highRiskResources elevates concurrent locks on these resources from
// WARN to BLOCK (spec.md §4.I: "High-risk resources (archive,
// sessions, config) elevate concurrent locks from WARN to BLOCK unless
// warn-only mode is configured").
var highRiskResources = map[string]bool{
	"archive":  true,
	"sessions": true,
	"config":   true,
}

// LockInfo describes one observed lock file.
type LockInfo struct {
	Resource string
	Path     string
	PID      int
	Class    LockClass
	ModTime  time.Time
}

// Warning is one lock-contention finding.
type Warning struct {
	Resource string
	Severity Severity
	Message  string
}

// readLockPID reads the holding pid internal/atomicio.WithFileLock
// writes into the lock file while it holds it (as "pid token", token
// being a per-acquisition uuid this package doesn't need). Releasing
// the lock leaves that line in place, so the pid read here may belong
// to a holder that has already released. Returns 0 if the file is
// empty (never locked) or unparseable.
func readLockPID(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return pid
}

// ScanLocks inspects every *.lock file directly under l.StateDir and
// classifies it. A lock is only reported at all if it is currently
// held (probed with a non-blocking flock attempt of our own) — a
// released lock's recorded pid is stale residue, not a live
// contention signal, so an unheld lock file is skipped regardless of
// what pid it last recorded.
func ScanLocks(l paths.Layout, now time.Time) ([]LockInfo, error) {
	entries, err := os.ReadDir(l.StateDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var infos []LockInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".lock") {
			continue
		}
		path := filepath.Join(l.StateDir, name)

		held, err := currentlyHeld(path)
		if err != nil || !held {
			continue
		}

		fi, err := entry.Info()
		if err != nil {
			continue
		}
		resource := strings.TrimSuffix(name, ".lock")
		pid := readLockPID(path)

		var class LockClass
		switch {
		case pid != 0 && !IsAlive(pid):
			class = LockOrphaned
		case now.Sub(fi.ModTime()) > staleAge:
			class = LockStale
		default:
			class = LockActive
		}

		infos = append(infos, LockInfo{
			Resource: resource,
			Path:     path,
			PID:      pid,
			Class:    class,
			ModTime:  fi.ModTime(),
		})
	}
	return infos, nil
}

// currentlyHeld probes path with a non-blocking advisory lock attempt
// of our own: if we can acquire it, nobody else holds it, so we
// release immediately and report not-held.
func currentlyHeld(path string) (bool, error) {
	probe := flock.New(path)
	locked, err := probe.TryLock()
	if err != nil {
		return false, err
	}
	if locked {
		_ = probe.Unlock()
		return false, nil
	}
	return true, nil
}

// Warnings turns a ScanLocks result into severity-tagged findings,
// grouping by resource since a BLOCK only fires when two active locks
// contend on the same resource.
func Warnings(infos []LockInfo, warnOnly bool) []Warning {
	byResource := make(map[string][]LockInfo)
	for _, info := range infos {
		byResource[info.Resource] = append(byResource[info.Resource], info)
	}

	var warnings []Warning
	for resource, group := range byResource {
		activeCount := 0
		for _, info := range group {
			switch info.Class {
			case LockOrphaned:
				warnings = append(warnings, Warning{Resource: resource, Severity: SeverityWarn, Message: "orphaned lock (pid " + strconv.Itoa(info.PID) + " is not running)"})
			case LockStale:
				warnings = append(warnings, Warning{Resource: resource, Severity: SeverityInfo, Message: "stale lock older than 5 minutes"})
			case LockActive:
				activeCount++
			}
		}
		if activeCount >= 2 {
			severity := SeverityWarn
			if highRiskResources[resource] && !warnOnly {
				severity = SeverityBlock
			}
			warnings = append(warnings, Warning{Resource: resource, Severity: severity, Message: "concurrent active locks on " + resource})
		}
	}
	return warnings
}
