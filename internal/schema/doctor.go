package schema

import (
	"os"
	"path/filepath"

	"github.com/cleohq/cleo/internal/paths"
)

// Severity classifies a doctor finding.
type Severity string

const (
	SeverityInfo Severity = "info"
	SeverityWarn Severity = "warn"
)

// Finding is one advisory drift check result. Unlike Violation,
// findings never block a write — they surface things an operator
// should look at (spec.md §4.C doctor layer), grounded on the
// teacher's cmd/bd doctor subcommand's health-check report shape.
type Finding struct {
	Severity Severity
	Check    string
	Message  string
}

// Doctor runs every advisory drift check against a project Layout and
// returns the findings in a stable order. It never mutates anything on
// disk; unlike Plan/Apply it has no --fix counterpart because these
// checks describe drift outside the aggregates proper (missing
// directories, unreadable lock files, a sequence file that disagrees
// with the task set) rather than invariant violations inside them.
func Doctor(l paths.Layout, todo TodoSummary) []Finding {
	var findings []Finding

	findings = append(findings, checkStateDirs(l)...)
	findings = append(findings, checkLockDir(l)...)
	findings = append(findings, checkSequenceDrift(todo)...)

	return findings
}

// TodoSummary carries just the facts Doctor needs from the loaded
// aggregates, so this package doesn't have to import internal/storage
// (which itself depends on internal/schema for validation — Doctor
// taking a narrow summary avoids the cycle).
type TodoSummary struct {
	MaxTaskSeq    int
	SequenceCount int
	TaskCount     int
	ArchivedCount int
}

func checkStateDirs(l paths.Layout) []Finding {
	var findings []Finding
	dirs := []struct{ name, dir string }{
		{"backups", l.BackupDir},
		{"snapshots", l.SnapshotDir},
		{"metrics", l.MetricsDir},
		{"context", l.ContextDir},
	}
	for _, d := range dirs {
		if _, err := os.Stat(d.dir); os.IsNotExist(err) {
			findings = append(findings, Finding{
				Severity: SeverityInfo,
				Check:    "state-dirs",
				Message:  d.name + " directory does not exist yet (created on first write): " + d.dir,
			})
		}
	}
	return findings
}

func checkLockDir(l paths.Layout) []Finding {
	info, err := os.Stat(l.StateDir)
	if err != nil {
		return []Finding{{Severity: SeverityWarn, Check: "state-dir", Message: "project state directory is missing: " + l.StateDir}}
	}
	if !info.IsDir() {
		return []Finding{{Severity: SeverityWarn, Check: "state-dir", Message: l.StateDir + " exists but is not a directory"}}
	}
	// Lock files present at rest aren't necessarily stale (another
	// process may legitimately hold one) — this is advisory only;
	// atomicio's own stale-lock reclaim handles cleanup at acquire time.
	var findings []Finding
	matches, _ := filepath.Glob(filepath.Join(l.StateDir, "*.lock"))
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.Size() > 0 {
			findings = append(findings, Finding{Severity: SeverityInfo, Check: "lock-files", Message: "lock file present: " + m})
		}
	}
	return findings
}

func checkSequenceDrift(s TodoSummary) []Finding {
	if s.SequenceCount < s.MaxTaskSeq {
		return []Finding{{
			Severity: SeverityWarn,
			Check:    "sequence-drift",
			Message:  "sequence counter trails the highest task id; run repair to catch it up",
		}}
	}
	return nil
}
