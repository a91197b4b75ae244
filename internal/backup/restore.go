package backup

import (
	"fmt"

	"github.com/cleohq/cleo/internal/atomicio"
	"github.com/cleohq/cleo/internal/paths"
)

// Source identifies which backup tier a restore draws from.
type Source int

const (
	// SourceRing restores a single aggregate file from its per-write
	// backup ring (tier 1, internal/atomicio).
	SourceRing Source = iota
	// SourceSnapshot restores every aggregate file from a timestamped
	// operational snapshot (tier 2, this package).
	SourceSnapshot
)

// RingTarget names the aggregate files a ring restore can target,
// matching the resource names internal/atomicio locks rotate backups
// for.
var RingTarget = map[string]func(paths.Layout) string{
	"todo":     func(l paths.Layout) string { return l.TodoFile },
	"archive":  func(l paths.Layout) string { return l.ArchiveFile },
	"sessions": func(l paths.Layout) string { return l.SessionsFile },
	"sequence": func(l paths.Layout) string { return l.SequenceFile },
}

// Restore performs a spec.md §4.G "restore" operation: either copying
// a single aggregate file back from its numbered backup ring entry, or
// restoring every aggregate from a timestamped operational snapshot.
// Callers must hold every resource lock relevant to the target(s)
// before calling Restore — like RestoreSnapshot, it performs no
// locking of its own.
func Restore(l paths.Layout, source Source, target string, ringEntry int) error {
	switch source {
	case SourceRing:
		resolve, ok := RingTarget[target]
		if !ok {
			return fmt.Errorf("backup: unknown ring restore target %q", target)
		}
		if ringEntry < 1 || ringEntry > atomicio.RingSize {
			return fmt.Errorf("backup: ring entry %d out of range (1-%d)", ringEntry, atomicio.RingSize)
		}
		return atomicio.RestoreFromBackup(resolve(l), ringEntry)
	case SourceSnapshot:
		return RestoreSnapshot(l, target)
	default:
		return fmt.Errorf("backup: unknown restore source")
	}
}
