// Package backup implements the second and third backup tiers spec.md
// §4.G names: periodic operational snapshots (full-directory copy,
// timestamped, invoked by checkpoint) layered on top of
// internal/atomicio's per-write backup ring, and restore from either
// tier.
//
// Grounded on the teacher's devlog/snapshot handling in the deleted
// internal/storage/sqlite/compact.go (timestamped snapshot naming
// convention before a destructive compaction pass), generalized from
// a single-database snapshot to a whole-.cleo-directory copy.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cleohq/cleo/internal/paths"
)

// snapshotTimeFormat names snapshot directories so they sort
// lexicographically in creation order.
const snapshotTimeFormat = "20060102T150405Z"

// Checkpoint copies every file directly under l.StateDir (but not
// .backups/ or backups/operational/ themselves, to avoid nesting
// snapshots inside snapshots) into a fresh timestamped directory under
// l.SnapshotDir.
func Checkpoint(l paths.Layout, now time.Time) (string, error) {
	name := now.UTC().Format(snapshotTimeFormat)
	dest := filepath.Join(l.SnapshotDir, name)
	if err := os.MkdirAll(dest, 0755); err != nil {
		return "", fmt.Errorf("backup: creating snapshot directory: %w", err)
	}

	entries, err := os.ReadDir(l.StateDir)
	if err != nil {
		return "", fmt.Errorf("backup: reading state directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == filepath.Base(l.BackupDir) || name == "backups" {
			continue
		}
		src := filepath.Join(l.StateDir, name)
		if entry.IsDir() {
			continue // only top-level aggregate files are snapshotted, not nested state
		}
		if err := copyFile(src, filepath.Join(dest, name)); err != nil {
			return "", fmt.Errorf("backup: copying %s into snapshot: %w", name, err)
		}
	}

	return dest, nil
}

// ListSnapshots returns snapshot directory names under l.SnapshotDir,
// newest first.
func ListSnapshots(l paths.Layout) ([]string, error) {
	entries, err := os.ReadDir(l.SnapshotDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("backup: listing snapshots: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// RestoreSnapshot copies every file from the named snapshot back over
// l.StateDir's top-level aggregate files. Callers must hold every
// relevant resource lock before calling this (it performs no locking
// of its own — restore is an operator-invoked, out-of-band recovery
// action, not a normal mutation).
func RestoreSnapshot(l paths.Layout, name string) error {
	src := filepath.Join(l.SnapshotDir, name)
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("backup: reading snapshot %s: %w", name, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := copyFile(filepath.Join(src, entry.Name()), filepath.Join(l.StateDir, entry.Name())); err != nil {
			return fmt.Errorf("backup: restoring %s from snapshot %s: %w", entry.Name(), name, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
