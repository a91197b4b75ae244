package atomicio

import (
	"fmt"
	"os"
	"path/filepath"
)

// RingSize is the maximum number of rotating backups kept per file
// (spec.md §4.B: "M≈10").
const RingSize = 10

// RotateBackup copies the current contents of path into the numbered
// backup ring under <dir>/.backups/<name>.<N>, where N=1 is the most
// recent. Existing entries shift up by one; anything beyond RingSize
// is evicted. The first-ever write (no prior backups, nothing to
// rotate from) is a no-op by construction: callers only call this when
// path already exists.
func RotateBackup(path string) error {
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	backupDir := filepath.Join(dir, ".backups")

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}

	// Evict the oldest entry, then shift N -> N+1 from the back
	// forward so no rename ever clobbers a not-yet-moved entry.
	oldest := backupPath(backupDir, name, RingSize)
	if _, err := os.Stat(oldest); err == nil {
		if err := os.Remove(oldest); err != nil {
			return fmt.Errorf("evicting oldest backup %s: %w", oldest, err)
		}
	}
	for n := RingSize - 1; n >= 1; n-- {
		src := backupPath(backupDir, name, n)
		dst := backupPath(backupDir, name, n+1)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("shifting backup %s -> %s: %w", src, dst, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s for backup: %w", path, err)
	}
	return os.WriteFile(backupPath(backupDir, name, 1), data, 0644)
}

func backupPath(backupDir, name string, n int) string {
	return filepath.Join(backupDir, fmt.Sprintf("%s.%d", name, n))
}

// BackupEntries lists the ring entries for name under dir's backup
// directory, newest (N=1) first, skipping any that don't exist.
func BackupEntries(dir, name string) []string {
	backupDir := filepath.Join(dir, ".backups")
	var entries []string
	for n := 1; n <= RingSize; n++ {
		p := backupPath(backupDir, name, n)
		if _, err := os.Stat(p); err == nil {
			entries = append(entries, p)
		}
	}
	return entries
}

// RestoreFromBackup copies backup ring entry N back over path. Used by
// the §4.G restore operation; the caller is responsible for holding
// the resource's lock.
func RestoreFromBackup(path string, n int) error {
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	src := backupPath(filepath.Join(dir, ".backups"), name, n)
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading backup entry %d for %s: %w", n, name, err)
	}
	return WriteBytes(path, data)
}
