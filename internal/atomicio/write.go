// Package atomicio implements the hard part of spec.md §4.B: atomic
// file mutation, multi-resource file locking, and content-addressed
// backup rotation. Every other package reaches the filesystem through
// this package's seam.
//
// Grounded on the teacher's scoped-acquisition style (gofrs/flock use
// in cmd/bd/sync.go) generalized from a single sync lock into the
// named-resource lock contract spec.md §4.B and §5 require.
package atomicio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleohq/cleo/internal/paths"
)

// ErrFileMissing is returned by WithLock when the target file does not
// exist; callers must initialize a document before transforming it.
var ErrFileMissing = errors.New("atomicio: target file does not exist")

// Indent is the default JSON indentation width used by WriteJSON.
const Indent = "  "

// WriteJSON serializes v and atomically replaces path with the result,
// rotating the prior contents into the backup ring first.
//
// Sequence: marshal -> (on success) rotate backup -> write temp -> fsync
// -> rename. If marshal fails, path is untouched. If rename fails, the
// temp file is removed and path is untouched. The written file always
// ends with a trailing newline.
func WriteJSON(path string, v interface{}) error {
	payload, err := json.MarshalIndent(v, "", Indent)
	if err != nil {
		return fmt.Errorf("FILE_ERROR: serializing %s: %w", path, err)
	}
	payload = append(payload, '\n')
	return WriteBytes(path, payload)
}

// WriteBytes atomically replaces path with payload's exact bytes,
// rotating the prior contents into the backup ring first. See WriteJSON
// for the full sequencing contract.
func WriteBytes(path string, payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("FILE_ERROR: creating parent directory for %s: %w", path, err)
	}

	// Rotate the existing file into the backup ring before it is
	// overwritten. Backup failure is reported but never blocks the
	// write (spec.md §4.B: "a clean write is more important than a
	// backup of the clean write").
	if _, err := os.Stat(path); err == nil {
		if rotateErr := RotateBackup(path); rotateErr != nil {
			fmt.Fprintf(os.Stderr, "cleo: warning: backup rotation failed for %s: %v\n", path, rotateErr)
		}
	}

	tmp := paths.TempPath(path)
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("FILE_ERROR: opening temp file for %s: %w", path, err)
	}

	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("FILE_ERROR: writing temp file for %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("FILE_ERROR: fsyncing temp file for %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("FILE_ERROR: closing temp file for %s: %w", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("FILE_ERROR: renaming temp file into place for %s: %w", path, err)
	}
	return nil
}

// ReadJSON reads and unmarshals path into v. A missing file is not an
// error at this layer; callers that require an existing document use
// WithLock, which enforces ErrFileMissing.
func ReadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("FILE_ERROR: reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("FILE_ERROR: %s is empty", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("FILE_ERROR: parsing %s: %w", path, err)
	}
	return nil
}

// InitializeIfMissing writes an initial document to path if nothing
// exists there yet. Used by engines to lazily create aggregates on
// first write (spec.md §4.E: "A read without a file returns an empty
// aggregate (and a creation lazily occurs on first write)").
func InitializeIfMissing(path string, initial interface{}) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("FILE_ERROR: stat %s: %w", path, err)
	}
	return WriteJSON(path, initial)
}
