package atomicio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// StaleLockAge is the threshold past which an advisory lock is treated
// as reclaimable (spec.md §4.B, §5).
const StaleLockAge = 5 * time.Minute

// DefaultLockTimeout bounds how long WithFileLock waits to acquire the
// lock before failing with LOCK_FAILED (spec.md §5).
const DefaultLockTimeout = 5 * time.Second

// LockFailedError is returned when a lock cannot be acquired within its
// timeout. The gateway (component J) maps this to exit code 8.
type LockFailedError struct {
	Path string
	Err  error
}

func (e *LockFailedError) Error() string {
	return fmt.Sprintf("LOCK_FAILED: could not acquire lock on %s: %v", e.Path, e.Err)
}

func (e *LockFailedError) Unwrap() error { return e.Err }

// WithFileLock ensures path's parent directory and the lock file
// itself exist, acquires an exclusive advisory lock (reclaiming it if
// it looks stale), runs fn, and releases the lock on every exit path.
func WithFileLock(ctx context.Context, path string, timeout time.Duration, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("FILE_ERROR: creating lock directory for %s: %w", path, err)
	}
	if _, err := os.OpenFile(path, os.O_CREATE, 0644); err != nil {
		return fmt.Errorf("FILE_ERROR: creating lock file %s: %w", path, err)
	}

	reclaimStaleLock(path)

	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	lock := flock.New(path)
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, 25*time.Millisecond)
	if err != nil || !locked {
		if err == nil {
			err = fmt.Errorf("timed out after %s", timeout)
		}
		return &LockFailedError{Path: path, Err: err}
	}
	defer func() { _ = lock.Unlock() }()

	// Record the holding pid and a fresh acquisition token so the lock
	// warner (internal/concurrency) can classify this lock without
	// racing the flock itself, and can tell two acquisitions by the
	// same reused pid apart from one held continuously across calls.
	_ = os.WriteFile(path, []byte(fmt.Sprintf("%d %s\n", os.Getpid(), uuid.NewString())), 0644)

	return fn()
}

// reclaimStaleLock treats a lock file whose mtime is older than
// StaleLockAge as abandoned by a crashed process and touches it so a
// fresh acquisition can proceed. flock itself is advisory and
// released automatically when the owning process dies on POSIX
// systems; this only guards the rarer case of a lock left behind by a
// platform where advisory locks degrade (spec.md §9 design notes).
func reclaimStaleLock(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if time.Since(info.ModTime()) > StaleLockAge {
		now := time.Now()
		_ = os.Chtimes(path, now, now)
	}
}

// resourceLock holds one lock file path for WithMultiLock's
// deadlock-free ordering.
type resourceLock struct {
	lockPath string
}

// WithMultiLock acquires locks on every path in lockPaths, in a fixed
// canonical order (lexicographic over absolute paths), runs fn, and
// releases all locks in reverse order on every exit path. This is the
// deadlock-avoidance contract of spec.md §4.B and §5.
func WithMultiLock(ctx context.Context, lockPaths []string, timeout time.Duration, fn func() error) error {
	ordered := make([]string, len(lockPaths))
	copy(ordered, lockPaths)
	sort.Strings(ordered)

	return withMultiLockOrdered(ctx, ordered, timeout, fn)
}

func withMultiLockOrdered(ctx context.Context, ordered []string, timeout time.Duration, fn func() error) error {
	if len(ordered) == 0 {
		return fn()
	}
	head, rest := ordered[0], ordered[1:]
	return WithFileLock(ctx, head, timeout, func() error {
		return withMultiLockOrdered(ctx, rest, timeout, fn)
	})
}

// WithLock reads dataPath as JSON into current, calls transform() to
// produce the next value, and
// atomically writes the result under the named lock. The target file
// must already exist with valid JSON; callers initialize first via
// InitializeIfMissing (spec.md §4.B: "precondition: the target file
// must exist with valid JSON").
func WithLock(ctx context.Context, lockPath, dataPath string, timeout time.Duration, current interface{}, transform func() (interface{}, error)) error {
	return WithFileLock(ctx, lockPath, timeout, func() error {
		if _, err := os.Stat(dataPath); err != nil {
			if os.IsNotExist(err) {
				return ErrFileMissing
			}
			return fmt.Errorf("FILE_ERROR: stat %s: %w", dataPath, err)
		}
		data, err := os.ReadFile(dataPath)
		if err != nil {
			return fmt.Errorf("FILE_ERROR: reading %s: %w", dataPath, err)
		}
		if err := json.Unmarshal(data, current); err != nil {
			return fmt.Errorf("FILE_ERROR: parsing %s: %w", dataPath, err)
		}

		next, err := transform()
		if err != nil {
			return err
		}
		return WriteJSON(dataPath, next)
	})
}
