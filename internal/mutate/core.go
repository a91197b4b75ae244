// Package mutate implements CLEO's mutation core (spec.md §4.F): task
// CRUD, phase transitions, session lifecycle, focus, archive,
// deletion strategies, dependency waves, and task weighting. Every
// operation follows the same pipeline — read current aggregate, apply
// a pure transform, validate invariants, commit through storage.Accessor
// (which itself goes through internal/atomicio) — and appends an
// audit-log record on success.
//
// Grounded on the teacher's storage.Transaction-scoped operation
// methods (CreateIssue/UpdateIssue/CloseIssue/DeleteIssue in
// internal/storage/storage.go) for the read-validate-commit shape,
// generalized from row-level SQL operations to whole-aggregate
// transforms since CLEO's accessor contract is document-level.
package mutate

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/atomicio"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/schema"
	"github.com/cleohq/cleo/internal/storage"
)

// Core is the mutation-core entry point, holding the accessor every
// operation reads and writes through, plus the project Layout needed
// for the audit log (which lives outside the Accessor's aggregate set).
type Core struct {
	Store  storage.Accessor
	Layout paths.Layout
	Waves  *WaveCache
}

// New builds a Core over an already-constructed Accessor.
func New(store storage.Accessor, layout paths.Layout) *Core {
	return &Core{Store: store, Layout: layout, Waves: NewWaveCache()}
}

// validateAndCommit runs schema.Validate against the proposed next
// state, aborting before any write if an invariant fails (spec.md
// §4.F: "any invariant failure aborts before commit with a typed
// error; partial writes are impossible").
func validateAndCommit(todo *model.TodoFile, archive *model.ArchiveFile) error {
	if violations := schema.Validate(todo, archive); len(violations) > 0 {
		return apperr.New(apperr.CodeValidationError, violations[0].Error()).
			WithFix("run `cleo validate --fix` to repair structural drift")
	}
	return nil
}

// appendAudit records one operation in todo-log.json under its own
// lock, independent of whichever aggregate locks the caller already
// holds (spec.md §5: "Log files ... append-only; each append is its
// own atomic write-rename ... or a locked read-modify-write").
func (c *Core) appendAudit(ctx context.Context, entry model.AuditEntry) error {
	entry.ID = uuid.NewString()
	entry.Timestamp = paths.NowISO()
	if err := atomicio.InitializeIfMissing(c.Layout.LogFile, &model.AuditLog{}); err != nil {
		return err
	}
	return atomicio.WithFileLock(ctx, c.Layout.LockPath("log"), atomicio.DefaultLockTimeout, func() error {
		var log model.AuditLog
		if err := atomicio.ReadJSON(c.Layout.LogFile, &log); err != nil {
			return fmt.Errorf("FILE_ERROR: reading audit log: %w", err)
		}
		log.Entries = append(log.Entries, entry)
		return atomicio.WriteJSON(c.Layout.LogFile, &log)
	})
}
