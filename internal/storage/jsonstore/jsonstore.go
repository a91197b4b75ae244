// Package jsonstore implements storage.Accessor directly over the
// JSON documents in a project's .cleo/ directory, using
// internal/atomicio for locking and atomic writes. This is CLEO's
// default engine (spec.md §4.E: "storage.engine defaults to json").
//
// Grounded on the teacher's internal/storage/memory package for the
// "load whole document into memory, mutate, save back" shape, and on
// the teacher's storage.go Transaction semantics for MutateTodoAndArchive's
// multi-resource atomicity, generalized from an in-memory test double
// to the real on-disk, lock-guarded JSON aggregates.
package jsonstore

import (
	"context"

	"github.com/cleohq/cleo/internal/atomicio"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/storage"
)

func init() {
	storage.RegisterJSONEngine(func(root string) (storage.Accessor, error) {
		return New(root), nil
	})
}

// Accessor is the JSON-on-disk storage.Accessor implementation.
type Accessor struct {
	layout paths.Layout
}

// New returns a jsonstore Accessor rooted at root. It does not touch
// disk; documents are created lazily on first access (read or write)
// via atomicio.InitializeIfMissing.
func New(root string) *Accessor {
	return &Accessor{layout: paths.NewLayout(root)}
}

func (a *Accessor) Engine() storage.Engine { return storage.EngineJSON }

func (a *Accessor) Close() error { return nil }

func (a *Accessor) ensureTodo() error {
	return atomicio.InitializeIfMissing(a.layout.TodoFile, model.NewTodoFile())
}

func (a *Accessor) ensureArchive() error {
	return atomicio.InitializeIfMissing(a.layout.ArchiveFile, model.NewArchiveFile())
}

func (a *Accessor) ensureSessions() error {
	return atomicio.InitializeIfMissing(a.layout.SessionsFile, &model.SessionsFile{Sessions: []*model.Session{}})
}

func (a *Accessor) ensureSequence() error {
	return atomicio.InitializeIfMissing(a.layout.SequenceFile, &model.Sequence{})
}

func (a *Accessor) LoadTodo(ctx context.Context) (*model.TodoFile, error) {
	if err := a.ensureTodo(); err != nil {
		return nil, err
	}
	var todo model.TodoFile
	if err := atomicio.ReadJSON(a.layout.TodoFile, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (a *Accessor) LoadArchive(ctx context.Context) (*model.ArchiveFile, error) {
	if err := a.ensureArchive(); err != nil {
		return nil, err
	}
	var archive model.ArchiveFile
	if err := atomicio.ReadJSON(a.layout.ArchiveFile, &archive); err != nil {
		return nil, err
	}
	return &archive, nil
}

func (a *Accessor) LoadSessions(ctx context.Context) (*model.SessionsFile, error) {
	if err := a.ensureSessions(); err != nil {
		return nil, err
	}
	var sessions model.SessionsFile
	if err := atomicio.ReadJSON(a.layout.SessionsFile, &sessions); err != nil {
		return nil, err
	}
	return &sessions, nil
}

func (a *Accessor) LoadSequence(ctx context.Context) (*model.Sequence, error) {
	if err := a.ensureSequence(); err != nil {
		return nil, err
	}
	var seq model.Sequence
	if err := atomicio.ReadJSON(a.layout.SequenceFile, &seq); err != nil {
		return nil, err
	}
	return &seq, nil
}

func (a *Accessor) MutateTodo(ctx context.Context, fn func(*model.TodoFile) error) error {
	if err := a.ensureTodo(); err != nil {
		return err
	}
	return atomicio.WithFileLock(ctx, a.layout.LockPath("todo"), atomicio.DefaultLockTimeout, func() error {
		var todo model.TodoFile
		if err := atomicio.ReadJSON(a.layout.TodoFile, &todo); err != nil {
			return err
		}
		if err := fn(&todo); err != nil {
			return err
		}
		return atomicio.WriteJSON(a.layout.TodoFile, &todo)
	})
}

func (a *Accessor) MutateArchive(ctx context.Context, fn func(*model.ArchiveFile) error) error {
	if err := a.ensureArchive(); err != nil {
		return err
	}
	return atomicio.WithFileLock(ctx, a.layout.LockPath("archive"), atomicio.DefaultLockTimeout, func() error {
		var archive model.ArchiveFile
		if err := atomicio.ReadJSON(a.layout.ArchiveFile, &archive); err != nil {
			return err
		}
		if err := fn(&archive); err != nil {
			return err
		}
		return atomicio.WriteJSON(a.layout.ArchiveFile, &archive)
	})
}

func (a *Accessor) MutateSessions(ctx context.Context, fn func(*model.SessionsFile) error) error {
	if err := a.ensureSessions(); err != nil {
		return err
	}
	return atomicio.WithFileLock(ctx, a.layout.LockPath("sessions"), atomicio.DefaultLockTimeout, func() error {
		var sessions model.SessionsFile
		if err := atomicio.ReadJSON(a.layout.SessionsFile, &sessions); err != nil {
			return err
		}
		if err := fn(&sessions); err != nil {
			return err
		}
		return atomicio.WriteJSON(a.layout.SessionsFile, &sessions)
	})
}

func (a *Accessor) MutateSequence(ctx context.Context, fn func(*model.Sequence) error) error {
	if err := a.ensureSequence(); err != nil {
		return err
	}
	return atomicio.WithFileLock(ctx, a.layout.LockPath("sequence"), atomicio.DefaultLockTimeout, func() error {
		var seq model.Sequence
		if err := atomicio.ReadJSON(a.layout.SequenceFile, &seq); err != nil {
			return err
		}
		if err := fn(&seq); err != nil {
			return err
		}
		return atomicio.WriteJSON(a.layout.SequenceFile, &seq)
	})
}

// MutateTodoAndArchive locks both resources in canonical order via
// atomicio.WithMultiLock (spec.md §4.B deadlock avoidance) so a
// concurrent archive() and a concurrent restore-from-archive can never
// deadlock against each other.
func (a *Accessor) MutateTodoAndArchive(ctx context.Context, fn func(*model.TodoFile, *model.ArchiveFile) error) error {
	if err := a.ensureTodo(); err != nil {
		return err
	}
	if err := a.ensureArchive(); err != nil {
		return err
	}
	locks := []string{a.layout.LockPath("todo"), a.layout.LockPath("archive")}
	return atomicio.WithMultiLock(ctx, locks, atomicio.DefaultLockTimeout, func() error {
		var todo model.TodoFile
		if err := atomicio.ReadJSON(a.layout.TodoFile, &todo); err != nil {
			return err
		}
		var archive model.ArchiveFile
		if err := atomicio.ReadJSON(a.layout.ArchiveFile, &archive); err != nil {
			return err
		}
		if err := fn(&todo, &archive); err != nil {
			return err
		}
		if err := atomicio.WriteJSON(a.layout.TodoFile, &todo); err != nil {
			return err
		}
		return atomicio.WriteJSON(a.layout.ArchiveFile, &archive)
	})
}

// Query reads the TodoFile without taking the write lock, matching
// spec.md §4.E's read/write split: queries block neither each other
// nor mutations, and only concurrent mutations serialize against each
// other via the lock file.
func (a *Accessor) Query(ctx context.Context, fn func(*model.TodoFile) error) error {
	todo, err := a.LoadTodo(ctx)
	if err != nil {
		return err
	}
	return fn(todo)
}
