// Package storage defines the Accessor interface CLEO's mutate and
// gateway layers use to load and persist the project's aggregate
// documents, and the Config selecting which engine backs it.
//
// Grounded on the teacher's internal/storage.Storage interface (the
// same separation of "interface in the parent package, engines in
// subpackages"), generalized from a 60-method row-oriented issue-CRUD
// interface to CLEO's small, document-oriented one: CLEO's aggregates
// (todo, archive, sessions, sequence) are whole-document reads and
// writes under advisory lock, not per-row SQL CRUD, so the interface
// is sized to that shape rather than copied method-for-method.
package storage

import (
	"context"
	"errors"

	"github.com/cleohq/cleo/internal/model"
)

// ErrNotInitialized is returned when an engine is asked to operate on
// a project that hasn't been set up yet (no .cleo/ state directory).
var ErrNotInitialized = errors.New("storage: project not initialized")

// Engine names a storage backend (spec.md §4.E/§6: "storage.engine is
// either 'json' or 'sqlite'").
type Engine string

const (
	EngineJSON Engine = "json"
	EngineSQL  Engine = "sqlite"
)

// Config selects and configures a storage engine for a project.
type Config struct {
	Engine Engine
	Root   string // project root; the engine derives its own Layout from this
}

// Accessor is the uniform surface both engines implement. Every method
// operates on a whole aggregate document; callers needing
// read-modify-write semantics go through Mutate (file-lock-backed for
// jsonstore, transaction-backed for sqlstore) rather than composing
// Load+Save themselves, so the two engines can guarantee the same
// atomicity contract despite very different underlying mechanics.
type Accessor interface {
	LoadTodo(ctx context.Context) (*model.TodoFile, error)
	LoadArchive(ctx context.Context) (*model.ArchiveFile, error)
	LoadSessions(ctx context.Context) (*model.SessionsFile, error)
	LoadSequence(ctx context.Context) (*model.Sequence, error)

	// MutateTodo runs fn with the current TodoFile and persists whatever
	// fn returns, under whatever concurrency-control the engine uses.
	// fn must be side-effect free beyond mutating the passed document,
	// since an engine may retry it.
	MutateTodo(ctx context.Context, fn func(*model.TodoFile) error) error
	MutateArchive(ctx context.Context, fn func(*model.ArchiveFile) error) error
	MutateSessions(ctx context.Context, fn func(*model.SessionsFile) error) error
	MutateSequence(ctx context.Context, fn func(*model.Sequence) error) error

	// MutateTodoAndArchive runs fn with both documents loaded and
	// persists both, taking locks on both resources in the engine's
	// deadlock-safe order (spec.md §4.F: archive/complete-with-move
	// operations touch both aggregates atomically).
	MutateTodoAndArchive(ctx context.Context, fn func(*model.TodoFile, *model.ArchiveFile) error) error

	// Query runs read-only query logic against a consistent snapshot.
	// For jsonstore this is just a Load; for sqlstore it runs inside a
	// read transaction so concurrent writers can't produce a torn read.
	Query(ctx context.Context, fn func(*model.TodoFile) error) error

	// Engine reports which engine this Accessor is.
	Engine() Engine

	Close() error
}

// New constructs the Accessor for cfg.Engine. Callers normally get
// this from internal/config rather than calling it directly.
func New(cfg Config) (Accessor, error) {
	switch cfg.Engine {
	case EngineSQL:
		return newSQLAccessor(cfg.Root)
	case EngineJSON, "":
		return newJSONAccessor(cfg.Root)
	default:
		return nil, errors.New("storage: unknown engine " + string(cfg.Engine))
	}
}

// newJSONAccessor and newSQLAccessor are filled in by the jsonstore
// and sqlstore packages via init-time registration, avoiding an import
// cycle between storage and its two engine subpackages (both of which
// need storage.Accessor as the interface they implement).
var (
	newJSONAccessor func(root string) (Accessor, error)
	newSQLAccessor  func(root string) (Accessor, error)
)

// RegisterJSONEngine is called from jsonstore's init to plug itself
// into New. Exported so the wiring is visible rather than a magic
// side-effecting blank import.
func RegisterJSONEngine(ctor func(root string) (Accessor, error)) {
	newJSONAccessor = ctor
}

// RegisterSQLEngine is called from sqlstore's init.
func RegisterSQLEngine(ctor func(root string) (Accessor, error)) {
	newSQLAccessor = ctor
}
