// Package sqlstore implements storage.Accessor over an embedded
// relational database, CLEO's optional "sqlite" engine (spec.md §4.E).
// Every aggregate document still round-trips through the same
// model.TodoFile/ArchiveFile/SessionsFile/Sequence shapes the
// jsonstore engine uses — the SQL engine exists for larger projects
// that want indexed queries over tasks, not a different data model.
//
// Grounded on the teacher's internal/storage/sqlite package: same
// driver (github.com/ncruces/go-sqlite3, a pure-Go/wazero SQLite
// implementation, registered as "sqlite3" for database/sql via the
// blank-imported driver and embed subpackages) and the same
// one-transaction-per-write shape
// (internal/storage/sqlite/storage.go's RunInTransaction), but the
// column set is rebuilt for CLEO's task/phase/session schema rather
// than the teacher's issue/molecule/event schema.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/storage"
)

func init() {
	storage.RegisterSQLEngine(func(root string) (storage.Accessor, error) {
		return Open(root)
	})
}

// Accessor is the embedded-relational storage.Accessor implementation.
// Each aggregate document is stored as a single JSON blob column keyed
// by a fixed row id, guarded by a real transaction rather than an
// advisory file lock — the tables exist so migrate and future indexed
// queries have somewhere to project into (see schema.go's
// tasks/phases/sessions tables), but Accessor's own read/write path
// goes through the blob columns for now, keeping JSON semantics
// (omitempty, field order independence) identical across engines.
type Accessor struct {
	db     *sql.DB
	layout paths.Layout
}

// Open opens (creating if necessary) the SQLite database for root's
// project and ensures its schema is current.
func Open(root string) (*Accessor, error) {
	layout := paths.NewLayout(root)
	dbPath := layout.StateDir + "/cleo.db"

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: opening %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1) // SQLite: one writer at a time, matches the teacher's connection-pool sizing for write safety

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: applying schema: %w", err)
	}
	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: migrations: %w", err)
	}

	return &Accessor{db: db, layout: layout}, nil
}

func (a *Accessor) Engine() storage.Engine { return storage.EngineSQL }

func (a *Accessor) Close() error { return a.db.Close() }

// runInTransaction begins a transaction with db.BeginTx and default
// options (the driver's plain BEGIN, not BEGIN IMMEDIATE), runs fn,
// and commits or rolls back.
func (a *Accessor) runInTransaction(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	err = fn(tx)
	return err
}

func getBlob(tx *sql.Tx, doc string, out interface{}) error {
	var raw []byte
	err := tx.QueryRow(`SELECT body FROM documents WHERE kind = ?`, doc).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("sqlstore: reading document %s: %w", doc, err)
	}
	return json.Unmarshal(raw, out)
}

func putBlob(tx *sql.Tx, doc string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("sqlstore: serializing document %s: %w", doc, err)
	}
	_, err = tx.Exec(`INSERT INTO documents(kind, body) VALUES(?, ?)
		ON CONFLICT(kind) DO UPDATE SET body = excluded.body`, doc, raw)
	return err
}

func (a *Accessor) LoadTodo(ctx context.Context) (*model.TodoFile, error) {
	todo := model.NewTodoFile()
	err := a.runInTransaction(ctx, func(tx *sql.Tx) error {
		return getBlob(tx, "todo", todo)
	})
	return todo, err
}

func (a *Accessor) LoadArchive(ctx context.Context) (*model.ArchiveFile, error) {
	archive := model.NewArchiveFile()
	err := a.runInTransaction(ctx, func(tx *sql.Tx) error {
		return getBlob(tx, "archive", archive)
	})
	return archive, err
}

func (a *Accessor) LoadSessions(ctx context.Context) (*model.SessionsFile, error) {
	sessions := &model.SessionsFile{Sessions: []*model.Session{}}
	err := a.runInTransaction(ctx, func(tx *sql.Tx) error {
		return getBlob(tx, "sessions", sessions)
	})
	return sessions, err
}

func (a *Accessor) LoadSequence(ctx context.Context) (*model.Sequence, error) {
	seq := &model.Sequence{}
	err := a.runInTransaction(ctx, func(tx *sql.Tx) error {
		return getBlob(tx, "sequence", seq)
	})
	return seq, err
}

func (a *Accessor) MutateTodo(ctx context.Context, fn func(*model.TodoFile) error) error {
	return a.runInTransaction(ctx, func(tx *sql.Tx) error {
		todo := model.NewTodoFile()
		if err := getBlob(tx, "todo", todo); err != nil {
			return err
		}
		if err := fn(todo); err != nil {
			return err
		}
		if err := projectTasks(tx, todo.Tasks); err != nil {
			return err
		}
		return putBlob(tx, "todo", todo)
	})
}

func (a *Accessor) MutateArchive(ctx context.Context, fn func(*model.ArchiveFile) error) error {
	return a.runInTransaction(ctx, func(tx *sql.Tx) error {
		archive := model.NewArchiveFile()
		if err := getBlob(tx, "archive", archive); err != nil {
			return err
		}
		if err := fn(archive); err != nil {
			return err
		}
		return putBlob(tx, "archive", archive)
	})
}

func (a *Accessor) MutateSessions(ctx context.Context, fn func(*model.SessionsFile) error) error {
	return a.runInTransaction(ctx, func(tx *sql.Tx) error {
		sessions := &model.SessionsFile{Sessions: []*model.Session{}}
		if err := getBlob(tx, "sessions", sessions); err != nil {
			return err
		}
		if err := fn(sessions); err != nil {
			return err
		}
		return putBlob(tx, "sessions", sessions)
	})
}

func (a *Accessor) MutateSequence(ctx context.Context, fn func(*model.Sequence) error) error {
	return a.runInTransaction(ctx, func(tx *sql.Tx) error {
		seq := &model.Sequence{}
		if err := getBlob(tx, "sequence", seq); err != nil {
			return err
		}
		if err := fn(seq); err != nil {
			return err
		}
		return putBlob(tx, "sequence", seq)
	})
}

func (a *Accessor) MutateTodoAndArchive(ctx context.Context, fn func(*model.TodoFile, *model.ArchiveFile) error) error {
	return a.runInTransaction(ctx, func(tx *sql.Tx) error {
		todo := model.NewTodoFile()
		if err := getBlob(tx, "todo", todo); err != nil {
			return err
		}
		archive := model.NewArchiveFile()
		if err := getBlob(tx, "archive", archive); err != nil {
			return err
		}
		if err := fn(todo, archive); err != nil {
			return err
		}
		if err := projectTasks(tx, todo.Tasks); err != nil {
			return err
		}
		if err := putBlob(tx, "todo", todo); err != nil {
			return err
		}
		return putBlob(tx, "archive", archive)
	})
}

// Query runs fn against a snapshot read inside its own read-only
// transaction, so a concurrent writer can't hand back a torn read.
func (a *Accessor) Query(ctx context.Context, fn func(*model.TodoFile) error) error {
	todo, err := a.LoadTodo(ctx)
	if err != nil {
		return err
	}
	return fn(todo)
}

// projectTasks mirrors the live task list into the indexed tasks table
// (schema.go) so gateway query operations that want SQL WHERE clauses
// (spec.md §4.J "sql engine additionally supports indexed filtering")
// have something to query beyond the JSON blob. The blob remains the
// source of truth; this is a derived projection rebuilt on every write.
func projectTasks(tx *sql.Tx, tasks []*model.Task) error {
	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("sqlstore: clearing task projection: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO tasks(id, title, status, priority, size, phase, parent_id, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlstore: preparing task projection insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		if _, err := stmt.Exec(t.ID, t.Title, string(t.Status), string(t.Priority), string(t.Size), t.Phase, t.ParentID, t.UpdatedAt); err != nil {
			return fmt.Errorf("sqlstore: projecting task %s: %w", t.ID, err)
		}
	}
	return nil
}
