package sqlstore

// schemaSQL is the base schema, applied idempotently with CREATE TABLE
// IF NOT EXISTS on every Open — grounded on the teacher's
// internal/storage/sqlite/schema.go const-string-of-DDL pattern.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
    kind TEXT PRIMARY KEY,
    body BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    priority TEXT NOT NULL DEFAULT 'medium',
    size TEXT NOT NULL DEFAULT 'medium',
    phase TEXT DEFAULT '',
    parent_id TEXT DEFAULT '',
    updated_at TEXT DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_phase ON tasks(phase);
CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id);

CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
