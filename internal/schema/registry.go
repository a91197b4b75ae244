package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/cleohq/cleo/internal/model"
)

// DocumentKind names one of the aggregate documents CLEO persists
// (spec.md §3 Ownership). The registry exists so callers (upgrade,
// doctor, gateway's validate domain) can describe "which document" in
// structured form instead of a bare string.
type DocumentKind string

const (
	DocumentTodo     DocumentKind = "todo"
	DocumentArchive  DocumentKind = "archive"
	DocumentSessions DocumentKind = "sessions"
	DocumentSequence DocumentKind = "sequence"
	DocumentConfig   DocumentKind = "config"
)

// Descriptor names a document kind and its current schema version,
// mirroring the small
// registry the teacher kept for its own on-disk formats.
type Descriptor struct {
	Kind          DocumentKind
	SchemaVersion string
}

// Registry lists every document kind CLEO owns, in the fixed order the
// upgrade subsystem processes them (todo before archive before
// sessions: archive and sessions may reference ids minted by todo's
// sequence, so todo goes first).
var Registry = []Descriptor{
	{Kind: DocumentTodo, SchemaVersion: model.SchemaVersion},
	{Kind: DocumentArchive, SchemaVersion: model.SchemaVersion},
	{Kind: DocumentSessions, SchemaVersion: model.SchemaVersion},
	{Kind: DocumentSequence, SchemaVersion: model.SchemaVersion},
	{Kind: DocumentConfig, SchemaVersion: model.SchemaVersion},
}

// ChecksumTasks computes the deterministic hash of a task list used by
// invariant I-5 ("checksum recomputed on every write"). Tasks are
// hashed in id-sorted order, independent of slice order, so reordering
// the in-memory list without changing content never trips the check.
func ChecksumTasks(tasks []*model.Task) string {
	sorted := make([]*model.Task, len(tasks))
	copy(sorted, tasks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, t := range sorted {
		_ = enc.Encode(t)
	}
	return hex.EncodeToString(h.Sum(nil))
}
