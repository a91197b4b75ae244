// Package cleo provides a minimal public API for embedding CLEO's
// task-management engine in Go programs without shelling out to the
// cleo binary.
//
// Most callers should use the cleo binary and its JSON envelope output
// (spec.md §4.J) for cross-process and cross-language integration.
// This package exports only the essential types and constructors
// needed for Go-based extensions that want to drive CLEO's storage and
// gateway layers programmatically, in the same spirit as the teacher's
// own beads.go shim.
package cleo

import (
	"context"

	"github.com/cleohq/cleo/internal/gateway"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/storage"
	_ "github.com/cleohq/cleo/internal/storage/jsonstore"
	_ "github.com/cleohq/cleo/internal/storage/sqlstore"
)

// Accessor is the interface for CLEO storage operations.
type Accessor = storage.Accessor

// StorageConfig selects and configures a storage engine for a project.
type StorageConfig = storage.Config

// Engine names a storage backend ("json" or "sqlite").
type Engine = storage.Engine

const (
	EngineJSON = storage.EngineJSON
	EngineSQL  = storage.EngineSQL
)

// NewStorage constructs the Accessor for cfg.Engine.
func NewStorage(cfg StorageConfig) (Accessor, error) {
	return storage.New(cfg)
}

// Layout is the set of canonical on-disk locations beneath a project
// root (spec.md §6).
type Layout = paths.Layout

// NewLayout derives a project's Layout from its root directory.
func NewLayout(root string) Layout {
	return paths.NewLayout(root)
}

// FindProjectRoot walks upward from dir looking for a .cleo/ marker,
// honoring CLEO_ROOT. Returns "" if none found.
func FindProjectRoot(dir string) string {
	return paths.FindProjectRoot(dir)
}

// Matrix is the gateway's dispatch table (spec.md §4.J).
type Matrix = gateway.Matrix

// CLIRunner shells out to a bundled engine binary for CLI-only
// operations (spec.md §4.J).
type CLIRunner = gateway.CLIRunner

// NewCLIRunner returns a runner that locates the bundled engine binary
// on PATH.
func NewCLIRunner() *CLIRunner {
	return gateway.NewCLIRunner()
}

// NewGateway wires storage, project layout, and a CLIRunner into a
// fully registered dispatch Matrix covering every domain in spec.md's
// capability matrix.
func NewGateway(store Accessor, layout Layout, runner *CLIRunner) *Matrix {
	return gateway.NewDefaultMatrix(store, layout, runner)
}

// Dispatch is re-exported for embedders that want to drive the
// gateway directly instead of through Matrix.
func Dispatch(ctx context.Context, m *Matrix, kind Kind, domain Domain, operation string, params interface{}, hasCLI bool) Envelope {
	return m.Dispatch(ctx, kind, domain, operation, params, hasCLI)
}

// Envelope, Kind, Domain, and Mode are the gateway's uniform response
// and taxonomy types (spec.md §4.J).
type (
	Envelope = gateway.Envelope
	Kind     = gateway.Kind
	Domain   = gateway.Domain
	Mode     = gateway.Mode
)

const (
	KindQuery  = gateway.KindQuery
	KindMutate = gateway.KindMutate
)

const (
	DomainTasks       = gateway.DomainTasks
	DomainSessions    = gateway.DomainSessions
	DomainPhases      = gateway.DomainPhases
	DomainValidate    = gateway.DomainValidate
	DomainSystem      = gateway.DomainSystem
	DomainOrchestrate = gateway.DomainOrchestrate
	DomainResearch    = gateway.DomainResearch
	DomainLifecycle   = gateway.DomainLifecycle
	DomainRelease     = gateway.DomainRelease
	DomainNexus       = gateway.DomainNexus
	DomainIssues      = gateway.DomainIssues
)

// Core types from internal/model.
type (
	Task            = model.Task
	Note            = model.Note
	Status          = model.Status
	Priority        = model.Priority
	Size            = model.Size
	TaskType        = model.TaskType
	Phase           = model.Phase
	PhaseStatus     = model.PhaseStatus
	PhaseTransition = model.PhaseTransition
	ProjectMeta     = model.ProjectMeta
	Session         = model.Session
	SessionStatus   = model.SessionStatus
	TodoFile        = model.TodoFile
	ArchiveFile     = model.ArchiveFile
)

// Status constants.
const (
	StatusPending   = model.StatusPending
	StatusActive    = model.StatusActive
	StatusBlocked   = model.StatusBlocked
	StatusDone      = model.StatusDone
	StatusCancelled = model.StatusCancelled
)

// Priority constants.
const (
	PriorityLow      = model.PriorityLow
	PriorityMedium   = model.PriorityMedium
	PriorityHigh     = model.PriorityHigh
	PriorityCritical = model.PriorityCritical
)

// Size constants.
const (
	SizeSmall  = model.SizeSmall
	SizeMedium = model.SizeMedium
	SizeLarge  = model.SizeLarge
)

// TaskType constants.
const (
	TypeEpic    = model.TypeEpic
	TypeTask    = model.TypeTask
	TypeSubtask = model.TypeSubtask
)

// SessionStatus constants.
const (
	SessionActive   = model.SessionActive
	SessionEnded    = model.SessionEnded
	SessionOrphaned = model.SessionOrphaned
)
