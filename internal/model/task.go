// Package model defines CLEO's persistent entities (spec.md §3): Task,
// Phase, Session, Sequence, Verification, and the TodoFile aggregate
// root, along with the invariants (I-1..I-8) that every mutation must
// preserve.
//
// Grounded on the teacher's types (referenced but not retrieved in
// this pack as `internal/types`; the shape is reconstructed from
// `beads.go`'s re-exports and `internal/storage/sqlite/schema.go`'s
// column set) and generalized from an issue-tracker schema to CLEO's
// task/phase/session model.
package model

import "fmt"

// Status is a task's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusBlocked   Status = "blocked"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether s is one of the fixed task statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusBlocked, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Priority is a task's urgency tier.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Weight returns the priority weight used by the task ordering score
// (spec.md §4.F: "priority weights {low:1, medium:2, high:5, critical:10}").
func (p Priority) Weight() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 5
	case PriorityCritical:
		return 10
	default:
		return 0
	}
}

// Size is a task's estimated scope.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

func (s Size) IsValid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// Weight returns the size weight used by the task ordering score
// (spec.md §4.F: "size weights {small:1, medium:3, large:8}").
func (s Size) Weight() int {
	switch s {
	case SizeSmall:
		return 1
	case SizeMedium:
		return 3
	case SizeLarge:
		return 8
	default:
		return 0
	}
}

// TaskType distinguishes epics, plain tasks, and subtasks. Optional;
// the zero value means "unspecified" rather than TypeTask.
type TaskType string

const (
	TypeEpic    TaskType = "epic"
	TypeTask    TaskType = "task"
	TypeSubtask TaskType = "subtask"
)

func (t TaskType) IsValid() bool {
	switch t {
	case "", TypeEpic, TypeTask, TypeSubtask:
		return true
	}
	return false
}

// Note is one entry in a task's append-only notes list.
type Note struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
	Author    string `json:"author,omitempty"`
}

// Task is CLEO's central entity (spec.md §3).
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	Size        Size     `json:"size"`
	Type        TaskType `json:"type,omitempty"`
	ParentID    string   `json:"parentId,omitempty"`
	Phase       string   `json:"phase,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Depends     []string `json:"depends,omitempty"`
	BlockedBy   []string `json:"blockedBy,omitempty"`
	Files       []string `json:"files,omitempty"`
	Acceptance  []string `json:"acceptance,omitempty"`
	Notes       []Note   `json:"notes,omitempty"`

	// CreatedBy is the agent that created the task, used by
	// circular-approval prevention (spec.md §4.H) to forbid that same
	// agent from setting its own verification gates.
	CreatedBy string `json:"createdBy,omitempty"`

	Verification Verification `json:"verification"`

	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
	CompletedAt *string `json:"completedAt,omitempty"`
	CancelledAt *string `json:"cancelledAt,omitempty"`
}

// IsEpic reports whether the task is typed as an epic.
func (t *Task) IsEpic() bool { return t.Type == TypeEpic }

// IsLive reports whether the task counts toward live-set invariants
// (anything not cancelled; done tasks are still "live" until archived).
func (t *Task) IsLive() bool { return t.Status != StatusCancelled }

// Score computes the task ordering score used for "next task"
// suggestions and explicit weighted list ordering (spec.md §4.F):
//
//	priorityWeight*10 + (8 - sizeWeight)*2 + statusBonus
//
// where statusBonus is +50 for active, -20 for blocked, 0 otherwise.
func (t *Task) Score() int {
	score := t.Priority.Weight()*10 + (8-t.Size.Weight())*2
	switch t.Status {
	case StatusActive:
		score += 50
	case StatusBlocked:
		score -= 20
	}
	return score
}

// ParseNumericID extracts the decimal suffix of a "T<decimal>" id.
// Returns 0, false if id doesn't match the canonical shape.
func ParseNumericID(id string) (int, bool) {
	if len(id) < 2 || id[0] != 'T' {
		return 0, false
	}
	n := 0
	for _, r := range id[1:] {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return 0, false
	}
	return n, true
}

// FormatID renders the canonical "T<decimal>" id for a sequence value.
func FormatID(n int) string {
	return fmt.Sprintf("T%d", n)
}
