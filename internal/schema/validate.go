// Package schema implements spec.md §4.C: structural validation of the
// on-disk aggregates, and the repair/doctor layers built on top of it.
//
// The teacher (and the rest of the examples pack) has no JSON-schema
// library in its dependency graph — BeadsLog's internal/validation
// hand-writes Go validators (ParsePriority, ValidateIDFormat, ...)
// rather than compiling a schema document. CLEO follows the same
// idiom: no third-party JSON-schema engine exists in the corpus to
// reach for, so validation here is hand-written Go over the model
// package's types, grounded on untoldecay-BeadsLog/internal/validation/bead.go's
// style of small, independently testable Validate* functions.
package schema

import (
	"fmt"
	"sort"

	"github.com/cleohq/cleo/internal/model"
)

// Violation is one invariant or structural failure found by Validate.
type Violation struct {
	Code    string // e.g. "I-2", "I-8"
	Message string
	TaskID  string // empty if project-scoped
}

func (v Violation) Error() string {
	if v.TaskID != "" {
		return fmt.Sprintf("%s: %s (task %s)", v.Code, v.Message, v.TaskID)
	}
	return fmt.Sprintf("%s: %s", v.Code, v.Message)
}

// Validate checks every invariant in spec.md §3 (I-1..I-8) against a
// TodoFile plus the archive it's paired with (dependencies and
// parent/child references may point into either aggregate, per I-8).
// It never mutates its inputs.
func Validate(todo *model.TodoFile, archive *model.ArchiveFile) []Violation {
	var violations []Violation

	live := make(map[string]*model.Task, len(todo.Tasks))
	allIDs := make(map[string]bool, len(todo.Tasks)+len(archive.Tasks))
	for _, t := range todo.Tasks {
		live[t.ID] = t
		allIDs[t.ID] = true
	}
	for _, t := range archive.Tasks {
		allIDs[t.ID] = true
	}

	violations = append(violations, validateSequence(todo, live, archive)...)
	violations = append(violations, validateParents(todo.Tasks, allIDs)...)
	violations = append(violations, validateReferences(todo.Tasks, allIDs)...)
	violations = append(violations, validateAcyclicDependencies(todo.Tasks, live)...)
	violations = append(violations, validateCompletionTimestamps(todo.Tasks)...)
	violations = append(violations, validateSinglePhaseActive(&todo.Project)...)
	violations = append(violations, validatePhaseTimestamps(&todo.Project)...)
	violations = append(violations, validateChecksum(todo)...)

	return violations
}

// validateSequence checks I-1: the sequence counter must be >= the max
// numeric suffix across live and archived tasks. Validate itself
// doesn't carry the Sequence document (that's a sibling aggregate), so
// this only checks internal consistency of ids within the two
// aggregates it does have: no duplicate ids, and every id parses.
func validateSequence(todo *model.TodoFile, live map[string]*model.Task, archive *model.ArchiveFile) []Violation {
	var violations []Violation
	seen := make(map[string]bool, len(todo.Tasks)+len(archive.Tasks))
	for _, t := range todo.Tasks {
		if _, ok := model.ParseNumericID(t.ID); !ok {
			violations = append(violations, Violation{Code: "I-1", Message: "malformed task id", TaskID: t.ID})
			continue
		}
		if seen[t.ID] {
			violations = append(violations, Violation{Code: "I-1", Message: "duplicate task id", TaskID: t.ID})
		}
		seen[t.ID] = true
	}
	for _, t := range archive.Tasks {
		if seen[t.ID] {
			violations = append(violations, Violation{Code: "I-1", Message: "id present in both live and archive aggregates", TaskID: t.ID})
		}
		seen[t.ID] = true
	}
	_ = live
	return violations
}

// validateParents checks I-3: parentId, if present, resolves to an
// existing live or archived task (I-8), and there are no parent cycles.
func validateParents(tasks []*model.Task, allIDs map[string]bool) []Violation {
	var violations []Violation
	h := model.BuildHierarchy(tasks)
	for _, t := range tasks {
		if t.ParentID == "" {
			continue
		}
		if !allIDs[t.ParentID] {
			violations = append(violations, Violation{Code: "I-3", Message: fmt.Sprintf("parentId %q does not exist", t.ParentID), TaskID: t.ID})
			continue
		}
		if h.HasCycle(t.ID) {
			violations = append(violations, Violation{Code: "I-3", Message: "parent cycle detected", TaskID: t.ID})
		}
	}
	return violations
}

// validateReferences checks I-8: depends/blockedBy reference only ids
// that exist in the live or archive aggregate (parentId is checked by
// validateParents).
func validateReferences(tasks []*model.Task, allIDs map[string]bool) []Violation {
	var violations []Violation
	for _, t := range tasks {
		for _, dep := range t.Depends {
			if !allIDs[dep] {
				violations = append(violations, Violation{Code: "I-8", Message: fmt.Sprintf("depends references unknown id %q", dep), TaskID: t.ID})
			}
		}
		for _, dep := range t.BlockedBy {
			if !allIDs[dep] {
				violations = append(violations, Violation{Code: "I-8", Message: fmt.Sprintf("blockedBy references unknown id %q", dep), TaskID: t.ID})
			}
		}
	}
	return violations
}

// validateAcyclicDependencies checks I-2: the dependency graph is
// acyclic across live tasks. Depth-first with a recursion stack so the
// exact cycle chain can be reported (surfaced as VALIDATION_ERROR with
// the offending chain, spec.md §9).
func validateAcyclicDependencies(tasks []*model.Task, live map[string]*model.Task) []Violation {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(tasks))
	var violations []Violation

	var visit func(id string, stack []string) []string
	visit = func(id string, stack []string) []string {
		color[id] = gray
		stack = append(stack, id)
		task, ok := live[id]
		if ok {
			for _, dep := range task.Depends {
				if _, exists := live[dep]; !exists {
					continue // unresolved references are I-8, not a cycle
				}
				switch color[dep] {
				case white:
					if chain := visit(dep, stack); chain != nil {
						return chain
					}
				case gray:
					return append(append([]string{}, stack...), dep)
				}
			}
		}
		color[id] = black
		return nil
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	sort.Strings(ids) // deterministic traversal order for reproducible error chains

	for _, id := range ids {
		if color[id] == white {
			if chain := visit(id, nil); chain != nil {
				violations = append(violations, Violation{
					Code:    "I-2",
					Message: fmt.Sprintf("dependency cycle: %v", chain),
					TaskID:  chain[0],
				})
			}
		}
	}
	return violations
}

// validateCompletionTimestamps checks I-4 for tasks: a done task must
// have completedAt.
func validateCompletionTimestamps(tasks []*model.Task) []Violation {
	var violations []Violation
	for _, t := range tasks {
		if t.Status == model.StatusDone && t.CompletedAt == nil {
			violations = append(violations, Violation{Code: "I-4", Message: "done task missing completedAt", TaskID: t.ID})
		}
	}
	return violations
}

// validateSinglePhaseActive checks I-7: at most one phase has
// status=active.
func validateSinglePhaseActive(project *model.ProjectMeta) []Violation {
	active := 0
	for _, ph := range project.Phases {
		if ph.Status == model.PhaseStatusActive {
			active++
		}
	}
	if active > 1 {
		return []Violation{{Code: "I-7", Message: fmt.Sprintf("%d phases are active; at most one is allowed", active)}}
	}
	return nil
}

// validatePhaseTimestamps checks I-4 for phases: active implies
// startedAt, completed implies completedAt.
func validatePhaseTimestamps(project *model.ProjectMeta) []Violation {
	var violations []Violation
	for name, ph := range project.Phases {
		if ph.Status == model.PhaseStatusActive && ph.StartedAt == nil {
			violations = append(violations, Violation{Code: "I-4", Message: fmt.Sprintf("active phase %q missing startedAt", name)})
		}
		if ph.Status == model.PhaseStatusCompleted && ph.CompletedAt == nil {
			violations = append(violations, Violation{Code: "I-4", Message: fmt.Sprintf("completed phase %q missing completedAt", name)})
		}
	}
	return violations
}

// validateChecksum checks I-5: the stored checksum matches a fresh
// hash of the task list.
func validateChecksum(todo *model.TodoFile) []Violation {
	want := ChecksumTasks(todo.Tasks)
	if todo.Meta.Checksum != "" && todo.Meta.Checksum != want {
		return []Violation{{Code: "I-5", Message: "checksum does not match task list"}}
	}
	return nil
}
