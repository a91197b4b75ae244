package schema

import (
	"fmt"

	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
)

// RepairAction describes one structural fix repair.go knows how to
// make, matching spec.md §4.C's enumerated repair set.
type RepairAction struct {
	Code        string
	Description string
	TaskID      string
}

// RepairPlan is the result of planning repairs: every action that
// would be taken, computed without mutating anything. Callers run it
// once to preview (--dry-run, the default) and again with Apply to
// commit.
type RepairPlan struct {
	Actions []RepairAction
}

func (p *RepairPlan) add(code, desc, taskID string) {
	p.Actions = append(p.Actions, RepairAction{Code: code, Description: desc, TaskID: taskID})
}

// Empty reports whether the plan has nothing to do.
func (p *RepairPlan) Empty() bool { return len(p.Actions) == 0 }

// Plan inspects a TodoFile (plus its archive and sequence) and builds
// the list of repairs that would bring it back into compliance with
// invariants I-1..I-8, per the fixed set spec.md §4.C names:
// recompute checksum, backfill completedAt/size, catch up the sequence
// counter, collapse multiple active phases, and drop dangling
// depends/blockedBy references. It never mutates its inputs.
func Plan(todo *model.TodoFile, archive *model.ArchiveFile, seq *model.Sequence) *RepairPlan {
	plan := &RepairPlan{}

	if want := ChecksumTasks(todo.Tasks); todo.Meta.Checksum != want {
		plan.add("I-5", "recompute checksum", "")
	}

	maxID := 0
	for _, t := range todo.Tasks {
		if n, ok := model.ParseNumericID(t.ID); ok && n > maxID {
			maxID = n
		}
		if t.Status == model.StatusDone && t.CompletedAt == nil {
			plan.add("I-4", "backfill completedAt from updatedAt", t.ID)
		}
		if t.Size == "" {
			plan.add("I-6", "backfill missing size to medium", t.ID)
		}
	}
	for _, t := range archive.Tasks {
		if n, ok := model.ParseNumericID(t.ID); ok && n > maxID {
			maxID = n
		}
	}
	if seq.Counter < maxID {
		plan.add("I-1", fmt.Sprintf("advance sequence counter from %d to %d", seq.Counter, maxID), "")
	}

	active := activePhases(&todo.Project)
	if len(active) > 1 {
		// Keep the active phase with the lowest Order, collapse the rest to
		// pending (spec.md §4.C: "collapse multiple active phases").
		for _, name := range active[1:] {
			plan.add("I-7", fmt.Sprintf("collapse phase %q from active to pending", name), "")
		}
	}

	allIDs := make(map[string]bool, len(todo.Tasks)+len(archive.Tasks))
	for _, t := range todo.Tasks {
		allIDs[t.ID] = true
	}
	for _, t := range archive.Tasks {
		allIDs[t.ID] = true
	}
	for _, t := range todo.Tasks {
		for _, dep := range t.Depends {
			if !allIDs[dep] {
				plan.add("I-8", fmt.Sprintf("drop dangling depends reference %q", dep), t.ID)
			}
		}
		for _, dep := range t.BlockedBy {
			if !allIDs[dep] {
				plan.add("I-8", fmt.Sprintf("drop dangling blockedBy reference %q", dep), t.ID)
			}
		}
	}

	return plan
}

// Apply mutates todo, archive, and seq in place to carry out plan's
// actions. Callers are responsible for persisting the results under
// the appropriate file lock (internal/atomicio.WithLock); Apply itself
// performs no I/O.
func Apply(plan *RepairPlan, todo *model.TodoFile, archive *model.ArchiveFile, seq *model.Sequence) {
	now := paths.NowISO()

	for _, action := range plan.Actions {
		switch action.Code {
		case "I-4":
			if t := todo.FindTask(action.TaskID); t != nil && t.CompletedAt == nil {
				completedAt := t.UpdatedAt
				if completedAt == "" {
					completedAt = now
				}
				t.CompletedAt = &completedAt
			}
		case "I-6":
			if t := todo.FindTask(action.TaskID); t != nil && t.Size == "" {
				t.Size = model.SizeMedium
			}
		case "I-1":
			maxID := seq.Counter
			for _, t := range todo.Tasks {
				if n, ok := model.ParseNumericID(t.ID); ok && n > maxID {
					maxID = n
				}
			}
			for _, t := range archive.Tasks {
				if n, ok := model.ParseNumericID(t.ID); ok && n > maxID {
					maxID = n
				}
			}
			seq.Counter = maxID
		case "I-7":
			collapseExtraActivePhases(&todo.Project)
		case "I-8":
			if t := todo.FindTask(action.TaskID); t != nil {
				t.Depends = dropDangling(t.Depends, todo, archive)
				t.BlockedBy = dropDangling(t.BlockedBy, todo, archive)
			}
		}
	}

	todo.Meta.Checksum = ChecksumTasks(todo.Tasks)
	todo.LastUpdated = now
}

// activePhases returns the names of every active phase, ordered by
// Order ascending so the "keep the first" rule in Plan is deterministic.
func activePhases(project *model.ProjectMeta) []string {
	var names []string
	for _, ph := range project.OrderedPhases() {
		if ph.Status == model.PhaseStatusActive {
			names = append(names, ph.Name)
		}
	}
	return names
}

func collapseExtraActivePhases(project *model.ProjectMeta) {
	active := activePhases(project)
	for i, name := range active {
		if i == 0 {
			continue
		}
		if ph, ok := project.Phases[name]; ok {
			ph.Status = model.PhaseStatusPending
			ph.StartedAt = nil
		}
	}
}

func dropDangling(ids []string, todo *model.TodoFile, archive *model.ArchiveFile) []string {
	known := make(map[string]bool, len(todo.Tasks)+len(archive.Tasks))
	for _, t := range todo.Tasks {
		known[t.ID] = true
	}
	for _, t := range archive.Tasks {
		known[t.ID] = true
	}
	out := ids[:0:0]
	for _, id := range ids {
		if known[id] {
			out = append(out, id)
		}
	}
	return out
}
