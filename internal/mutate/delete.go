package mutate

import (
	"context"
	"sort"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/schema"
)

// DeleteStrategy selects how delete() handles a task's children
// (spec.md §4.F delete()).
type DeleteStrategy string

const (
	DeleteBlock   DeleteStrategy = "block"
	DeleteCascade DeleteStrategy = "cascade"
	DeleteOrphan  DeleteStrategy = "orphan"
)

// DeleteImpact previews what a delete would do, without mutating
// anything (spec.md §4.F: "Always offered in --dry-run with an impact
// report").
type DeleteImpact struct {
	WouldDelete        []string
	DependentsAffected []string
	Warnings           []string
}

// PreviewDelete computes DeleteImpact for deleting id under strategy,
// without touching storage.
func (c *Core) PreviewDelete(ctx context.Context, id string, strategy DeleteStrategy) (*DeleteImpact, error) {
	var impact *DeleteImpact
	err := c.Store.Query(ctx, func(todo *model.TodoFile) error {
		computed, err := computeDeleteImpact(todo, id, strategy)
		if err != nil {
			return err
		}
		impact = computed
		return nil
	})
	return impact, err
}

func computeDeleteImpact(todo *model.TodoFile, id string, strategy DeleteStrategy) (*DeleteImpact, error) {
	if todo.FindTask(id) == nil {
		return nil, taskNotFound(todo.Tasks, id)
	}

	h := model.BuildHierarchy(todo.Tasks)
	children := h.Children(id)

	if len(children) > 0 && strategy == DeleteBlock {
		return nil, apperr.New(apperr.CodeInvalidOperation, "task "+id+" has children; pass --strategy cascade or --strategy orphan").
			WithFix("retry with --strategy cascade to delete descendants, or --strategy orphan to re-parent them")
	}

	toDelete := map[string]bool{id: true}
	if strategy == DeleteCascade {
		for _, d := range h.Descendants(id) {
			toDelete[d.ID] = true
		}
	}

	var wouldDelete []string
	for tid := range toDelete {
		wouldDelete = append(wouldDelete, tid)
	}
	sort.Strings(wouldDelete)

	var dependents []string
	var warnings []string
	for _, t := range todo.Tasks {
		if toDelete[t.ID] {
			continue
		}
		for _, dep := range t.Depends {
			if toDelete[dep] {
				dependents = append(dependents, t.ID)
				break
			}
		}
	}
	sort.Strings(dependents)
	if len(dependents) > 0 {
		warnings = append(warnings, "W_BROKEN_DEPS")
	}

	return &DeleteImpact{WouldDelete: wouldDelete, DependentsAffected: dependents, Warnings: warnings}, nil
}

// Delete removes id (and, under cascade, its descendants; under
// orphan, re-parents its children) and strips now-dangling depends
// edges from every surviving task, all inside one atomic write
// (spec.md §4.F, concrete scenario 3).
func (c *Core) Delete(ctx context.Context, id string, strategy DeleteStrategy) (*DeleteImpact, error) {
	var impact *DeleteImpact

	err := c.Store.MutateTodo(ctx, func(todo *model.TodoFile) error {
		computed, err := computeDeleteImpact(todo, id, strategy)
		if err != nil {
			return err
		}
		impact = computed

		toDelete := make(map[string]bool, len(impact.WouldDelete))
		for _, tid := range impact.WouldDelete {
			toDelete[tid] = true
		}

		if strategy == DeleteOrphan {
			deletedParent := todo.FindTask(id).ParentID
			for _, t := range todo.Tasks {
				if t.ParentID == id {
					t.ParentID = deletedParent
				}
			}
		}

		remaining := todo.Tasks[:0]
		for _, t := range todo.Tasks {
			if toDelete[t.ID] {
				continue
			}
			t.Depends = removeAll(t.Depends, toDelete)
			t.BlockedBy = removeAll(t.BlockedBy, toDelete)
			remaining = append(remaining, t)
		}
		todo.Tasks = remaining
		todo.Meta.Checksum = schema.ChecksumTasks(todo.Tasks)

		return validateAndCommit(todo, model.NewArchiveFile())
	})
	if err != nil {
		return nil, err
	}

	_ = c.appendAudit(ctx, model.AuditEntry{
		Operation: "task_deleted",
		TaskID:    id,
		Details:   map[string]interface{}{"strategy": string(strategy), "deleted": impact.WouldDelete},
	})
	return impact, nil
}

func removeAll(ids []string, remove map[string]bool) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if !remove[id] {
			out = append(out, id)
		}
	}
	return out
}
