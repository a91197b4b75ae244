package mutate

import (
	"context"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/schema"
)

// Patch carries the fields update() may change; a nil pointer field
// means "leave unchanged" (spec.md §4.F: "partial update").
type Patch struct {
	Title       *string
	Description *string
	Status      *model.Status
	Priority    *model.Priority
	Size        *model.Size
	ParentID    *string
	Phase       *string
	Labels      []string
	Depends     []string
	BlockedBy   []string
	Files       []string
	Acceptance  []string
}

// Diff summarizes which fields changed, recorded in the audit log.
type Diff map[string]interface{}

// Update partially updates a task, rejecting any change that would
// introduce a dependency or parent cycle, and stamps updatedAt
// (spec.md §4.F update()).
func (c *Core) Update(ctx context.Context, id string, patch Patch) (*model.Task, Diff, error) {
	var updated *model.Task
	diff := Diff{}

	err := c.Store.MutateTodo(ctx, func(todo *model.TodoFile) error {
		task := todo.FindTask(id)
		if task == nil {
			return taskNotFound(todo.Tasks, id)
		}

		if patch.Title != nil && *patch.Title != task.Title {
			diff["title"] = map[string]string{"from": task.Title, "to": *patch.Title}
			task.Title = *patch.Title
		}
		if patch.Description != nil {
			task.Description = *patch.Description
		}
		if patch.Status != nil && *patch.Status != task.Status {
			if !patch.Status.IsValid() {
				return apperr.New(apperr.CodeInvalidInput, "invalid status "+string(*patch.Status))
			}
			diff["status"] = map[string]string{"from": string(task.Status), "to": string(*patch.Status)}
			task.Status = *patch.Status
		}
		if patch.Priority != nil {
			task.Priority = *patch.Priority
		}
		if patch.Size != nil {
			task.Size = *patch.Size
		}
		if patch.Phase != nil {
			task.Phase = *patch.Phase
		}
		if patch.Labels != nil {
			task.Labels = patch.Labels
		}
		if patch.Files != nil {
			task.Files = patch.Files
		}
		if patch.Acceptance != nil {
			task.Acceptance = patch.Acceptance
		}
		if patch.Depends != nil {
			task.Depends = patch.Depends
		}
		if patch.BlockedBy != nil {
			task.BlockedBy = patch.BlockedBy
		}
		if patch.ParentID != nil {
			task.ParentID = *patch.ParentID
		}

		task.UpdatedAt = paths.NowISO()
		todo.LastUpdated = task.UpdatedAt
		todo.Meta.Checksum = schema.ChecksumTasks(todo.Tasks)

		if err := validateAndCommit(todo, model.NewArchiveFile()); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	_ = c.appendAudit(ctx, model.AuditEntry{
		Operation: "task_updated",
		TaskID:    id,
		Details:   map[string]interface{}{"diff": diff},
	})
	return updated, diff, nil
}
