package mutate

import (
	"context"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/schema"
)

// Complete transitions a task to done, stamps completedAt, appends an
// optional note, and advances the owning phase if every non-done
// sibling in it is now done (spec.md §4.F complete()).
func (c *Core) Complete(ctx context.Context, id string, note string) (*model.Task, error) {
	var completed *model.Task

	err := c.Store.MutateTodo(ctx, func(todo *model.TodoFile) error {
		task := todo.FindTask(id)
		if task == nil {
			return taskNotFound(todo.Tasks, id)
		}
		if task.Status == model.StatusDone {
			return apperr.New(apperr.CodeAlreadyExists, "task "+id+" is already done")
		}

		now := paths.NowISO()
		task.Status = model.StatusDone
		task.CompletedAt = &now
		task.UpdatedAt = now
		if note != "" {
			task.Notes = append(task.Notes, model.Note{Timestamp: now, Text: note})
		}

		advancePhaseIfComplete(&todo.Project, todo.Tasks, task.Phase, now)

		todo.LastUpdated = now
		todo.Meta.Checksum = schema.ChecksumTasks(todo.Tasks)

		if err := validateAndCommit(todo, model.NewArchiveFile()); err != nil {
			return err
		}
		completed = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = c.appendAudit(ctx, model.AuditEntry{Operation: "task_completed", TaskID: id})
	return completed, nil
}

// advancePhaseIfComplete checks whether every non-cancelled task in
// phaseName is now done; if so it completes that phase and activates
// the next one by Order (spec.md §4.F: "if the owning phase's active
// children are now all done, the phase transitions to completed and
// the next phase (by order) becomes active").
func advancePhaseIfComplete(project *model.ProjectMeta, tasks []*model.Task, phaseName, now string) {
	if phaseName == "" {
		return
	}
	ph, ok := project.Phases[phaseName]
	if !ok || ph.Status != model.PhaseStatusActive {
		return
	}

	for _, t := range tasks {
		if t.Phase == phaseName && t.Status != model.StatusDone && t.Status != model.StatusCancelled {
			return // still has live work
		}
	}

	ph.Status = model.PhaseStatusCompleted
	ph.CompletedAt = &now
	project.PhaseHistory = append(project.PhaseHistory, model.PhaseTransition{
		Phase:          phaseName,
		TransitionType: model.TransitionCompleted,
		Timestamp:      now,
		TaskCount:      countInPhase(tasks, phaseName),
	})

	next := project.NextPhase(phaseName)
	if next == nil {
		return
	}
	fromPhase := phaseName
	next.Status = model.PhaseStatusActive
	next.StartedAt = &now
	project.CurrentPhase = next.Name
	project.PhaseHistory = append(project.PhaseHistory, model.PhaseTransition{
		Phase:          next.Name,
		TransitionType: model.TransitionStarted,
		Timestamp:      now,
		FromPhase:      &fromPhase,
		TaskCount:      countInPhase(tasks, next.Name),
	})
}

func countInPhase(tasks []*model.Task, phase string) int {
	n := 0
	for _, t := range tasks {
		if t.Phase == phase {
			n++
		}
	}
	return n
}
