package mutate

import (
	"context"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/schema"
)

// AddOptions carries every optional field add() accepts, mirroring
// spec.md §4.F's add(title, opts) contract.
type AddOptions struct {
	Description string
	Priority    model.Priority
	Size        model.Size
	Type        model.TaskType
	ParentID    string
	Phase       string // explicit phase flag; highest-priority source
	Labels      []string
	Depends     []string
	BlockedBy   []string
	Files       []string
	Acceptance  []string

	// FocusTaskPhase, if non-empty, is the phase of the session's
	// current focus task — the second phase-inheritance source.
	FocusTaskPhase string
	// DefaultPhase is the config-level fallback, tried last.
	DefaultPhase string
}

// Add allocates the next task id from the sequence under lock, applies
// phase inheritance, and appends the new task to the live set
// (spec.md §4.F add()).
func (c *Core) Add(ctx context.Context, title string, opts AddOptions) (*model.Task, error) {
	if title == "" {
		return nil, apperr.New(apperr.CodeInvalidInput, "title must not be empty")
	}

	var created *model.Task
	err := c.Store.MutateSequence(ctx, func(seq *model.Sequence) error {
		return c.Store.MutateTodo(ctx, func(todo *model.TodoFile) error {
			if opts.ParentID != "" && todo.FindTask(opts.ParentID) == nil {
				return apperr.New(apperr.CodeNotFound, "parent task "+opts.ParentID+" does not exist")
			}
			for _, dep := range opts.Depends {
				if todo.FindTask(dep) == nil {
					return apperr.New(apperr.CodeNotFound, "dependency task "+dep+" does not exist")
				}
			}

			seq.Counter++
			id := model.FormatID(seq.Counter)
			seq.LastID = id

			now := paths.NowISO()
			priority := opts.Priority
			if priority == "" {
				priority = model.PriorityMedium
			}
			size := opts.Size
			if size == "" {
				size = model.SizeMedium
			}

			task := &model.Task{
				ID:           id,
				Title:        title,
				Description:  opts.Description,
				Status:       model.StatusPending,
				Priority:     priority,
				Size:         size,
				Type:         opts.Type,
				ParentID:     opts.ParentID,
				Phase:        resolvePhase(opts, &todo.Project, todo.Tasks),
				Labels:       opts.Labels,
				Depends:      opts.Depends,
				BlockedBy:    opts.BlockedBy,
				Files:        opts.Files,
				Acceptance:   opts.Acceptance,
				Verification: model.NewVerification(),
				CreatedAt:    now,
				UpdatedAt:    now,
			}

			todo.Tasks = append(todo.Tasks, task)
			todo.LastUpdated = now
			todo.Meta.Checksum = schema.ChecksumTasks(todo.Tasks)

			if err := validateAndCommit(todo, model.NewArchiveFile()); err != nil {
				return err
			}
			created = task
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	_ = c.appendAudit(ctx, model.AuditEntry{
		Operation: "task_added",
		TaskID:    created.ID,
		Details:   map[string]interface{}{"title": title},
	})
	return created, nil
}

// resolvePhase applies spec.md §4.F's phase-inheritance priority
// order: explicit flag -> focus task phase -> most-active phase ->
// project currentPhase -> config default.
func resolvePhase(opts AddOptions, project *model.ProjectMeta, existing []*model.Task) string {
	if opts.Phase != "" {
		return opts.Phase
	}
	if opts.FocusTaskPhase != "" {
		return opts.FocusTaskPhase
	}
	if mostActive := project.MostActivePhase(nonDoneCountByPhase(existing)); mostActive != "" {
		return mostActive
	}
	if project.CurrentPhase != "" {
		return project.CurrentPhase
	}
	return opts.DefaultPhase
}

func nonDoneCountByPhase(tasks []*model.Task) map[string]int {
	counts := make(map[string]int)
	for _, t := range tasks {
		if t.Phase == "" {
			continue
		}
		if t.Status != model.StatusDone && t.Status != model.StatusCancelled {
			counts[t.Phase]++
		}
	}
	return counts
}
