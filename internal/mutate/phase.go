package mutate

import (
	"context"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
)

// PhaseSetOptions carries phase set's flags.
type PhaseSetOptions struct {
	Rollback bool
	Force    bool
	Reason   string
}

// PhaseSet moves the project's current phase to target. Forward moves
// auto-complete the previous phase; backward moves require Rollback,
// and outside a TTY additionally require Force, else they fail with
// PHASE_ROLLBACK_REQUIRES_FORCE (spec.md §4.F phase set(), concrete
// scenario 4).
func (c *Core) PhaseSet(ctx context.Context, target string, opts PhaseSetOptions) error {
	return c.Store.MutateTodo(ctx, func(todo *model.TodoFile) error {
		targetPhase, ok := todo.Project.Phases[target]
		if !ok {
			return apperr.New(apperr.CodeNotFound, "phase "+target+" does not exist")
		}

		current := todo.Project.CurrentPhase
		now := paths.NowISO()

		isBackward := isBackwardMove(&todo.Project, current, target)
		if isBackward {
			if !opts.Rollback {
				return apperr.New(apperr.CodeRollbackRequiresForce, "moving to an earlier phase requires --rollback").
					WithFix("retry with `phase set " + target + " --rollback`")
			}
			if !opts.Force {
				return apperr.New(apperr.CodeRollbackRequiresForce, "phase rollback in a non-interactive context requires --force").
					WithFix("retry with `phase set " + target + " --rollback --force`")
			}
			fromPhase := current
			targetPhase.Status = model.PhaseStatusActive
			targetPhase.StartedAt = &now
			targetPhase.CompletedAt = nil
			todo.Project.CurrentPhase = target
			todo.Project.PhaseHistory = append(todo.Project.PhaseHistory, model.PhaseTransition{
				Phase:          target,
				TransitionType: model.TransitionRolledBack,
				Timestamp:      now,
				FromPhase:      &fromPhase,
				TaskCount:      countInPhase(todo.Tasks, target),
				Reason:         optionalString(opts.Reason),
			})
			return nil
		}

		if current != "" {
			if prev, ok := todo.Project.Phases[current]; ok && prev.Status == model.PhaseStatusActive {
				prev.Status = model.PhaseStatusCompleted
				prev.CompletedAt = &now
				fromPhase := current
				todo.Project.PhaseHistory = append(todo.Project.PhaseHistory, model.PhaseTransition{
					Phase:          current,
					TransitionType: model.TransitionCompleted,
					Timestamp:      now,
					FromPhase:      &fromPhase,
					TaskCount:      countInPhase(todo.Tasks, current),
				})
			}
		}

		targetPhase.Status = model.PhaseStatusActive
		targetPhase.StartedAt = &now
		todo.Project.CurrentPhase = target
		todo.Project.PhaseHistory = append(todo.Project.PhaseHistory, model.PhaseTransition{
			Phase:          target,
			TransitionType: model.TransitionStarted,
			Timestamp:      now,
			TaskCount:      countInPhase(todo.Tasks, target),
		})
		return nil
	})
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// isBackwardMove reports whether moving from current to target is a
// move to an earlier phase by Order.
func isBackwardMove(project *model.ProjectMeta, current, target string) bool {
	if current == "" {
		return false
	}
	cur, curOK := project.Phases[current]
	tgt, tgtOK := project.Phases[target]
	if !curOK || !tgtOK {
		return false
	}
	return tgt.Order < cur.Order
}
