package mutate

import (
	"context"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
)

// FocusSet binds sessionID's focus to taskID with an optional note.
// Clearing focus does not change the task's status (spec.md §4.F
// focus set/clear/note).
func (c *Core) FocusSet(ctx context.Context, sessionID, taskID string, note *string) error {
	return c.Store.MutateTodo(ctx, func(todo *model.TodoFile) error {
		if todo.FindTask(taskID) == nil {
			return taskNotFound(todo.Tasks, taskID)
		}
		if todo.Focus == nil {
			todo.Focus = map[string]model.FocusBinding{}
		}
		todo.Focus[sessionID] = model.FocusBinding{TaskID: taskID, Note: note, SetAt: paths.NowISO()}
		return nil
	})
}

// FocusClear removes sessionID's focus binding, if any.
func (c *Core) FocusClear(ctx context.Context, sessionID string) error {
	return c.Store.MutateTodo(ctx, func(todo *model.TodoFile) error {
		delete(todo.Focus, sessionID)
		return nil
	})
}

// FocusNote updates the note on an existing focus binding without
// changing its task.
func (c *Core) FocusNote(ctx context.Context, sessionID, note string) error {
	return c.Store.MutateTodo(ctx, func(todo *model.TodoFile) error {
		binding, ok := todo.Focus[sessionID]
		if !ok {
			return apperr.New(apperr.CodeNotFound, "no focus binding for session "+sessionID)
		}
		binding.Note = &note
		todo.Focus[sessionID] = binding
		return nil
	})
}
