package gateway

import (
	"context"
	"strconv"

	"github.com/cleohq/cleo/internal/mutate"
)

// taskParams is the flattened param shape every tasks.* operation
// decodes from, covering the union of mutate.AddOptions/Patch/filters
// a caller might supply; each handler reads only the fields its
// operation uses.
type taskParams struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Note     string `json:"note"`
	Strategy string `json:"strategy"`
	Limit    int    `json:"limit"`

	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Size        string   `json:"size"`
	Type        string   `json:"type"`
	ParentID    string   `json:"parentId"`
	Phase       string   `json:"phase"`
	Labels      []string `json:"labels"`
	Depends     []string `json:"depends"`
	BlockedBy   []string `json:"blockedBy"`
	Files       []string `json:"files"`
	Acceptance  []string `json:"acceptance"`

	Status *string `json:"status"`
}

func registerTaskHandlers(m *Matrix, core *mutate.Core) {
	m.Register(Operation{Domain: DomainTasks, Kind: KindMutate, Name: "add", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p taskParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		task, err := core.Add(ctx, p.Title, mutate.AddOptions{
			Description: p.Description,
			Priority:    priorityOrDefault(p.Priority),
			Size:        sizeOrDefault(p.Size),
			Type:        taskTypeOrDefault(p.Type),
			ParentID:    p.ParentID,
			Phase:       p.Phase,
			Labels:      p.Labels,
			Depends:     p.Depends,
			BlockedBy:   p.BlockedBy,
			Files:       p.Files,
			Acceptance:  p.Acceptance,
		})
		if err != nil {
			return nil, "", false, err
		}
		return task, "added task " + task.ID, false, nil
	}})

	m.Register(Operation{Domain: DomainTasks, Kind: KindMutate, Name: "update", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p taskParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		patch := mutate.Patch{Labels: p.Labels, Depends: p.Depends, BlockedBy: p.BlockedBy, Files: p.Files, Acceptance: p.Acceptance}
		if p.Title != "" {
			patch.Title = &p.Title
		}
		if p.Description != "" {
			patch.Description = &p.Description
		}
		if p.Status != nil {
			s := statusFromString(*p.Status)
			patch.Status = &s
		}
		if p.Priority != "" {
			pr := priorityOrDefault(p.Priority)
			patch.Priority = &pr
		}
		if p.Size != "" {
			sz := sizeOrDefault(p.Size)
			patch.Size = &sz
		}
		if p.Phase != "" {
			patch.Phase = &p.Phase
		}
		if p.ParentID != "" {
			patch.ParentID = &p.ParentID
		}
		task, diff, err := core.Update(ctx, p.ID, patch)
		if err != nil {
			return nil, "", false, err
		}
		noChange := len(diff) == 0
		return map[string]interface{}{"task": task, "diff": diff}, "updated task " + p.ID, noChange, nil
	}})

	m.Register(Operation{Domain: DomainTasks, Kind: KindMutate, Name: "complete", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p taskParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		task, err := core.Complete(ctx, p.ID, p.Note)
		if err != nil {
			return nil, "", false, err
		}
		return task, "completed task " + p.ID, false, nil
	}})

	m.Register(Operation{Domain: DomainTasks, Kind: KindQuery, Name: "preview-delete", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p taskParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		impact, err := core.PreviewDelete(ctx, p.ID, deleteStrategyOrDefault(p.Strategy))
		if err != nil {
			return nil, "", false, err
		}
		return impact, "", true, nil
	}})

	m.Register(Operation{Domain: DomainTasks, Kind: KindMutate, Name: "delete", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p taskParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		impact, err := core.Delete(ctx, p.ID, deleteStrategyOrDefault(p.Strategy))
		if err != nil {
			return nil, "", false, err
		}
		return impact, "deleted " + strconv.Itoa(len(impact.WouldDelete)) + " task(s)", false, nil
	}})

	m.Register(Operation{Domain: DomainTasks, Kind: KindMutate, Name: "archive", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var opts mutate.ArchiveFilter
		if err := decodeParams(raw, &opts); err != nil {
			return nil, "", false, err
		}
		moved, err := core.Archive(ctx, opts)
		if err != nil {
			return nil, "", false, err
		}
		return moved, "archived " + strconv.Itoa(len(moved)) + " task(s)", len(moved) == 0, nil
	}})

	m.Register(Operation{Domain: DomainTasks, Kind: KindQuery, Name: "deps", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		waves, err := core.Deps(ctx)
		if err != nil {
			return nil, "", false, err
		}
		return waves, "", true, nil
	}})

	m.Register(Operation{Domain: DomainTasks, Kind: KindQuery, Name: "tree", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p taskParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		node, err := core.Tree(ctx, p.ID)
		if err != nil {
			return nil, "", false, err
		}
		return node, "", true, nil
	}})

	m.Register(Operation{Domain: DomainTasks, Kind: KindQuery, Name: "next", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p taskParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		tasks, err := core.NextTasks(ctx, p.Limit)
		if err != nil {
			return nil, "", false, err
		}
		return tasks, "", true, nil
	}})

	m.Register(Operation{Domain: DomainTasks, Kind: KindMutate, Name: "focus-set", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p struct {
			SessionID string  `json:"sessionId"`
			TaskID    string  `json:"taskId"`
			Note      *string `json:"note"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		if err := core.FocusSet(ctx, p.SessionID, p.TaskID, p.Note); err != nil {
			return nil, "", false, err
		}
		return nil, "focus set to " + p.TaskID, false, nil
	}})

	m.Register(Operation{Domain: DomainTasks, Kind: KindMutate, Name: "focus-clear", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p struct {
			SessionID string `json:"sessionId"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		if err := core.FocusClear(ctx, p.SessionID); err != nil {
			return nil, "", false, err
		}
		return nil, "focus cleared", false, nil
	}})

	m.Register(Operation{Domain: DomainTasks, Kind: KindMutate, Name: "focus-note", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p struct {
			SessionID string `json:"sessionId"`
			Note      string `json:"note"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		if err := core.FocusNote(ctx, p.SessionID, p.Note); err != nil {
			return nil, "", false, err
		}
		return nil, "focus note updated", false, nil
	}})
}
