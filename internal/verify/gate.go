// Package verify implements the six-gate verification state machine
// (spec.md §4.H): setting a gate with downstream invalidation,
// circular-approval prevention, round-capping, and epic aggregation.
//
// Grounded on the deleted internal/storage/sqlite/epics.go's
// "aggregate children, recompute parent state" pattern (already reused
// once for internal/mutate.Complete's phase auto-advance; here reused
// again for I-6's epic verification rollup) and spec.md §4.H directly
// for the gate machine itself, since BeadsLog has no multi-gate
// approval workflow of its own — issues there are single-state
// (open/closed), not multi-gate.
package verify

import (
	"context"
	"fmt"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/atomicio"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/schema"
	"github.com/cleohq/cleo/internal/storage"
)

// Core wires gate operations to the storage layer, reusing the same
// validate-then-commit discipline internal/mutate.Core uses.
type Core struct {
	Store  storage.Accessor
	Layout paths.Layout
}

// New returns a Core over the given store and layout.
func New(store storage.Accessor, layout paths.Layout) *Core {
	return &Core{Store: store, Layout: layout}
}

// appendAudit records one operation in todo-log.json, mirroring
// internal/mutate.Core's own audit helper (the audit log lives outside
// the Accessor's aggregate set, so both cores write it the same way).
func (c *Core) appendAudit(ctx context.Context, entry model.AuditEntry) error {
	entry.Timestamp = paths.NowISO()
	if err := atomicio.InitializeIfMissing(c.Layout.LogFile, &model.AuditLog{}); err != nil {
		return err
	}
	return atomicio.WithFileLock(ctx, c.Layout.LockPath("log"), atomicio.DefaultLockTimeout, func() error {
		var log model.AuditLog
		if err := atomicio.ReadJSON(c.Layout.LogFile, &log); err != nil {
			return fmt.Errorf("FILE_ERROR: reading audit log: %w", err)
		}
		log.Entries = append(log.Entries, entry)
		return atomicio.WriteJSON(c.Layout.LogFile, &log)
	})
}

// SetGateOptions carries the arguments to SetGate.
type SetGateOptions struct {
	Agent string
	Value bool
	Round int // optional explicit round override; 0 means "auto-increment"
}

// SetGate sets gate on task id to value, as performed by agent.
// Setting a gate invalidates (nulls) every gate after it in
// model.GateOrder, enforces circular-approval prevention, and caps the
// retry counter at model.MaxRounds.
func (c *Core) SetGate(ctx context.Context, id string, gate model.GateName, opts SetGateOptions) (*model.Task, error) {
	idx := model.IndexOf(gate)
	if idx < 0 {
		return nil, apperr.New(apperr.CodeInvalidInput, "unknown gate "+string(gate))
	}

	var result *model.Task
	var downstreamInvalidated []string
	err := c.Store.MutateTodo(ctx, func(todo *model.TodoFile) error {
		task := todo.FindTask(id)
		if task == nil {
			return apperr.New(apperr.CodeNotFound, "task "+id+" does not exist")
		}
		if task.Verification.Gates == nil {
			task.Verification = model.NewVerification()
		}

		if err := checkCircularApproval(task, gate, opts.Agent); err != nil {
			return err
		}

		if task.Verification.Round >= model.MaxRounds {
			task.Verification.FailureLog = append(task.Verification.FailureLog, model.FailureLogEntry{
				Timestamp: paths.NowISO(),
				Gate:      gate,
				Reason:    "round limit exceeded",
			})
			return apperr.New(apperr.CodeInvalidOperation, "verification round limit exceeded for task "+id).
				WithFix("review the failure log and reset verification before retrying")
		}

		value := opts.Value
		task.Verification.Gates[gate] = &value
		agent := opts.Agent
		task.Verification.GateAgents[gate] = &agent
		task.Verification.LastAgent = &agent
		task.Verification.LastUpdated = paths.NowISO()
		task.Verification.Round++

		invalidated := invalidateDownstream(&task.Verification, idx)
		task.Verification.Recompute()
		aggregateEpicAncestors(todo.Tasks, task)

		task.UpdatedAt = paths.NowISO()
		todo.Meta.Checksum = schema.ChecksumTasks(todo.Tasks)
		result = task
		downstreamInvalidated = invalidated
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(downstreamInvalidated) > 0 {
		_ = c.appendAudit(ctx, model.AuditEntry{
			Operation: "gate_invalidated",
			TaskID:    id,
			Details: map[string]interface{}{
				"trigger": string(gate),
				"gates":   downstreamInvalidated,
			},
		})
	}
	return result, nil
}

// checkCircularApproval enforces spec.md §4.H: the agent setting gate
// must not be the task's creator, and must not be the agent who most
// recently set any gate downstream of it. model.SystemAgent is exempt.
func checkCircularApproval(task *model.Task, gate model.GateName, agent string) error {
	if agent == model.SystemAgent || agent == "" {
		return nil
	}
	if task.CreatedBy != "" && task.CreatedBy == agent {
		return apperr.New(apperr.CodeInvalidOperation, "agent "+agent+" cannot set gate "+string(gate)+" on a task it created").
			WithFix("have a different agent set this gate")
	}

	idx := model.IndexOf(gate)
	for _, downstream := range model.GateOrder[idx+1:] {
		if task.Verification.Gates[downstream] == nil {
			continue
		}
		setter := task.Verification.GateAgents[downstream]
		if setter != nil && *setter == agent {
			return apperr.New(apperr.CodeInvalidOperation,
				"agent "+agent+" already set downstream gate "+string(downstream)+"; cannot also set "+string(gate)).
				WithFix("have a different agent set this gate")
		}
	}
	return nil
}

// invalidateDownstream nulls every gate after idx in model.GateOrder,
// returning the names of the gates that were actually set (and so
// genuinely invalidated) beforehand.
func invalidateDownstream(v *model.Verification, idx int) []string {
	var invalidated []string
	for _, downstream := range model.GateOrder[idx+1:] {
		if v.Gates[downstream] != nil {
			invalidated = append(invalidated, string(downstream))
		}
		v.Gates[downstream] = nil
		v.GateAgents[downstream] = nil
	}
	return invalidated
}

// aggregateEpicAncestors recomputes each ancestor epic's verification
// Passed field per I-6: "an epic with children is verified only when
// all non-cancelled children are verified." Walks upward from task's
// immediate parent since epics may themselves be nested.
func aggregateEpicAncestors(tasks []*model.Task, task *model.Task) {
	byID := make(map[string]*model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	current := task
	for current.ParentID != "" {
		parent, ok := byID[current.ParentID]
		if !ok || !parent.IsEpic() {
			break
		}
		parent.Verification.Passed = epicPassed(tasks, parent.ID)
		current = parent
	}
}

// epicPassed implements I-6 for a single epic id.
func epicPassed(tasks []*model.Task, epicID string) bool {
	any := false
	for _, t := range tasks {
		if t.ParentID != epicID || t.Status == model.StatusCancelled {
			continue
		}
		any = true
		if !t.Verification.Passed {
			return false
		}
	}
	return any
}

// Status reports a task's verification record as-is, for read-only
// display.
func (c *Core) Status(ctx context.Context, id string) (*model.Verification, error) {
	var out *model.Verification
	err := c.Store.Query(ctx, func(todo *model.TodoFile) error {
		task := todo.FindTask(id)
		if task == nil {
			return apperr.New(apperr.CodeNotFound, "task "+id+" does not exist")
		}
		v := task.Verification
		out = &v
		return nil
	})
	return out, err
}

// SortedGateOrder is a convenience for presentation layers that need
// the fixed gate order without importing internal/model directly.
func SortedGateOrder() []model.GateName {
	out := make([]model.GateName, len(model.GateOrder))
	copy(out, model.GateOrder)
	return out
}
