package model

// Hierarchy answers parent/child queries over a task list in amortized
// linear time by building a parent->children index once and reusing it
// (spec.md §4.D: "a hierarchy helper that answers 'descendants of X',
// 'children of X', and 'siblings of X' in amortized linear time over
// the task list with memoization").
//
// A Hierarchy is a point-in-time snapshot; build a fresh one whenever
// the underlying task list's parent/child structure changes. internal/mutate's wave cache (spec.md §4.F) uses
// the same build-once-reuse shape for dependency waves.
type Hierarchy struct {
	byParent map[string][]*Task
	byID     map[string]*Task
}

// BuildHierarchy indexes tasks by parent id.
func BuildHierarchy(tasks []*Task) *Hierarchy {
	h := &Hierarchy{
		byParent: make(map[string][]*Task),
		byID:     make(map[string]*Task, len(tasks)),
	}
	for _, t := range tasks {
		h.byID[t.ID] = t
		if t.ParentID != "" {
			h.byParent[t.ParentID] = append(h.byParent[t.ParentID], t)
		}
	}
	return h
}

// Children returns the direct children of id, in task-list order.
func (h *Hierarchy) Children(id string) []*Task {
	return h.byParent[id]
}

// Descendants returns every task transitively parented by id (BFS
// order), guarding against a malformed cycle by tracking visited ids
// rather than recursing unconditionally (invariant I-3 rules this out
// in valid state, but the helper stays defensive).
func (h *Hierarchy) Descendants(id string) []*Task {
	var out []*Task
	visited := map[string]bool{id: true}
	queue := append([]*Task{}, h.byParent[id]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur.ID] {
			continue
		}
		visited[cur.ID] = true
		out = append(out, cur)
		queue = append(queue, h.byParent[cur.ID]...)
	}
	return out
}

// Siblings returns every task sharing id's parent, excluding id
// itself. A task with no parent has no siblings under this definition.
func (h *Hierarchy) Siblings(id string) []*Task {
	task, ok := h.byID[id]
	if !ok || task.ParentID == "" {
		return nil
	}
	var out []*Task
	for _, t := range h.byParent[task.ParentID] {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// HasCycle reports whether following ParentID from id ever revisits a
// node, which would violate invariant I-3.
func (h *Hierarchy) HasCycle(id string) bool {
	visited := map[string]bool{}
	cur := id
	for {
		task, ok := h.byID[cur]
		if !ok || task.ParentID == "" {
			return false
		}
		if visited[task.ParentID] {
			return true
		}
		visited[task.ParentID] = true
		cur = task.ParentID
	}
}
