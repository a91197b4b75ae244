package mutate

import (
	"context"
	"sort"

	"github.com/cleohq/cleo/internal/model"
)

// Deps computes the dependency waves of the live task set (spec.md
// §4.F "deps / tree: read-only projections computing the dependency
// waves (§5) and hierarchy trees with caching").
func (c *Core) Deps(ctx context.Context) ([][]string, error) {
	var waves [][]string
	err := c.Store.Query(ctx, func(todo *model.TodoFile) error {
		computed, err := c.Waves.Waves(todo.Tasks)
		if err != nil {
			return err
		}
		waves = computed
		return nil
	})
	return waves, err
}

// TreeNode is one node of a hierarchy tree projection.
type TreeNode struct {
	Task     *model.Task
	Children []*TreeNode
}

// Tree builds the descendant tree rooted at id.
func (c *Core) Tree(ctx context.Context, id string) (*TreeNode, error) {
	var root *TreeNode
	err := c.Store.Query(ctx, func(todo *model.TodoFile) error {
		task := todo.FindTask(id)
		if task == nil {
			return nil
		}
		h := model.BuildHierarchy(todo.Tasks)
		root = buildTree(h, task)
		return nil
	})
	return root, err
}

func buildTree(h *model.Hierarchy, task *model.Task) *TreeNode {
	node := &TreeNode{Task: task}
	for _, child := range h.Children(task.ID) {
		node.Children = append(node.Children, buildTree(h, child))
	}
	return node
}

// NextTasks returns the live, non-done tasks ordered by descending
// weighting score (spec.md §4.F "Used for 'next task' suggestions and
// list ordering when explicitly requested").
func (c *Core) NextTasks(ctx context.Context, limit int) ([]*model.Task, error) {
	var ranked []*model.Task
	err := c.Store.Query(ctx, func(todo *model.TodoFile) error {
		for _, t := range todo.Tasks {
			if t.Status == model.StatusDone || t.Status == model.StatusCancelled {
				continue
			}
			ranked = append(ranked, t)
		}
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score() > ranked[j].Score() })
		if limit > 0 && len(ranked) > limit {
			ranked = ranked[:limit]
		}
		return nil
	})
	return ranked, err
}
