package mutate

import (
	"context"
	"time"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/schema"
)

// ArchiveFilter selects which done tasks archive() moves. SinceCutoff,
// when set, overrides DaysUntilArchive with an absolute RFC3339
// timestamp, letting callers pass a natural-language expression
// (internal/dateparse) resolved once at the CLI boundary rather than a
// bare day count (spec.md §4.F archive()).
type ArchiveFilter struct {
	DaysUntilArchive    int
	PreserveRecentCount int
	SinceCutoff         string
}

// Archive moves done tasks older than the filter's threshold into the
// archive aggregate, preserving the most recent N regardless of age,
// under a single multi-lock transaction so a crash mid-move can never
// leave a task in both or neither aggregate (spec.md §4.F archive()).
func (c *Core) Archive(ctx context.Context, filter ArchiveFilter) ([]string, error) {
	var movedIDs []string

	cutoff := time.Now().AddDate(0, 0, -filter.DaysUntilArchive)
	if filter.SinceCutoff != "" {
		parsed, err := time.Parse(time.RFC3339, filter.SinceCutoff)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeInvalidInput, "parsing sinceCutoff", err)
		}
		cutoff = parsed
	}

	err := c.Store.MutateTodoAndArchive(ctx, func(todo *model.TodoFile, archive *model.ArchiveFile) error {
		type candidate struct {
			task *model.Task
			when time.Time
		}
		var candidates []candidate
		for _, t := range todo.Tasks {
			if t.Status != model.StatusDone || t.CompletedAt == nil {
				continue
			}
			completedAt, err := time.Parse("2006-01-02T15:04:05Z", *t.CompletedAt)
			if err != nil {
				continue
			}
			if completedAt.Before(cutoff) {
				candidates = append(candidates, candidate{task: t, when: completedAt})
			}
		}
		// Oldest-first, so PreserveRecentCount keeps the N most recently
		// completed candidates live even though they cleared the age cutoff.
		for i := 1; i < len(candidates); i++ {
			j := i
			for j > 0 && candidates[j-1].when.After(candidates[j].when) {
				candidates[j-1], candidates[j] = candidates[j], candidates[j-1]
				j--
			}
		}
		if keep := filter.PreserveRecentCount; keep > 0 && keep < len(candidates) {
			candidates = candidates[:len(candidates)-keep]
		} else if keep >= len(candidates) {
			candidates = nil
		}

		toMove := make(map[string]bool, len(candidates))
		for _, cand := range candidates {
			toMove[cand.task.ID] = true
			movedIDs = append(movedIDs, cand.task.ID)
			archive.Tasks = append(archive.Tasks, cand.task)
		}

		remaining := todo.Tasks[:0]
		for _, t := range todo.Tasks {
			if !toMove[t.ID] {
				remaining = append(remaining, t)
			}
		}
		todo.Tasks = remaining
		todo.LastUpdated = paths.NowISO()
		todo.Meta.Checksum = schema.ChecksumTasks(todo.Tasks)
		archive.Meta.Checksum = schema.ChecksumTasks(archive.Tasks)

		return validateAndCommit(todo, archive)
	})
	if err != nil {
		return nil, err
	}

	if len(movedIDs) > 0 {
		_ = c.appendAudit(ctx, model.AuditEntry{
			Operation: "tasks_archived",
			Details:   map[string]interface{}{"taskIds": movedIDs, "count": len(movedIDs)},
		})
	}
	return movedIDs, nil
}
