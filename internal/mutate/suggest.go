package mutate

import (
	"sort"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/utils"
)

// maxSuggestionDistance bounds how many edits a candidate id may be
// from the one an operation couldn't find before it's no longer worth
// suggesting.
const maxSuggestionDistance = 2

// maxSuggestions caps how many alternatives a NOT_FOUND error carries,
// so a near-empty project doesn't suggest half its task list.
const maxSuggestions = 3

// taskNotFound builds a NOT_FOUND error for id, attaching "did you
// mean" alternatives drawn from tasks: an exact subsequence match
// (FuzzyMatch, for truncated or partially-typed ids) first, then the
// closest ids by edit distance (ComputeDistance, for typos), closest
// first.
func taskNotFound(tasks []*model.Task, id string) *apperr.Error {
	base := apperr.New(apperr.CodeNotFound, "task "+id+" does not exist")
	if alts := suggestTaskIDs(tasks, id); len(alts) > 0 {
		return base.WithAlternatives(alts...)
	}
	return base
}

func suggestTaskIDs(tasks []*model.Task, id string) []apperr.Alternative {
	type candidate struct {
		id   string
		dist int
	}
	var candidates []candidate
	for _, t := range tasks {
		if t.ID == id {
			continue
		}
		switch {
		case utils.FuzzyMatch(id, t.ID):
			candidates = append(candidates, candidate{id: t.ID, dist: 0})
		default:
			if d := utils.ComputeDistance(id, t.ID); d <= maxSuggestionDistance {
				candidates = append(candidates, candidate{id: t.ID, dist: d})
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	alts := make([]apperr.Alternative, len(candidates))
	for i, c := range candidates {
		alts[i] = apperr.Alternative{
			Action:  "did you mean " + c.id + "?",
			Command: "cleo tasks show " + c.id,
		}
	}
	return alts
}
