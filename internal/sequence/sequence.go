// Package sequence implements the show/check/repair operations over
// the monotonic id counter (spec.md §4.G). The counter itself lives in
// model.Sequence and is advanced by internal/mutate.Add under the
// storage.Accessor's own lock; this package only reads it back and
// reconciles it against the observed task set.
package sequence

import (
	"context"
	"fmt"

	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/storage"
)

// Status is the result of Show/Check.
type Status struct {
	Counter int
	LastID  string
	NextID  string
	MaxSeen int
	InSync  bool
}

// Show reports the counter, lastId, and nextId (spec.md §4.G "show").
func Show(ctx context.Context, store storage.Accessor) (*Status, error) {
	seq, err := store.LoadSequence(ctx)
	if err != nil {
		return nil, err
	}
	return &Status{Counter: seq.Counter, LastID: seq.LastID, NextID: seq.Next()}, nil
}

// Check compares the counter to the observed max numeric suffix across
// live and archived tasks (spec.md §4.G "check").
func Check(ctx context.Context, store storage.Accessor) (*Status, error) {
	seq, err := store.LoadSequence(ctx)
	if err != nil {
		return nil, err
	}
	todo, err := store.LoadTodo(ctx)
	if err != nil {
		return nil, err
	}
	archive, err := store.LoadArchive(ctx)
	if err != nil {
		return nil, err
	}

	maxSeen := observedMax(todo.Tasks, archive.Tasks)
	return &Status{
		Counter: seq.Counter,
		LastID:  seq.LastID,
		NextID:  seq.Next(),
		MaxSeen: maxSeen,
		InSync:  seq.Counter >= maxSeen,
	}, nil
}

// Repair advances the counter to the observed max, never backward
// (spec.md §4.G "repair": "advance counter to observed max; never
// backward"; invariant I-1).
func Repair(ctx context.Context, store storage.Accessor) (*Status, error) {
	todo, err := store.LoadTodo(ctx)
	if err != nil {
		return nil, err
	}
	archive, err := store.LoadArchive(ctx)
	if err != nil {
		return nil, err
	}
	maxSeen := observedMax(todo.Tasks, archive.Tasks)

	var result Status
	err = store.MutateSequence(ctx, func(seq *model.Sequence) error {
		if seq.Counter < maxSeen {
			seq.Counter = maxSeen
			seq.LastID = model.FormatID(maxSeen)
		}
		result = Status{Counter: seq.Counter, LastID: seq.LastID, NextID: seq.Next(), MaxSeen: maxSeen, InSync: true}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sequence: repair: %w", err)
	}
	return &result, nil
}

func observedMax(live, archived []*model.Task) int {
	max := 0
	for _, t := range live {
		if n, ok := model.ParseNumericID(t.ID); ok && n > max {
			max = n
		}
	}
	for _, t := range archived {
		if n, ok := model.ParseNumericID(t.ID); ok && n > max {
			max = n
		}
	}
	return max
}
