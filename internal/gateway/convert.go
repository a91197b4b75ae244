package gateway

import (
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/mutate"
)

// priorityOrDefault maps an empty/unrecognized priority string to
// model's own zero-value default (mutate.Add already substitutes
// PriorityMedium when it sees the zero value).
func priorityOrDefault(s string) model.Priority {
	p := model.Priority(s)
	if !p.IsValid() {
		return ""
	}
	return p
}

func sizeOrDefault(s string) model.Size {
	sz := model.Size(s)
	if !sz.IsValid() {
		return ""
	}
	return sz
}

func taskTypeOrDefault(s string) model.TaskType {
	t := model.TaskType(s)
	if !t.IsValid() {
		return ""
	}
	return t
}

func statusFromString(s string) model.Status {
	return model.Status(s)
}

func deleteStrategyOrDefault(s string) mutate.DeleteStrategy {
	switch mutate.DeleteStrategy(s) {
	case mutate.DeleteCascade:
		return mutate.DeleteCascade
	case mutate.DeleteOrphan:
		return mutate.DeleteOrphan
	default:
		return mutate.DeleteBlock
	}
}
