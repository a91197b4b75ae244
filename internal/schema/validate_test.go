package schema

import (
	"testing"

	"github.com/cleohq/cleo/internal/model"
)

func hasViolation(violations []Violation, code string) bool {
	for _, v := range violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

func TestValidateCleanStateHasNoViolations(t *testing.T) {
	todo := model.NewTodoFile()
	todo.Tasks = append(todo.Tasks, &model.Task{ID: "T1", Status: model.StatusPending})
	todo.Meta.Checksum = ChecksumTasks(todo.Tasks)
	archive := model.NewArchiveFile()

	violations := Validate(todo, archive)
	if len(violations) != 0 {
		t.Errorf("expected no violations, got %+v", violations)
	}
}

func TestValidateDetectsDependencyCycle(t *testing.T) {
	todo := model.NewTodoFile()
	todo.Tasks = append(todo.Tasks,
		&model.Task{ID: "T1", Depends: []string{"T2"}},
		&model.Task{ID: "T2", Depends: []string{"T1"}},
	)
	todo.Meta.Checksum = ChecksumTasks(todo.Tasks)
	violations := Validate(todo, model.NewArchiveFile())
	if !hasViolation(violations, "I-2") {
		t.Errorf("expected an I-2 cycle violation, got %+v", violations)
	}
}

func TestValidateDetectsDanglingReference(t *testing.T) {
	todo := model.NewTodoFile()
	todo.Tasks = append(todo.Tasks, &model.Task{ID: "T1", Depends: []string{"T999"}})
	todo.Meta.Checksum = ChecksumTasks(todo.Tasks)
	violations := Validate(todo, model.NewArchiveFile())
	if !hasViolation(violations, "I-8") {
		t.Errorf("expected an I-8 dangling reference violation, got %+v", violations)
	}
}

func TestValidateDetectsDoneTaskMissingCompletedAt(t *testing.T) {
	todo := model.NewTodoFile()
	todo.Tasks = append(todo.Tasks, &model.Task{ID: "T1", Status: model.StatusDone})
	todo.Meta.Checksum = ChecksumTasks(todo.Tasks)
	violations := Validate(todo, model.NewArchiveFile())
	if !hasViolation(violations, "I-4") {
		t.Errorf("expected an I-4 violation, got %+v", violations)
	}
}

func TestValidateDetectsMultipleActivePhases(t *testing.T) {
	todo := model.NewTodoFile()
	todo.Project.Phases["a"] = &model.Phase{Name: "a", Order: 0, Status: model.PhaseStatusActive}
	todo.Project.Phases["b"] = &model.Phase{Name: "b", Order: 1, Status: model.PhaseStatusActive}
	todo.Meta.Checksum = ChecksumTasks(todo.Tasks)
	violations := Validate(todo, model.NewArchiveFile())
	if !hasViolation(violations, "I-7") {
		t.Errorf("expected an I-7 violation, got %+v", violations)
	}
}

func TestValidateDetectsChecksumMismatch(t *testing.T) {
	todo := model.NewTodoFile()
	todo.Tasks = append(todo.Tasks, &model.Task{ID: "T1"})
	todo.Meta.Checksum = "stale-checksum"
	violations := Validate(todo, model.NewArchiveFile())
	if !hasViolation(violations, "I-5") {
		t.Errorf("expected an I-5 violation, got %+v", violations)
	}
}

func TestValidateDetectsDuplicateIDAcrossLiveAndArchive(t *testing.T) {
	todo := model.NewTodoFile()
	todo.Tasks = append(todo.Tasks, &model.Task{ID: "T1"})
	todo.Meta.Checksum = ChecksumTasks(todo.Tasks)
	archive := model.NewArchiveFile()
	archive.Tasks = append(archive.Tasks, &model.Task{ID: "T1"})

	violations := Validate(todo, archive)
	if !hasViolation(violations, "I-1") {
		t.Errorf("expected an I-1 duplicate id violation, got %+v", violations)
	}
}
