package verify

import (
	"testing"

	"github.com/cleohq/cleo/internal/model"
)

func newTestTask(id string) *model.Task {
	return &model.Task{
		ID:           id,
		Title:        "test task",
		Status:       model.StatusActive,
		Priority:     model.PriorityMedium,
		Size:         model.SizeMedium,
		CreatedBy:    "alice",
		Verification: model.NewVerification(),
	}
}

func TestSetGateInvalidatesDownstream(t *testing.T) {
	task := newTestTask("T1")
	v := &task.Verification

	trueVal := true
	v.Gates[model.GateImplemented] = &trueVal
	v.Gates[model.GateTestsPassed] = &trueVal
	v.Gates[model.GateQAPassed] = &trueVal

	idx := model.IndexOf(model.GateTestsPassed)
	invalidateDownstream(v, idx)

	if v.Gates[model.GateTestsPassed] == nil || !*v.Gates[model.GateTestsPassed] {
		t.Fatalf("expected testsPassed to remain set, got %v", v.Gates[model.GateTestsPassed])
	}
	if v.Gates[model.GateQAPassed] != nil {
		t.Fatalf("expected qaPassed to be invalidated, got %v", v.Gates[model.GateQAPassed])
	}
}

func TestInvalidateDownstreamReportsOnlyGatesThatWereSet(t *testing.T) {
	task := newTestTask("T1")
	v := &task.Verification

	trueVal := true
	v.Gates[model.GateImplemented] = &trueVal
	v.Gates[model.GateTestsPassed] = &trueVal
	// qaPassed and everything after stays unset.

	got := invalidateDownstream(v, model.IndexOf(model.GateImplemented))
	if len(got) != 1 || got[0] != string(model.GateTestsPassed) {
		t.Fatalf("got %v, want exactly [testsPassed]", got)
	}
}

func TestCheckCircularApprovalRejectsCreator(t *testing.T) {
	task := newTestTask("T1")
	if err := checkCircularApproval(task, model.GateImplemented, "alice"); err == nil {
		t.Fatal("expected creator to be rejected")
	}
	if err := checkCircularApproval(task, model.GateImplemented, "bob"); err != nil {
		t.Fatalf("expected non-creator to pass, got %v", err)
	}
}

func TestCheckCircularApprovalExemptsSystemAgent(t *testing.T) {
	task := newTestTask("T1")
	if err := checkCircularApproval(task, model.GateImplemented, model.SystemAgent); err != nil {
		t.Fatalf("expected system agent to be exempt, got %v", err)
	}
}

func TestCheckCircularApprovalRejectsDownstreamSetter(t *testing.T) {
	task := newTestTask("T1")
	v := &task.Verification
	agent := "bob"
	trueVal := true
	v.Gates[model.GateQAPassed] = &trueVal
	v.GateAgents[model.GateQAPassed] = &agent

	if err := checkCircularApproval(task, model.GateTestsPassed, "bob"); err == nil {
		t.Fatal("expected rejection: bob already set a downstream gate")
	}
	if err := checkCircularApproval(task, model.GateTestsPassed, "carol"); err != nil {
		t.Fatalf("expected a different agent to pass, got %v", err)
	}
}

func TestEpicPassedRequiresAllNonCancelledChildren(t *testing.T) {
	epic := newTestTask("T1")
	epic.Type = model.TypeEpic
	child1 := newTestTask("T2")
	child1.ParentID = "T1"
	child1.Verification.Passed = true
	child2 := newTestTask("T3")
	child2.ParentID = "T1"
	child2.Verification.Passed = false

	tasks := []*model.Task{epic, child1, child2}
	if epicPassed(tasks, "T1") {
		t.Fatal("expected epic not passed while a child is unpassed")
	}

	child2.Status = model.StatusCancelled
	if !epicPassed(tasks, "T1") {
		t.Fatal("expected epic passed once the unpassed child is cancelled")
	}
}

func TestEpicPassedFalseWithNoChildren(t *testing.T) {
	tasks := []*model.Task{newTestTask("T1")}
	if epicPassed(tasks, "T1") {
		t.Fatal("expected an epic with no children to not be considered passed")
	}
}
