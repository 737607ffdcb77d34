package task

import (
	"testing"
	"time"
)

func TestConstraintPresets(t *testing.T) {
	ro := ReadOnlyConstraints()
	if !ro.IsReadOnly() {
		t.Error("ReadOnlyConstraints should be read-only")
	}
	if ro.AllowsFileOperations() {
		t.Error("ReadOnlyConstraints should not allow file operations")
	}
	if ro.RequireConfirmation {
		t.Error("read-only tasks never need confirmation")
	}

	def := DefaultConstraints()
	if def.IsReadOnly() {
		t.Error("DefaultConstraints should allow modification")
	}
	if !def.RequireConfirmation {
		t.Error("DefaultConstraints should require confirmation")
	}
	if def.AllowDeletion {
		t.Error("DefaultConstraints should not allow deletion")
	}

	perm := PermissiveConstraints()
	if !perm.Allows(OpDeleteFile) || !perm.Allows(OpRunCommand) {
		t.Error("PermissiveConstraints should allow deletion and commands")
	}
	if perm.RequireConfirmation {
		t.Error("PermissiveConstraints should not gate on confirmation")
	}
}

func TestConstraintsAllows(t *testing.T) {
	c := Constraints{AllowNewFiles: true}

	if !c.Allows(OpNone) {
		t.Error("OpNone is always permitted")
	}
	if !c.Allows(OpCreateFile) {
		t.Error("OpCreateFile should be permitted")
	}
	for _, op := range []Operation{OpModifyFile, OpDeleteFile, OpRunCommand} {
		if c.Allows(op) {
			t.Errorf("%s should be denied", op)
		}
	}
}

func TestStepIsToolCall(t *testing.T) {
	s := Step{Action: ActionToolCall, ToolName: "write_file"}
	if !s.IsToolCall() {
		t.Error("tool_call with a tool name is a tool call")
	}
	if (Step{Action: ActionToolCall}).IsToolCall() {
		t.Error("tool_call without a tool name is not a tool call")
	}
	if (Step{Action: ActionReasoning, ToolName: "write_file"}).IsToolCall() {
		t.Error("reasoning steps are never tool calls")
	}
}

func TestTaskOwnership(t *testing.T) {
	task := NewTask("refactor", "extract the parser", "", DefaultConstraints())

	if task.Status() != StatusPending {
		t.Fatalf("new task status = %s, want pending", task.Status())
	}
	if !task.IsActive() {
		t.Error("pending task should be active")
	}

	task.appendStep(Step{Action: ActionReasoning, Status: StepCompleted, TokensUsed: 10})
	task.appendStep(Step{Action: ActionReasoning, Status: StepCompleted, TokensUsed: 5})

	steps := task.Steps()
	if len(steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(steps))
	}
	if steps[0].ID != 0 || steps[1].ID != 1 {
		t.Errorf("step IDs = %d,%d, want 0,1", steps[0].ID, steps[1].ID)
	}
	if task.TotalTokens() != 15 {
		t.Errorf("TotalTokens = %d, want 15", task.TotalTokens())
	}

	// Mutating the returned copy does not touch the task's own list.
	steps[0].Result = "tampered"
	if task.Steps()[0].Result == "tampered" {
		t.Error("Steps must return a copy")
	}
}

func TestResultSetOnce(t *testing.T) {
	task := NewTask("fix", "repair the build", "", DefaultConstraints())

	task.setResult(Result{Success: true, Summary: "first"})
	task.setResult(Result{Success: false, Summary: "second"})

	result, ok := task.Result()
	if !ok {
		t.Fatal("result should be set")
	}
	if result.Summary != "first" {
		t.Errorf("result.Summary = %q, want %q (set at most once)", result.Summary, "first")
	}
}

func TestResultHasErrors(t *testing.T) {
	if (Result{}).HasErrors() {
		t.Error("empty result has no errors")
	}
	r := Result{Errors: []string{"step 3 failed"}, Duration: time.Second}
	if !r.HasErrors() {
		t.Error("result with errors should report them")
	}
}
