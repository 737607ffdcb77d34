package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cadre-ai/cadre/internal/config"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// chdir switches to dir for the duration of the test, restoring the
// previous working directory on cleanup. (testing.T.Chdir needs go 1.24.)
func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}

// resetState clears viper and the package-level flag variables so runs do
// not leak into each other.
func resetState(t *testing.T) {
	t.Helper()

	viper.Reset()
	config.SetDefaults()

	invokeRole = ""
	invokeChain = ""
	invokeParallel = ""
	invokeReview = false
	invokeContext = ""
	invokeFiles = nil
	invokeSelection = ""
	invokeSymbol = ""
	invokeRespond = nil

	collabName = ""
	collabProtocol = ""
	collabRoles = "architect,implementer,reviewer"
	collabTurns = 0
	collabThreshold = 0
	collabSave = false
	collabRespond = nil

	taskType = "fix"
	taskPreset = "config"
	taskSteps = nil
	taskApprove = false
	taskContext = ""
	taskFile = ""

	statsJSON = false
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "cadre" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "cadre")
	}

	expected := []string{"roles", "invoke", "collab", "task", "stats"}
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range expected {
		if !names[want] {
			t.Errorf("missing subcommand %q", want)
		}
	}
}

func TestRolesCommand(t *testing.T) {
	resetState(t)

	out, err := executeCommand(rootCmd, "roles")
	if err != nil {
		t.Fatalf("roles failed: %v", err)
	}

	for _, want := range []string{"architect", "implementer", "reviewer", "generalist", "read-only"} {
		if !strings.Contains(out, want) {
			t.Errorf("roles output missing %q:\n%s", want, out)
		}
	}
}

func TestInvokeCommand(t *testing.T) {
	resetState(t)

	out, err := executeCommand(rootCmd, "invoke",
		"review this change",
		"--role", "reviewer",
		"--respond", "confidence: 0.9\nlooks solid\nverdict: approve")
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}

	if !strings.Contains(out, "confidence 0.90") {
		t.Errorf("output missing parsed confidence:\n%s", out)
	}
	if !strings.Contains(out, "looks solid") {
		t.Errorf("output missing response content:\n%s", out)
	}
}

func TestInvokeInfersRole(t *testing.T) {
	resetState(t)

	out, err := executeCommand(rootCmd, "invoke", "please fix this null pointer bug")
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if !strings.Contains(out, "Inferred role: debugger") {
		t.Errorf("output missing inferred role:\n%s", out)
	}
}

func TestInvokeBuildsWorkspaceContext(t *testing.T) {
	resetState(t)

	out, err := executeCommand(rootCmd, "invoke",
		"explain this selection",
		"--role", "generalist",
		"--file", "internal/task/engine.go",
		"--selection", "if err := e.checkBudgets(t); err != nil {")
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if !strings.Contains(out, "Workspace: internal/task/engine.go") {
		t.Errorf("output should note the editor snapshot in use:\n%s", out)
	}
}

func TestInvokeRejectsUnknownRole(t *testing.T) {
	resetState(t)

	if _, err := executeCommand(rootCmd, "invoke", "do things", "--role", "wizard"); err == nil {
		t.Error("invoke should reject an unknown role")
	}
}

func TestCollabCommand(t *testing.T) {
	resetState(t)

	out, err := executeCommand(rootCmd, "collab",
		"settle the cache eviction design",
		"--roles", "architect,reviewer",
		"--turns", "4")
	if err != nil {
		t.Fatalf("collab failed: %v", err)
	}

	if !strings.Contains(out, "Status:   completed") {
		t.Errorf("session should complete at the turn limit:\n%s", out)
	}
	if !strings.Contains(out, "Messages: 4") {
		t.Errorf("expected one message per turn:\n%s", out)
	}
}

func TestTaskCommandApproved(t *testing.T) {
	resetState(t)

	out, err := executeCommand(rootCmd, "task",
		"fix the flaky retry test",
		"--step", "none::inspect the failing assertion",
		"--step", "modify_file:write_file:pin the clock",
		"--approve")
	if err != nil {
		t.Fatalf("task failed: %v", err)
	}

	if !strings.Contains(out, "Status: completed") {
		t.Errorf("task should complete:\n%s", out)
	}
	if !strings.Contains(out, "write_file") {
		t.Errorf("approved tool call should reach the gateway:\n%s", out)
	}
}

func TestTaskCommandReadOnlyDeniesWrites(t *testing.T) {
	resetState(t)

	out, err := executeCommand(rootCmd, "task",
		"survey the module layout",
		"--preset", "readonly",
		"--step", "modify_file:write_file:attempt a write")
	if err != nil {
		t.Fatalf("task failed: %v", err)
	}

	if !strings.Contains(out, "denied") {
		t.Errorf("read-only task should deny the write:\n%s", out)
	}
	if !strings.Contains(out, "success=false") {
		t.Errorf("denied step should fail the result:\n%s", out)
	}
}

func TestTaskCarriesWorkspaceContext(t *testing.T) {
	resetState(t)

	out, err := executeCommand(rootCmd, "task",
		"tighten the deadline check",
		"--preset", "readonly",
		"--file", "internal/task/engine.go",
		"--step", "none::trace the deadline comparison")
	if err != nil {
		t.Fatalf("task failed: %v", err)
	}
	if !strings.Contains(out, "Context: Active file: internal/task/engine.go") {
		t.Errorf("task should carry the editor snapshot as its context:\n%s", out)
	}
}

func TestTaskCommandRejectsBadStep(t *testing.T) {
	resetState(t)

	if _, err := executeCommand(rootCmd, "task", "x", "--step", "not-a-step"); err == nil {
		t.Error("malformed step should be rejected")
	}
}

func TestStatsCommandEmpty(t *testing.T) {
	resetState(t)
	chdir(t, t.TempDir())

	out, err := executeCommand(rootCmd, "stats")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out, "No saved sessions") {
		t.Errorf("stats on an empty data dir should say so:\n%s", out)
	}
}

func TestStatsAfterSavedSession(t *testing.T) {
	resetState(t)
	chdir(t, t.TempDir())

	if _, err := executeCommand(rootCmd, "collab",
		"agree on the release checklist",
		"--roles", "architect,reviewer",
		"--turns", "2",
		"--save"); err != nil {
		t.Fatalf("collab --save failed: %v", err)
	}

	resetState(t)
	out, err := executeCommand(rootCmd, "stats")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out, "Sessions:  1") {
		t.Errorf("stats should count the saved session:\n%s", out)
	}
}
