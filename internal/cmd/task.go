package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	caderr "github.com/cadre-ai/cadre/internal/errors"
	"github.com/cadre-ai/cadre/internal/task"
	"github.com/cadre-ai/cadre/internal/tool"
)

var taskCmd = &cobra.Command{
	Use:   "task [description]",
	Short: "Run a constrained task through the execution engine",
	Long: `Create a task, execute a plan of steps under its constraints, and print
the audit trail. Tool calls run against a recording gateway, so this is
always a dry run; nothing touches the filesystem.

Each --step is "operation:tool:reasoning". Operation is one of none,
modify_file, create_file, delete_file, run_command; tool may be empty for
pure reasoning steps. Example:

  cadre task "fix the flaky retry test" \
    --step "none::inspect the failing assertion" \
    --step "modify_file:write_file:pin the clock in the retry test" \
    --step "run_command:run_tests:re-run the retry suite" \
    --approve`,
	Args: cobra.ExactArgs(1),
	RunE: runTask,
}

var (
	taskType    string   // Task type label
	taskPreset  string   // Constraint preset: config, readonly, permissive
	taskSteps   []string // Plan entries, "operation:tool:reasoning"
	taskApprove bool     // Auto-approve confirmation gates
	taskContext string   // Opaque workspace context, overrides --file
	taskFile    string   // Active file the task concerns
)

func init() {
	taskCmd.Flags().StringVar(&taskType, "type", "fix", "task type label")
	taskCmd.Flags().StringVar(&taskPreset, "preset", "config", "constraint preset: config, readonly, permissive")
	taskCmd.Flags().StringArrayVar(&taskSteps, "step", nil, "plan entry \"operation:tool:reasoning\" (repeatable)")
	taskCmd.Flags().BoolVar(&taskApprove, "approve", false, "approve confirmation gates instead of rejecting them")
	taskCmd.Flags().StringVar(&taskContext, "context", "", "workspace context attached to the task (overrides --file)")
	taskCmd.Flags().StringVar(&taskFile, "file", "", "active file the task concerns")
	rootCmd.AddCommand(taskCmd)
}

func runTask(cmd *cobra.Command, args []string) error {
	description := args[0]

	rt, err := newRuntime(nil)
	if err != nil {
		return err
	}
	defer rt.close()

	constraints, err := taskConstraints(rt)
	if err != nil {
		return err
	}

	plan, err := parsePlan(taskSteps)
	if err != nil {
		return err
	}

	contextStr, err := workspaceContext(cmd.Context(), taskContext, taskFile, "", "")
	if err != nil {
		return err
	}

	gateway := tool.NewRecorder()
	engine := task.NewEngine(gateway, rt.bus, rt.log)

	t := engine.Create(taskType, description, contextStr, constraints)
	if err := engine.Plan(t.ID()); err != nil {
		return err
	}
	if err := engine.StartExecution(t.ID()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	var stepErrors []string

	for _, req := range plan {
		_, err := engine.ExecuteStep(ctx, t.ID(), req)
		if err != nil {
			if caderr.IsPermission(err) {
				// Denied operations are recorded on the task; the rest of
				// the plan still runs.
				fmt.Fprintf(out, "denied: %v\n", err)
				continue
			}
			// Budget and deadline violations terminate the task.
			printTask(out, t, gateway)
			return err
		}

		if t.Status() == task.StatusAwaitingConfirmation {
			if taskApprove {
				if _, err := engine.Approve(ctx, t.ID()); err != nil {
					printTask(out, t, gateway)
					return err
				}
			} else {
				if _, err := engine.Reject(t.ID(), "not approved in non-interactive run"); err != nil {
					printTask(out, t, gateway)
					return err
				}
			}
		}
	}

	for _, s := range t.Steps() {
		if s.Status == task.StepFailed {
			stepErrors = append(stepErrors, s.Result)
		}
	}

	result := task.Result{
		Success: len(stepErrors) == 0,
		Summary: fmt.Sprintf("executed %d of %d planned steps", t.StepCount(), len(plan)),
		Errors:  stepErrors,
	}
	if err := engine.Complete(t.ID(), result); err != nil {
		return err
	}

	printTask(out, t, gateway)
	return nil
}

// taskConstraints resolves the constraint preset, defaulting to the
// config-derived constraints.
func taskConstraints(rt *runtime) (task.Constraints, error) {
	switch taskPreset {
	case "config", "":
		return rt.cfg.Task.Constraints(), nil
	case "readonly":
		return task.ReadOnlyConstraints(), nil
	case "permissive":
		return task.PermissiveConstraints(), nil
	default:
		return task.Constraints{}, fmt.Errorf("unknown preset %q (valid: config, readonly, permissive)", taskPreset)
	}
}

// parsePlan converts --step values into step requests. With no entries it
// returns a small demonstration plan.
func parsePlan(entries []string) ([]task.StepRequest, error) {
	if len(entries) == 0 {
		return []task.StepRequest{
			{Action: task.ActionReasoning, Reasoning: "inspect the workspace context"},
			{Action: task.ActionToolCall, Operation: task.OpModifyFile, ToolName: "write_file", Reasoning: "apply the change"},
			{Action: task.ActionToolCall, Operation: task.OpRunCommand, ToolName: "run_tests", Reasoning: "verify the change"},
		}, nil
	}

	plan := make([]task.StepRequest, 0, len(entries))
	for _, entry := range entries {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid step %q, want \"operation:tool:reasoning\"", entry)
		}

		op, toolName, reasoning := parts[0], parts[1], parts[2]
		req := task.StepRequest{Reasoning: reasoning}

		switch op {
		case "", "none":
			req.Operation = task.OpNone
		case "modify_file":
			req.Operation = task.OpModifyFile
		case "create_file":
			req.Operation = task.OpCreateFile
		case "delete_file":
			req.Operation = task.OpDeleteFile
		case "run_command":
			req.Operation = task.OpRunCommand
		default:
			return nil, fmt.Errorf("unknown operation %q in step %q", op, entry)
		}

		if toolName != "" {
			req.Action = task.ActionToolCall
			req.ToolName = toolName
		} else {
			req.Action = task.ActionReasoning
		}

		plan = append(plan, req)
	}
	return plan, nil
}

func printTask(out io.Writer, t *task.AgentTask, gateway *tool.Recorder) {
	fmt.Fprintf(out, "\nTask %s (%s): %s\n", t.ID(), t.Type(), t.Description())
	if t.Context() != "" {
		fmt.Fprintf(out, "Context: %s\n", strings.ReplaceAll(t.Context(), "\n", "; "))
	}
	fmt.Fprintf(out, "Status: %s, steps: %d, tokens: %d\n", t.Status(), t.StepCount(), t.TotalTokens())
	fmt.Fprintln(out, strings.Repeat("─", 50))

	for _, s := range t.Steps() {
		line := fmt.Sprintf("%2d. [%-9s] %s", s.ID, s.Status, s.Reasoning)
		if s.IsToolCall() {
			line += fmt.Sprintf(" (%s)", s.ToolName)
		}
		if s.Status == task.StepFailed && s.Result != "" {
			line += fmt.Sprintf(" error: %s", s.Result)
		}
		fmt.Fprintln(out, line)
	}

	if calls := gateway.Calls(); len(calls) > 0 {
		fmt.Fprintf(out, "\nGateway calls: %d\n", len(calls))
		for _, c := range calls {
			fmt.Fprintf(out, "  - %s\n", c.Name)
		}
	}

	if result, ok := t.Result(); ok {
		fmt.Fprintf(out, "\nResult: success=%v, %s\n", result.Success, result.Summary)
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  error: %s\n", e)
		}
	}
}
