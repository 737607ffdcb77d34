package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cadre-ai/cadre/internal/role"
	"github.com/cadre-ai/cadre/internal/specialist"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke [prompt]",
	Short: "Invoke one or more specialists on a prompt",
	Long: `Send a prompt to a specialist agent and print the parsed response.

By default the role is inferred from the prompt text. Use --role to pick a
specialist explicitly, --chain to run several roles in sequence, --parallel
to fan the same prompt out to several roles at once, or --review to run the
implement/review loop.

The standalone CLI runs against the scripted model client; use --respond to
seed responses for a dry run.`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoke,
}

var (
	invokeRole      string   // Explicit role, empty means infer from prompt
	invokeChain     string   // Comma-separated roles to run in sequence
	invokeParallel  string   // Comma-separated roles to fan out to
	invokeReview    bool     // Run the implement/review loop
	invokeContext   string   // Opaque workspace context, overrides editor flags
	invokeFiles     []string // Referenced file paths
	invokeSelection string   // Selected text from the editor
	invokeSymbol    string   // Symbol under the cursor
	invokeRespond   []string // Scripted responses for dry runs
)

func init() {
	invokeCmd.Flags().StringVar(&invokeRole, "role", "", "specialist role (default: inferred from prompt)")
	invokeCmd.Flags().StringVar(&invokeChain, "chain", "", "comma-separated roles to invoke in sequence")
	invokeCmd.Flags().StringVar(&invokeParallel, "parallel", "", "comma-separated roles to invoke concurrently")
	invokeCmd.Flags().BoolVar(&invokeReview, "review", false, "run the implement/review loop")
	invokeCmd.Flags().StringVar(&invokeContext, "context", "", "workspace context passed to the specialist (overrides --file/--selection/--symbol)")
	invokeCmd.Flags().StringArrayVar(&invokeFiles, "file", nil, "referenced file path; the first is the active file (repeatable)")
	invokeCmd.Flags().StringVar(&invokeSelection, "selection", "", "selected text from the editor")
	invokeCmd.Flags().StringVar(&invokeSymbol, "symbol", "", "symbol under the cursor")
	invokeCmd.Flags().StringArrayVar(&invokeRespond, "respond", nil, "scripted model response (repeatable)")
	rootCmd.AddCommand(invokeCmd)
}

func runInvoke(cmd *cobra.Command, args []string) error {
	prompt := args[0]

	rt, err := newRuntime(invokeRespond)
	if err != nil {
		return err
	}
	defer rt.close()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	activeFile := ""
	if len(invokeFiles) > 0 {
		activeFile = invokeFiles[0]
	}
	contextStr, err := workspaceContext(ctx, invokeContext, activeFile, invokeSelection, invokeSymbol)
	if err != nil {
		return err
	}
	if invokeContext == "" && activeFile != "" {
		fmt.Fprintf(out, "Workspace: %s\n", activeFile)
	}

	switch {
	case invokeChain != "":
		roles, err := parseRoles(invokeChain)
		if err != nil {
			return err
		}
		responses, err := rt.engine.InvokeChain(ctx, roles, prompt, contextStr)
		for _, resp := range responses {
			printResponse(out, resp)
		}
		return err

	case invokeParallel != "":
		roles, err := parseRoles(invokeParallel)
		if err != nil {
			return err
		}
		results, err := rt.engine.InvokeParallel(ctx, roles, prompt, contextStr)
		if err != nil {
			return err
		}
		// Print in the requested order, not map order.
		seen := make(map[role.AgentRole]bool)
		for _, r := range roles {
			if seen[r] {
				continue
			}
			seen[r] = true
			printResponse(out, results[r])
		}
		return nil

	case invokeReview:
		maxIter := rt.cfg.Review.MaxIterations
		result, err := rt.engine.ImplementReviewLoop(ctx, prompt, maxIter)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Iterations: %d\n", result.Iterations)
		if result.Approved {
			fmt.Fprintln(out, "Verdict:    approved")
		} else {
			fmt.Fprintln(out, "Verdict:    not approved (iteration limit reached)")
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, result.FinalContent)
		return nil

	default:
		r := role.AgentRole(invokeRole)
		if invokeRole == "" {
			r = rt.engine.SuggestSpecialist(prompt)
			fmt.Fprintf(out, "Inferred role: %s\n\n", r)
		} else if !r.IsValid() {
			return fmt.Errorf("unknown role %q (valid: %s)", invokeRole, roleNames())
		}

		resp, err := rt.engine.InvokeWithFiles(ctx, r, prompt, contextStr, invokeFiles)
		if err != nil {
			return err
		}
		printResponse(out, resp)
		return nil
	}
}

// printResponse writes one parsed specialist response in a compact,
// human-readable form.
func printResponse(w io.Writer, resp specialist.Response) {
	fmt.Fprintf(w, "[%s] confidence %.2f, %d tokens\n", resp.Role, resp.Confidence, resp.TokensUsed)
	fmt.Fprintln(w, strings.Repeat("─", 50))
	fmt.Fprintln(w, strings.TrimSpace(resp.Content))

	if resp.SuggestsDelegation() {
		fmt.Fprintf(w, "\nSuggests delegating to: %s\n", resp.DelegateTo)
	}

	if len(resp.Actions) > 0 {
		fmt.Fprintln(w, "\nSuggested actions:")
		for _, a := range resp.Actions {
			fmt.Fprintf(w, "  [%s|%s] %s\n", a.Category, a.Priority, a.Text)
		}
	}

	if len(resp.Artifacts) > 0 {
		fmt.Fprintf(w, "\nArtifacts: %d", len(resp.Artifacts))
		for _, art := range resp.Artifacts {
			fmt.Fprintf(w, " (%s, %d lines)", art.Type, art.LineCount)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
}
