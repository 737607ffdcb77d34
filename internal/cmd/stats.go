package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cadre-ai/cadre/internal/collab"
	"github.com/cadre-ai/cadre/internal/config"
	"github.com/cadre-ai/cadre/internal/logging"
	"github.com/cadre-ai/cadre/internal/role"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics for saved collaboration sessions",
	Long: `Read the session snapshots saved in the data directory and display
per-session and aggregate statistics: message counts, decisions, and the
most active roles.`,
	RunE: runStats,
}

var statsJSON bool // Output as JSON

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dir, err := sessionsDir(cfg)
	if err != nil {
		return err
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved sessions")
		return nil
	}
	sort.Strings(paths)

	results := make([]collab.Result, 0, len(paths))
	for _, path := range paths {
		session, err := collab.Load(path, nil, logging.NopLogger())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", filepath.Base(path), err)
			continue
		}
		results = append(results, session.Result())
	}

	if statsJSON {
		return printStatsJSON(cmd, results)
	}
	return printStatsText(cmd, results)
}

func printStatsJSON(cmd *cobra.Command, results []collab.Result) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func printStatsText(cmd *cobra.Command, results []collab.Result) error {
	out := cmd.OutOrStdout()

	totalMessages := 0
	totalDecisions := 0
	byRole := make(map[role.AgentRole]int)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "SAVED SESSIONS")
	fmt.Fprintln(out, strings.Repeat("─", 60))
	for _, r := range results {
		fmt.Fprintf(out, "%-24s %-18s turns=%-3d msgs=%d\n", truncate(r.Name, 24), r.Status, r.Turns, r.TotalMessages)

		totalMessages += r.TotalMessages
		totalDecisions += len(r.Decisions)
		for rl, n := range r.MessagesByRole {
			byRole[rl] += n
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "TOTALS")
	fmt.Fprintln(out, strings.Repeat("─", 60))
	fmt.Fprintf(out, "Sessions:  %d\n", len(results))
	fmt.Fprintf(out, "Messages:  %d\n", totalMessages)
	fmt.Fprintf(out, "Decisions: %d\n", totalDecisions)

	if len(byRole) > 0 {
		roles := make([]role.AgentRole, 0, len(byRole))
		for r := range byRole {
			roles = append(roles, r)
		}
		sort.Slice(roles, func(i, j int) bool { return byRole[roles[i]] > byRole[roles[j]] })

		fmt.Fprintln(out, "\nMessages by role:")
		for _, r := range roles {
			fmt.Fprintf(out, "  %-12s %d\n", r, byRole[r])
		}
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
