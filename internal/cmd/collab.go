package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cadre-ai/cadre/internal/collab"
)

var collabCmd = &cobra.Command{
	Use:   "collab [goal]",
	Short: "Run a multi-specialist collaboration session",
	Long: `Create a collaboration session, drive the participants through the
chosen protocol until consensus or the turn limit, and print the outcome.

Protocols: round_robin, broadcast, debate, consensus, voting,
leader_follower, free_form. Debate requires exactly two roles.`,
	Args: cobra.ExactArgs(1),
	RunE: runCollab,
}

var (
	collabName      string   // Session name
	collabProtocol  string   // Collaboration protocol
	collabRoles     string   // Comma-separated participant roles
	collabTurns     int      // Turn limit, 0 means config default
	collabThreshold float64  // Consensus threshold, 0 means config default
	collabSave      bool     // Persist the session snapshot
	collabRespond   []string // Scripted model responses for dry runs
)

func init() {
	collabCmd.Flags().StringVar(&collabName, "name", "", "session name (default: derived from the goal)")
	collabCmd.Flags().StringVar(&collabProtocol, "protocol", "", "collaboration protocol (default: from config)")
	collabCmd.Flags().StringVar(&collabRoles, "roles", "architect,implementer,reviewer", "comma-separated participant roles")
	collabCmd.Flags().IntVar(&collabTurns, "turns", 0, "turn limit (default: from config)")
	collabCmd.Flags().Float64Var(&collabThreshold, "threshold", 0, "consensus approval threshold (default: from config)")
	collabCmd.Flags().BoolVar(&collabSave, "save", false, "save the session snapshot to the data directory")
	collabCmd.Flags().StringArrayVar(&collabRespond, "respond", nil, "scripted model response (repeatable)")
	rootCmd.AddCommand(collabCmd)
}

func runCollab(cmd *cobra.Command, args []string) error {
	goal := args[0]

	rt, err := newRuntime(collabRespond)
	if err != nil {
		return err
	}
	defer rt.close()

	protocol := collab.Protocol(collabProtocol)
	if collabProtocol == "" {
		protocol = collab.Protocol(rt.cfg.Session.Protocol)
	}

	turns := collabTurns
	if turns <= 0 {
		turns = rt.cfg.Session.MaxTurns
	}

	threshold := collabThreshold
	if threshold <= 0 {
		threshold = rt.cfg.Consensus.Threshold
	}

	roles, err := parseRoles(collabRoles)
	if err != nil {
		return err
	}

	participants := make([]*collab.Participant, 0, len(roles))
	for _, r := range roles {
		agent, ok := rt.engine.Specialist(r)
		if !ok {
			return fmt.Errorf("role %s is not in the catalog", r)
		}
		participants = append(participants, collab.NewParticipant(r, agent))
	}

	name := collabName
	if name == "" {
		name = goal
	}

	session, err := collab.NewSession(name, goal, protocol, participants, turns, rt.bus, rt.log)
	if err != nil {
		return err
	}

	runner := collab.NewRunner(rt.engine, rt.log).WithThreshold(threshold)
	result, runErr := runner.Run(cmd.Context(), session)

	printSessionResult(cmd, result)

	if collabSave {
		dir, err := sessionsDir(rt.cfg)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, session.ID()+".json")
		if err := session.Save(path); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s\n", path)
	}

	return runErr
}

func printSessionResult(cmd *cobra.Command, result collab.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Session:  %s (%s)\n", result.Name, result.SessionID)
	fmt.Fprintf(out, "Status:   %s\n", result.Status)
	fmt.Fprintf(out, "Turns:    %d\n", result.Turns)
	fmt.Fprintf(out, "Messages: %d\n", result.TotalMessages)
	if result.MostActive != "" {
		fmt.Fprintf(out, "Most active: %s\n", result.MostActive)
	}

	if len(result.Decisions) > 0 {
		fmt.Fprintln(out, "\nDecisions:")
		for _, d := range result.Decisions {
			fmt.Fprintf(out, "  - %s\n", d)
		}
	}

	if len(result.Artifacts) > 0 {
		names := make([]string, 0, len(result.Artifacts))
		for n := range result.Artifacts {
			names = append(names, n)
		}
		sort.Strings(names)
		fmt.Fprintf(out, "\nArtifacts: %d\n", len(names))
		for _, n := range names {
			fmt.Fprintf(out, "  - %s\n", n)
		}
	}
}
