package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cadre-ai/cadre/internal/role"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the built-in specialist roles",
	Long: `Display every built-in specialist role with its group, capability set,
and whether it may modify the workspace.`,
	RunE: runRoles,
}

func init() {
	rootCmd.AddCommand(rolesCmd)
}

func runRoles(cmd *cobra.Command, args []string) error {
	catalog := role.Builtin()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-12s %-11s %-9s %s\n", "ROLE", "GROUP", "ACCESS", "CAPABILITIES")
	fmt.Fprintln(out, strings.Repeat("─", 70))

	for _, r := range catalog.Roles() {
		def, ok := catalog.Lookup(r)
		if !ok {
			continue
		}

		access := "write"
		if def.ReadOnly() {
			access = "read-only"
		}

		caps := make([]string, 0, len(def.Capabilities))
		for _, c := range def.Capabilities.List() {
			caps = append(caps, c.String())
		}

		fmt.Fprintf(out, "%-12s %-11s %-9s %s\n", r, def.Group, access, strings.Join(caps, ", "))
	}

	return nil
}
