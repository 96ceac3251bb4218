// File: cmd/monoctl/plan.go
// Brief: CLI wiring for `monoctl plan`.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/monoctl/internal/plan"
	"github.com/example/monoctl/internal/project"
)

func newPlanCommand(rootDir *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "plan <command> [service...]",
		Short: "Compile the staged execution plan for a command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Load(*rootDir)
			if err != nil {
				return err
			}
			commandName := args[0]
			if err := plan.ValidateCommandTargets(proj, commandName, args[1:]); err != nil {
				return err
			}
			targets := resolveTargets(proj, commandName, args[1:])
			if len(targets) == 0 {
				return fmt.Errorf("no service defines command %q", plan.RootCommand(commandName))
			}
			pl, err := plan.Build(proj, commandName, targets)
			if err != nil {
				return err
			}
			switch strings.ToLower(strings.TrimSpace(output)) {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(pl)
			case "", "table":
				return plan.PrintPlanTable(cmd.OutOrStdout(), pl)
			default:
				return fmt.Errorf("unknown --output %q (expected table|json)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table|json")
	return cmd
}
