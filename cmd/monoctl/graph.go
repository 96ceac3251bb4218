// File: cmd/monoctl/graph.go
// Brief: CLI wiring for `monoctl graph` (task graph debugging).

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/monoctl/internal/plan"
	"github.com/example/monoctl/internal/project"
)

func newGraphCommand(rootDir *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph <command> [service...]",
		Short: "Print the expanded task dependency graph",
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
			g, err := plan.BuildGraph(proj, commandName, targets)
			if err != nil {
				return err
			}
			switch strings.ToLower(strings.TrimSpace(format)) {
			case "", "dot":
				plan.PrintGraphDOT(cmd.OutOrStdout(), g)
			case "mermaid":
				plan.PrintGraphMermaid(cmd.OutOrStdout(), g)
			default:
				return fmt.Errorf("unknown --format %q (expected dot|mermaid)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "dot", "Graph format: dot|mermaid")
	return cmd
}
