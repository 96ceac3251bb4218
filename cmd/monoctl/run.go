// File: cmd/monoctl/run.go
// Brief: CLI wiring for `monoctl run` (plan + execute).

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/monoctl/internal/logging"
	"github.com/example/monoctl/internal/plan"
	"github.com/example/monoctl/internal/project"
	"github.com/example/monoctl/internal/run"
)

func newRunCommand(rootDir, logLevel *string, noColor *bool) *cobra.Command {
	var concurrency int
	var failMode string
	var dryRun bool
	var planOnly bool
	var hostOnly bool

	cmd := &cobra.Command{
		Use:   "run <command> [service...]",
		Short: "Resolve a command across services and execute the staged plan",
		Long:  "monoctl run computes the dependency closure of the requested command, groups the resulting tasks into stages, and runs each stage's tasks concurrently.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Load(*rootDir)
			if err != nil {
				return err
			}
			logger, err := logging.New(*logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			commandName := args[0]
			services := args[1:]
			if err := plan.ValidateCommandTargets(proj, commandName, services); err != nil {
				return err
			}
			targets := resolveTargets(proj, commandName, services)
			if len(targets) == 0 {
				return fmt.Errorf("no service defines command %q", plan.RootCommand(commandName))
			}
			pl, err := plan.Build(proj, commandName, targets)
			if err != nil {
				return err
			}
			if planOnly {
				return plan.PrintPlanTable(cmd.OutOrStdout(), pl)
			}
			return run.Run(cmd.Context(), proj, pl, run.Options{
				Concurrency: concurrency,
				FailMode:    failMode,
				DryRun:      dryRun,
				ForceHost:   hostOnly,
				NoColor:     *noColor,
				Logger:      logger,
			}, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", defaultInt("concurrency", 4), "Maximum tasks to run concurrently within a stage")
	cmd.Flags().StringVar(&failMode, "fail-mode", defaultString("fail-mode", run.FailFast), "What to do when a task fails: fail-fast or continue (finish the stage, then stop)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the tasks each stage would run without executing them")
	cmd.Flags().BoolVar(&planOnly, "plan-only", false, "Build and print the plan, but do not execute")
	cmd.Flags().BoolVar(&hostOnly, "host", false, "Run container-context tasks on the host instead")
	return cmd
}
