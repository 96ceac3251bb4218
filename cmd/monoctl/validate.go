// File: cmd/monoctl/validate.go
// Brief: CLI wiring for `monoctl validate`.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/monoctl/internal/project"
)

func newValidateCommand(rootDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the workspace configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Load(*rootDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "workspace %s ok: %d services\n", proj.Name, len(proj.ServiceIDs))
			return nil
		},
	}
}
