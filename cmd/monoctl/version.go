// File: cmd/monoctl/version.go
// Brief: CLI wiring for `monoctl version`.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/monoctl/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
			return nil
		},
	}
}
