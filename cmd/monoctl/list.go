// File: cmd/monoctl/list.go
// Brief: CLI wiring for `monoctl list` (workspace inventory).

package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/monoctl/internal/project"
)

func newListCommand(rootDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list [service]",
		Short: "List services and their command trees",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Load(*rootDir)
			if err != nil {
				return err
			}
			ids := proj.ServiceIDs
			if len(args) == 1 {
				if _, ok := proj.Service(args[0]); !ok {
					return fmt.Errorf("unknown service %q (known services: %s)", args[0], strings.Join(proj.ServiceIDs, ", "))
				}
				ids = args[:1]
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer tw.Flush()
			fmt.Fprintln(tw, "SERVICE\tCOMMAND\tCONTEXT\tEXECUTABLE")
			for _, id := range ids {
				svc := proj.Services[id]
				dir := svc.Dir
				if rel, err := filepath.Rel(proj.RootDir, svc.Dir); err == nil {
					dir = rel
				}
				fmt.Fprintf(tw, "%s\t(%s)\t\t\n", id, dir)
				for _, name := range svc.CommandNames() {
					writeCommandRows(tw, id, name, svc.Commands[name], "")
				}
			}
			return nil
		},
	}
}

func writeCommandRows(tw *tabwriter.Writer, serviceID, path string, c *project.Command, inheritedContext string) {
	context := inheritedContext
	if c.Context != "" {
		context = c.Context
	}
	if len(c.Commands) == 0 {
		display := context
		if display == "" {
			display = "host"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", serviceID, path, display, c.Run)
		return
	}
	for _, sub := range sortedSubcommands(c) {
		writeCommandRows(tw, serviceID, path+":"+sub, c.Commands[sub], context)
	}
}

func sortedSubcommands(c *project.Command) []string {
	names := make([]string, 0, len(c.Commands))
	for name := range c.Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
