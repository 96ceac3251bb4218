// File: internal/plan/print.go
// Brief: Human-friendly plan and graph printing.

package plan

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

func PrintPlanTable(w io.Writer, p *Plan) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "COMMAND\t%s\n", p.Command)
	fmt.Fprintf(tw, "TARGETS\t%s\n", strings.Join(p.Targets, ", "))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "STAGE\tTASK\tCONTEXT\tDIR\tEXECUTABLE")
	for i, stage := range p.Stages {
		for _, t := range stage {
			context := t.Context
			if context == "" {
				context = "host"
			}
			dir := t.Dir
			if dir == "" {
				dir = "."
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, t.Key(), context, dir, t.Executable)
		}
	}
	return nil
}

func PrintGraphDOT(w io.Writer, g *Graph) {
	fmt.Fprintln(w, "digraph monoctl {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box];")
	for _, t := range g.Tasks {
		fmt.Fprintf(w, "  %q [label=\"%s\\n%s\"];\n", t.Key(), t.Service, t.Command)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(w, "  %q -> %q;\n", e[0], e[1])
	}
	fmt.Fprintln(w, "}")
}

func PrintGraphMermaid(w io.Writer, g *Graph) {
	fmt.Fprintln(w, "graph TD")
	for _, t := range g.Tasks {
		fmt.Fprintf(w, "  %s[\"%s\"]\n", safeID(t.Key()), t.Key())
	}
	for _, e := range g.Edges {
		fmt.Fprintf(w, "  %s --> %s\n", safeID(e[0]), safeID(e[1]))
	}
}

func safeID(s string) string {
	var out strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out.WriteRune(r)
		default:
			out.WriteRune('_')
		}
	}
	return out.String()
}
