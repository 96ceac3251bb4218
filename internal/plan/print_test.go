package plan

import (
	"strings"
	"testing"

	"github.com/example/monoctl/internal/project"
)

func printFixture(t *testing.T) *project.Project {
	t.Helper()
	return testProject(map[string]*project.Service{
		"web": {Commands: map[string]*project.Command{
			"lint": {Run: "eslint .", Dependencies: depsOn("backend")},
		}},
		"backend": {Commands: map[string]*project.Command{"lint": leaf("ruff check .")}},
	})
}

func TestPrintPlanTable(t *testing.T) {
	p := printFixture(t)
	pl, err := Build(p, "lint", []string{"web"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var buf strings.Builder
	if err := PrintPlanTable(&buf, pl); err != nil {
		t.Fatalf("print: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"STAGE", "backend:lint", "web:lint", "eslint ."} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "backend:lint") > strings.Index(out, "web:lint") {
		t.Fatalf("stage order wrong:\n%s", out)
	}
}

func TestPrintGraphDOT(t *testing.T) {
	p := printFixture(t)
	g, err := BuildGraph(p, "lint", []string{"web"})
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	var buf strings.Builder
	PrintGraphDOT(&buf, g)
	out := buf.String()
	if !strings.Contains(out, "digraph monoctl") {
		t.Fatalf("output:\n%s", out)
	}
	if !strings.Contains(out, `"backend:lint" -> "web:lint";`) {
		t.Fatalf("missing edge:\n%s", out)
	}
}

func TestPrintGraphMermaid(t *testing.T) {
	p := printFixture(t)
	g, err := BuildGraph(p, "lint", []string{"web"})
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	var buf strings.Builder
	PrintGraphMermaid(&buf, g)
	out := buf.String()
	if !strings.Contains(out, "graph TD") || !strings.Contains(out, "backend_lint --> web_lint") {
		t.Fatalf("output:\n%s", out)
	}
}
