package plan

import (
	"sort"
	"strings"
	"testing"

	"github.com/example/monoctl/internal/project"
)

func testProject(services map[string]*project.Service) *project.Project {
	p := &project.Project{
		RootDir:  "/repo",
		Name:     "test",
		Services: services,
	}
	for id, svc := range services {
		svc.ID = id
		if svc.Dir == "" {
			svc.Dir = "/repo/" + id
		}
		p.ServiceIDs = append(p.ServiceIDs, id)
	}
	sort.Strings(p.ServiceIDs)
	return p
}

func leaf(run string) *project.Command {
	return &project.Command{Run: run}
}

func TestResolveCommand_Leaf(t *testing.T) {
	p := testProject(map[string]*project.Service{
		"web": {Commands: map[string]*project.Command{
			"lint": leaf("eslint ."),
		}},
	})
	tasks, err := ResolveCommand(p, "lint", "web")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("tasks=%d", len(tasks))
	}
	got := tasks[0]
	if got.Command != "lint" || got.Service != "web" || got.Executable != "eslint ." {
		t.Fatalf("task=%+v", got)
	}
}

func TestResolveCommand_FlattensSubtreeWithInheritance(t *testing.T) {
	p := testProject(map[string]*project.Service{
		"web": {Commands: map[string]*project.Command{
			"check": {
				Env:     map[string]string{"CI": "1", "MODE": "check"},
				Dir:     "src",
				Context: project.ContextContainer,
				Commands: map[string]*project.Command{
					"types": {Run: "tsc --noEmit"},
					"lint": {
						Env: map[string]string{"MODE": "lint"},
						Dir: "root",
						Commands: map[string]*project.Command{
							"ts":  {Run: "eslint ."},
							"css": {Run: "stylelint .", Context: project.ContextHost},
						},
					},
				},
			},
		}},
	})
	tasks, err := ResolveCommand(p, "check", "web")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	byCommand := map[string]*Task{}
	var order []string
	for _, task := range tasks {
		byCommand[task.Command] = task
		order = append(order, task.Command)
	}
	want := []string{"check:lint:css", "check:lint:ts", "check:types"}
	if strings.Join(order, " ") != strings.Join(want, " ") {
		t.Fatalf("order=%v", order)
	}

	types := byCommand["check:types"]
	if types.Dir != "src" || types.Context != project.ContextContainer {
		t.Fatalf("types=%+v", types)
	}
	if types.Env["CI"] != "1" || types.Env["MODE"] != "check" {
		t.Fatalf("types env=%v", types.Env)
	}

	ts := byCommand["check:lint:ts"]
	if ts.Dir != "root" || ts.Context != project.ContextContainer {
		t.Fatalf("ts=%+v", ts)
	}
	if ts.Env["MODE"] != "lint" || ts.Env["CI"] != "1" {
		t.Fatalf("ts env=%v", ts.Env)
	}

	css := byCommand["check:lint:css"]
	if css.Context != project.ContextHost {
		t.Fatalf("css context=%q", css.Context)
	}
}

func TestResolveCommand_SubPathNavigation(t *testing.T) {
	p := testProject(map[string]*project.Service{
		"web": {Commands: map[string]*project.Command{
			"check": {Commands: map[string]*project.Command{
				"lint": {Commands: map[string]*project.Command{
					"ts": {Run: "eslint ."},
				}},
			}},
		}},
	})
	tasks, err := ResolveCommand(p, "check:lint:ts", "web")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Command != "check:lint:ts" {
		t.Fatalf("tasks=%+v", tasks)
	}
}

func TestResolveCommand_UnknownService(t *testing.T) {
	p := testProject(map[string]*project.Service{})
	_, err := ResolveCommand(p, "lint", "ghost")
	if err == nil || !strings.Contains(err.Error(), `unknown service "ghost"`) {
		t.Fatalf("err=%v", err)
	}
}

func TestResolveCommand_UnknownRootCommand(t *testing.T) {
	p := testProject(map[string]*project.Service{
		"web": {Commands: map[string]*project.Command{"lint": leaf("eslint .")}},
	})
	_, err := ResolveCommand(p, "test", "web")
	if err == nil || !strings.Contains(err.Error(), `command "test" not found on service web`) {
		t.Fatalf("err=%v", err)
	}
}

func TestResolveCommand_UnknownSubcommandIncludesPartialPath(t *testing.T) {
	p := testProject(map[string]*project.Service{
		"web": {Commands: map[string]*project.Command{
			"check": {Commands: map[string]*project.Command{
				"lint": leaf("eslint ."),
			}},
		}},
	})
	_, err := ResolveCommand(p, "check:lint:ts", "web")
	if err == nil || !strings.Contains(err.Error(), `no subcommand "ts" under check:lint`) {
		t.Fatalf("err=%v", err)
	}
}
