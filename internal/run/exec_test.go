package run

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/monoctl/internal/plan"
	"github.com/example/monoctl/internal/project"
)

func workDirFixture() *project.Project {
	return &project.Project{
		RootDir: "/repo",
		Services: map[string]*project.Service{
			"web": {ID: "web", Dir: "/repo/apps/web"},
		},
		ServiceIDs: []string{"web"},
	}
}

func TestWorkDir(t *testing.T) {
	proj := workDirFixture()
	cases := []struct {
		dir  string
		want string
	}{
		{dir: "", want: "/repo/apps/web"},
		{dir: "root", want: "/repo"},
		{dir: "/abs/path", want: "/abs/path"},
		{dir: "src", want: "/repo/apps/web/src"},
		{dir: "../shared", want: "/repo/apps/shared"},
	}
	for _, tc := range cases {
		got, err := WorkDir(proj, &plan.Task{Service: "web", Command: "lint", Dir: tc.dir})
		if err != nil {
			t.Fatalf("dir=%q: %v", tc.dir, err)
		}
		if got != filepath.FromSlash(tc.want) {
			t.Fatalf("dir=%q got=%q want=%q", tc.dir, got, tc.want)
		}
	}
}

func TestWorkDir_UnknownService(t *testing.T) {
	_, err := WorkDir(workDirFixture(), &plan.Task{Service: "ghost", Command: "lint"})
	if err == nil || !strings.Contains(err.Error(), "unknown service") {
		t.Fatalf("err=%v", err)
	}
}

func TestSortedEnv(t *testing.T) {
	got := sortedEnv(map[string]string{"B": "2", "A": "1", "C": "3"})
	want := []string{"A=1", "B=2", "C=3"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("env=%v", got)
	}
}

func TestHostExecutor_RunsExecutable(t *testing.T) {
	root := t.TempDir()
	svcDir := filepath.Join(root, "svc")
	if err := os.MkdirAll(svcDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	proj := &project.Project{
		RootDir:    root,
		Services:   map[string]*project.Service{"svc": {ID: "svc", Dir: svcDir}},
		ServiceIDs: []string{"svc"},
	}
	var out strings.Builder
	exec := NewExecutor(proj, false, &out, &out)
	task := &plan.Task{
		Service:    "svc",
		Command:    "greet",
		Executable: "sh -c 'echo hello $WHO'",
		Env:        map[string]string{"WHO": "monoctl"},
	}
	if err := exec.RunTask(context.Background(), task); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "hello monoctl") {
		t.Fatalf("output=%q", out.String())
	}
}

func TestHostExecutor_FailurePropagates(t *testing.T) {
	proj := workDirFixture()
	proj.Services["web"].Dir = t.TempDir()
	exec := NewExecutor(proj, false, os.Stdout, os.Stderr)
	task := &plan.Task{Service: "web", Command: "bad", Executable: "false"}
	err := exec.RunTask(context.Background(), task)
	if err == nil || !strings.Contains(err.Error(), "web:bad") {
		t.Fatalf("err=%v", err)
	}
}

func TestHostExecutor_EmptyExecutable(t *testing.T) {
	exec := NewExecutor(workDirFixture(), false, os.Stdout, os.Stderr)
	err := exec.RunTask(context.Background(), &plan.Task{Service: "web", Command: "bad", Executable: "  "})
	if err == nil || !strings.Contains(err.Error(), "empty executable") {
		t.Fatalf("err=%v", err)
	}
}

func TestForceHostDowngradesContainerTasks(t *testing.T) {
	root := t.TempDir()
	proj := &project.Project{
		RootDir:    root,
		Services:   map[string]*project.Service{"svc": {ID: "svc", Dir: root}},
		ServiceIDs: []string{"svc"},
	}
	var out strings.Builder
	exec := NewExecutor(proj, true, &out, &out)
	task := &plan.Task{
		Service:    "svc",
		Command:    "greet",
		Executable: "echo direct",
		Context:    project.ContextContainer,
	}
	if err := exec.RunTask(context.Background(), task); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "direct") {
		t.Fatalf("output=%q", out.String())
	}
}
