// File: internal/run/exec.go
// Brief: Host and container task executors.

package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	shellwords "github.com/mattn/go-shellwords"

	"github.com/example/monoctl/internal/plan"
	"github.com/example/monoctl/internal/project"
)

// TaskExecutor runs one resolved task to completion.
type TaskExecutor interface {
	RunTask(ctx context.Context, task *plan.Task) error
}

type execDriver struct {
	proj      *project.Project
	forceHost bool

	out    io.Writer
	errOut io.Writer
}

// NewExecutor returns the production executor: host tasks run directly via
// os/exec, container tasks shell out to `docker compose run`. forceHost
// downgrades container tasks to the host.
func NewExecutor(proj *project.Project, forceHost bool, out, errOut io.Writer) TaskExecutor {
	return &execDriver{proj: proj, forceHost: forceHost, out: out, errOut: errOut}
}

func (e *execDriver) RunTask(ctx context.Context, task *plan.Task) error {
	if task.Context == project.ContextContainer && !e.forceHost {
		return e.runContainer(ctx, task)
	}
	return e.runHost(ctx, task)
}

func (e *execDriver) runHost(ctx context.Context, task *plan.Task) error {
	args, err := shellwords.Parse(task.Executable)
	if err != nil {
		return fmt.Errorf("%s: parse executable %q: %w", task.Key(), task.Executable, err)
	}
	if len(args) == 0 {
		return fmt.Errorf("%s: empty executable", task.Key())
	}
	dir, err := WorkDir(e.proj, task)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	cmd.Env = mergedEnv(task)
	cmd.Stdout = e.out
	cmd.Stderr = e.errOut
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %s: %w", task.Key(), task.Executable, err)
	}
	return nil
}

// runContainer executes the task inside the service's compose container.
// Compose resolves the image and mounts; monoctl only forwards env, workdir
// and the command line.
func (e *execDriver) runContainer(ctx context.Context, task *plan.Task) error {
	args := []string{"compose", "run", "--rm", "--no-deps"}
	for _, kv := range sortedEnv(task.Env) {
		args = append(args, "-e", kv)
	}
	if strings.TrimSpace(task.Dir) != "" && task.Dir != project.DirRootToken && filepath.IsAbs(task.Dir) {
		args = append(args, "-w", task.Dir)
	}
	args = append(args, task.Service, "sh", "-c", task.Executable)

	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Dir = e.proj.RootDir
	cmd.Env = os.Environ()
	cmd.Stdout = e.out
	cmd.Stderr = e.errOut
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: docker compose run %s: %w", task.Key(), task.Service, err)
	}
	return nil
}

// WorkDir resolves a task's effective working directory on the host: the
// service root when unset, the workspace root for the literal "root" token,
// an absolute path as-is, anything else relative to the service root.
func WorkDir(proj *project.Project, task *plan.Task) (string, error) {
	svc, ok := proj.Service(task.Service)
	if !ok {
		return "", fmt.Errorf("internal error: task %s references unknown service", task.Key())
	}
	dir := strings.TrimSpace(task.Dir)
	switch {
	case dir == "":
		return svc.Dir, nil
	case dir == project.DirRootToken:
		return proj.RootDir, nil
	case filepath.IsAbs(dir):
		return filepath.Clean(dir), nil
	default:
		return filepath.Clean(filepath.Join(svc.Dir, dir)), nil
	}
}

func mergedEnv(task *plan.Task) []string {
	env := os.Environ()
	return append(env, sortedEnv(task.Env)...)
}

func sortedEnv(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
