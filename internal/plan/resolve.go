// File: internal/plan/resolve.go
// Brief: Command tree navigation and subtree flattening into tasks.

package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/monoctl/internal/project"
)

// inherited carries the env/dir/context accumulated while descending a
// command tree. Env is shallow-merged with the child winning on key
// conflicts; dir and context are fully replaced by a child that sets them.
type inherited struct {
	env     map[string]string
	dir     string
	context string
}

func (in inherited) apply(cmd *project.Command) inherited {
	out := inherited{dir: in.dir, context: in.context}
	if len(in.env) > 0 || len(cmd.Env) > 0 {
		out.env = make(map[string]string, len(in.env)+len(cmd.Env))
		for k, v := range in.env {
			out.env[k] = v
		}
		for k, v := range cmd.Env {
			out.env[k] = v
		}
	}
	if strings.TrimSpace(cmd.Dir) != "" {
		out.dir = cmd.Dir
	}
	if strings.TrimSpace(cmd.Context) != "" {
		out.context = cmd.Context
	}
	return out
}

// ResolveCommand navigates a service's command tree for a dotted command path
// and returns the leaf tasks it denotes: a single task when the path lands on
// an executable, or one task per leaf when it lands on a subtree. The command
// field of every returned task is the full dotted path from the root command.
func ResolveCommand(p *project.Project, commandName, serviceID string) ([]*Task, error) {
	svc, ok := p.Service(serviceID)
	if !ok {
		return nil, fmt.Errorf("unknown service %q", serviceID)
	}
	segments := strings.Split(commandName, ":")
	root := segments[0]
	node, ok := svc.Commands[root]
	if !ok {
		return nil, fmt.Errorf("command %q not found on service %s", root, serviceID)
	}

	path := root
	acc := inherited{}.apply(node)
	for _, seg := range segments[1:] {
		next, ok := node.Commands[seg]
		if !ok {
			return nil, fmt.Errorf("command %q not found on service %s (no subcommand %q under %s)", commandName, serviceID, seg, path)
		}
		path += ":" + seg
		node = next
		acc = acc.apply(node)
	}

	var tasks []*Task
	if err := flatten(serviceID, path, node, acc, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func flatten(serviceID, path string, node *project.Command, acc inherited, out *[]*Task) error {
	if len(node.Commands) > 0 {
		for _, name := range subcommandNames(node) {
			child := node.Commands[name]
			if err := flatten(serviceID, path+":"+name, child, acc.apply(child), out); err != nil {
				return err
			}
		}
		return nil
	}
	if strings.TrimSpace(node.Run) == "" {
		return fmt.Errorf("command %s on service %s has no executable", path, serviceID)
	}
	*out = append(*out, &Task{
		Service:    serviceID,
		Command:    path,
		Executable: node.Run,
		Env:        acc.env,
		Dir:        acc.dir,
		Context:    acc.context,
	})
	return nil
}

func subcommandNames(node *project.Command) []string {
	out := make([]string, 0, len(node.Commands))
	for name := range node.Commands {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
