// File: internal/plan/deps.go
// Brief: Transitive dependency closure over the service x command graph.

package plan

import (
	"fmt"
	"strings"

	"github.com/example/monoctl/internal/project"
)

// ResolveCommandDependencies computes every (service, command) pair that must
// complete before commandName may run on serviceID, following each
// dependency's own declarations transitively. The result is de-duplicated and
// ordered depth-first, children before parents.
//
// An unknown primary service yields an empty closure; callers that need
// strictness run ValidateCommandTargets first. Unknown dependency services
// and dependencies missing the required command are fatal.
//
// Cycles are tolerated here: a dependency re-entering a service already on
// the expansion chain is emitted but not expanded further. The authoritative
// cycle check runs over the complete task graph in Build.
func ResolveCommandDependencies(p *project.Project, commandName, serviceID string) ([]CommandDep, error) {
	if _, ok := p.Service(serviceID); !ok {
		return nil, nil
	}
	root := RootCommand(commandName)
	visited := map[string]bool{}
	var out []CommandDep
	if err := collectDependencies(p, serviceID, root, []string{serviceID}, visited, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectDependencies(p *project.Project, serviceID, command string, chain []string, visited map[string]bool, out *[]CommandDep) error {
	for _, dep := range directDependencies(p, serviceID, command) {
		depSvc, ok := p.Service(dep.Service)
		if !ok {
			return fmt.Errorf("command %s on service %s depends on unknown service %q", command, serviceID, dep.Service)
		}
		depRoot := RootCommand(dep.Command)
		if _, ok := depSvc.Commands[depRoot]; !ok {
			return fmt.Errorf("service %s does not define command %q required by %s: dependencies must implement the command they are required for", dep.Service, dep.Command, serviceID)
		}
		key := dep.Key()
		if visited[key] {
			continue
		}
		if !containsString(chain, dep.Service) {
			if err := collectDependencies(p, dep.Service, depRoot, append(chain, dep.Service), visited, out); err != nil {
				return err
			}
		}
		if !visited[key] {
			visited[key] = true
			*out = append(*out, dep)
		}
	}
	return nil
}

// directDependencies normalizes a root command's dependency declaration into
// a flat list of pairs without recursing. A missing command, a missing
// dependencies field and an explicitly empty mapping all normalize to nil.
func directDependencies(p *project.Project, serviceID, command string) []CommandDep {
	svc, ok := p.Service(serviceID)
	if !ok {
		return nil
	}
	cmd, ok := svc.Commands[RootCommand(command)]
	if !ok || cmd.Dependencies == nil {
		return nil
	}
	ds := cmd.Dependencies
	var pairs []CommandDep
	switch ds.Kind {
	case project.DepsServiceList:
		for _, depService := range ds.Services {
			pairs = append(pairs, CommandDep{Service: depService, Command: RootCommand(command)})
		}
	case project.DepsCommandMap:
		for _, depService := range ds.ServiceOrder {
			for _, depCommand := range ds.Commands[depService] {
				pairs = append(pairs, CommandDep{Service: depService, Command: depCommand})
			}
		}
	}
	return pairs
}

// ValidateCommandTargets is the strict pre-flight gate for top-level targets:
// every target must exist and define the root command.
func ValidateCommandTargets(p *project.Project, commandName string, targets []string) error {
	root := RootCommand(commandName)
	for _, target := range targets {
		svc, ok := p.Service(target)
		if !ok {
			return fmt.Errorf("unknown service %q (known services: %s)", target, strings.Join(p.ServiceIDs, ", "))
		}
		if _, ok := svc.Commands[root]; !ok {
			return fmt.Errorf("service %s does not define command %q (available commands: %s)", target, root, strings.Join(svc.CommandNames(), ", "))
		}
	}
	return nil
}

func containsString(vals []string, want string) bool {
	for _, v := range vals {
		if v == want {
			return true
		}
	}
	return false
}
