// File: internal/plan/plan.go
// Brief: Task graph construction and staged topological ordering.

package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/monoctl/internal/project"
)

// Graph is the expanded task-level dependency graph for a command across a
// set of targets. Tasks appear in first-writer-wins insertion order; every
// edge runs from a dependency task to the task that waits on it.
type Graph struct {
	Tasks []*Task     `json:"tasks"`
	Edges [][2]string `json:"edges"`

	byKey      map[string]*Task
	dependents map[string][]string
	inDegree   map[string]int
}

// BuildGraph expands the dependency closure of every target into concrete
// tasks and wires edges from each task's direct service-level dependencies.
// Sibling tasks flattened from the same subcommand tree get no edges between
// each other; they share their root command's dependencies and nothing else.
// A command that depends on its own task gets a self-edge, which the staged
// sort reports as a cycle.
func BuildGraph(p *project.Project, commandName string, targets []string) (*Graph, error) {
	tasks := newTaskSet()
	for _, target := range targets {
		closure, err := ResolveCommandDependencies(p, commandName, target)
		if err != nil {
			return nil, err
		}
		for _, dep := range closure {
			expanded, err := ResolveCommand(p, dep.Command, dep.Service)
			if err != nil {
				return nil, err
			}
			for _, t := range expanded {
				tasks.add(t)
			}
		}
		own, err := ResolveCommand(p, commandName, target)
		if err != nil {
			return nil, err
		}
		for _, t := range own {
			tasks.add(t)
		}
	}

	g := &Graph{
		byKey:      tasks.byKey,
		dependents: map[string][]string{},
		inDegree:   map[string]int{},
	}
	for _, key := range tasks.keys {
		g.Tasks = append(g.Tasks, tasks.byKey[key])
		g.inDegree[key] = 0
	}

	edgeSeen := map[string]bool{}
	for _, key := range tasks.keys {
		task := tasks.byKey[key]
		for _, dep := range directDependencies(p, task.Service, RootCommand(task.Command)) {
			expanded, err := ResolveCommand(p, dep.Command, dep.Service)
			if err != nil {
				return nil, err
			}
			for _, depTask := range expanded {
				from := depTask.Key()
				if _, present := g.byKey[from]; !present {
					return nil, fmt.Errorf("task %s depends on %s through a same-service dependency chain; declare the dependency on the requested command directly", key, from)
				}
				edgeKey := from + " -> " + key
				if edgeSeen[edgeKey] {
					continue
				}
				edgeSeen[edgeKey] = true
				g.Edges = append(g.Edges, [2]string{from, key})
				g.dependents[from] = append(g.dependents[from], key)
				g.inDegree[key]++
			}
		}
	}
	return g, nil
}

// Build produces the staged execution plan for commandName across targets.
// Stages come out of Kahn's algorithm: each wave collects every task whose
// remaining in-degree is zero, so any two tasks in one stage are independent
// and a task always lands in a later stage than all of its dependencies. A
// stalled wave with pending tasks means a true cycle and fails with the
// unresolved task keys.
func Build(p *project.Project, commandName string, targets []string) (*Plan, error) {
	g, err := BuildGraph(p, commandName, targets)
	if err != nil {
		return nil, err
	}

	pl := &Plan{
		Command: commandName,
		Targets: append([]string(nil), targets...),
	}

	inDegree := make(map[string]int, len(g.inDegree))
	for k, v := range g.inDegree {
		inDegree[k] = v
	}
	done := map[string]bool{}
	pending := len(g.Tasks)
	for pending > 0 {
		var stage []*Task
		for _, t := range g.Tasks {
			key := t.Key()
			if !done[key] && inDegree[key] == 0 {
				stage = append(stage, t)
			}
		}
		if len(stage) == 0 {
			var stuck []string
			for _, t := range g.Tasks {
				if !done[t.Key()] {
					stuck = append(stuck, t.Key())
				}
			}
			sort.Strings(stuck)
			return nil, fmt.Errorf("circular dependency detected among tasks: %s", strings.Join(stuck, ", "))
		}
		for _, t := range stage {
			key := t.Key()
			done[key] = true
			pending--
			for _, to := range g.dependents[key] {
				inDegree[to]--
			}
		}
		pl.Stages = append(pl.Stages, stage)
	}
	return pl, nil
}
