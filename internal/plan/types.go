// File: internal/plan/types.go
// Brief: Task, dependency pair and execution plan types.

package plan

import "strings"

// Task is one fully resolved, leaf-level unit of work: a concrete executable
// on a concrete service, with the env/dir/context inherited down its command
// tree already applied. Tasks are built fresh per resolution call and never
// mutated afterwards.
type Task struct {
	Service    string            `json:"service"`
	Command    string            `json:"command"`
	Executable string            `json:"executable"`
	Env        map[string]string `json:"env,omitempty"`
	Dir        string            `json:"dir,omitempty"`
	Context    string            `json:"context,omitempty"`
}

// Key identifies a task inside a plan ("service:command").
func (t *Task) Key() string {
	return t.Service + ":" + t.Command
}

// CommandDep names a command on a service that must complete before another
// command may run. It is the unit of dependency reasoning before subcommand
// flattening.
type CommandDep struct {
	Service string `json:"service"`
	Command string `json:"command"`
}

func (d CommandDep) Key() string {
	return d.Service + ":" + d.Command
}

// Plan is an ordered sequence of stages. Every task in stage i has all of its
// dependencies in stages < i; tasks within one stage are mutually independent
// and safe to run concurrently.
type Plan struct {
	Command string    `json:"command"`
	Targets []string  `json:"targets"`
	Stages  [][]*Task `json:"stages"`
}

// Tasks returns every task of the plan in stage order.
func (p *Plan) Tasks() []*Task {
	var out []*Task
	for _, stage := range p.Stages {
		out = append(out, stage...)
	}
	return out
}

// RootCommand strips any subcommand path from a dotted command name.
// Only the root segment participates in dependency declarations.
func RootCommand(commandName string) string {
	if i := strings.Index(commandName, ":"); i >= 0 {
		return commandName[:i]
	}
	return commandName
}

// taskSet is an explicit ordered map keyed by task key. First writer wins;
// insertion order drives stage membership order so plans stay deterministic.
type taskSet struct {
	keys  []string
	byKey map[string]*Task
}

func newTaskSet() *taskSet {
	return &taskSet{byKey: map[string]*Task{}}
}

func (s *taskSet) add(t *Task) {
	key := t.Key()
	if _, ok := s.byKey[key]; ok {
		return
	}
	s.byKey[key] = t
	s.keys = append(s.keys, key)
}
