// File: internal/project/types.go
// Brief: Workspace, service and command configuration types.

package project

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type APIVersionKind struct {
	APIVersion string `yaml:"apiVersion,omitempty" json:"apiVersion,omitempty"`
	Kind       string `yaml:"kind,omitempty" json:"kind,omitempty"`
}

// WorkspaceFile is the root monoctl.yaml document.
type WorkspaceFile struct {
	APIVersionKind `yaml:",inline" json:",inline"`

	Name     string              `yaml:"name,omitempty" json:"name,omitempty"`
	Services map[string]*Service `yaml:"services,omitempty" json:"services,omitempty"`
}

// ServiceFile is a standalone service.yaml document. The directory that
// contains the file becomes the service root.
type ServiceFile struct {
	APIVersionKind `yaml:",inline" json:",inline"`

	Name         string              `yaml:"name,omitempty" json:"name,omitempty"`
	Dependencies []string            `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Commands     map[string]*Command `yaml:"commands,omitempty" json:"commands,omitempty"`
}

type Service struct {
	ID  string `yaml:"-" json:"id"`
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`

	// Dependencies is the service-level default dependency list. It is
	// validated at load time but never consulted during per-command
	// resolution: a command's dependency set is either explicit or empty.
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`

	Commands map[string]*Command `yaml:"commands,omitempty" json:"commands,omitempty"`
}

// Command describes one node of a command tree. The same shape serves
// top-level commands and nested subcommands; exactly one of Run or Commands
// must be set, and Dependencies is only legal at the top level.
type Command struct {
	Run          string              `yaml:"run,omitempty" json:"run,omitempty"`
	Commands     map[string]*Command `yaml:"commands,omitempty" json:"commands,omitempty"`
	Env          map[string]string   `yaml:"env,omitempty" json:"env,omitempty"`
	Dir          string              `yaml:"dir,omitempty" json:"dir,omitempty"`
	Context      string              `yaml:"context,omitempty" json:"context,omitempty"`
	Dependencies *DependencySet      `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// Execution contexts a command may request.
const (
	ContextHost      = "host"
	ContextContainer = "container"
)

// DirRootToken in a command's dir field points at the workspace root instead
// of the service root.
const DirRootToken = "root"

type DepKind int

const (
	// DepsNone: no dependencies field, or an explicitly empty mapping.
	DepsNone DepKind = iota
	// DepsServiceList: run the same command on each listed service first.
	DepsServiceList
	// DepsCommandMap: run specific commands on specific services first.
	DepsCommandMap
)

// DependencySet is the tagged variant behind a command's dependencies field.
// YAML accepts three shapes: a sequence of service ids, a mapping from
// service id to a sequence of command names, or an empty mapping (explicit
// "no dependencies").
type DependencySet struct {
	Kind     DepKind
	Services []string
	Commands map[string][]string

	// ServiceOrder preserves mapping declaration order for deterministic
	// normalization.
	ServiceOrder []string
}

func (d *DependencySet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var services []string
		if err := node.Decode(&services); err != nil {
			return fmt.Errorf("dependencies: %w", err)
		}
		d.Kind = DepsServiceList
		d.Services = services
		return nil
	case yaml.MappingNode:
		if len(node.Content) == 0 {
			d.Kind = DepsNone
			return nil
		}
		commands := map[string][]string{}
		var order []string
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			var cmds []string
			if err := node.Content[i+1].Decode(&cmds); err != nil {
				return fmt.Errorf("dependencies[%s]: %w", key, err)
			}
			if _, dup := commands[key]; dup {
				return fmt.Errorf("dependencies: duplicate service %q", key)
			}
			commands[key] = cmds
			order = append(order, key)
		}
		d.Kind = DepsCommandMap
		d.Commands = commands
		d.ServiceOrder = order
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			d.Kind = DepsNone
			return nil
		}
	}
	return fmt.Errorf("dependencies: expected a sequence of service ids or a mapping of service id to command names (line %d)", node.Line)
}

// Project is the loaded, validated, immutable workspace snapshot the planner
// reads. ServiceIDs is sorted so every walk over the workspace is stable.
type Project struct {
	RootDir string
	Name    string

	Services   map[string]*Service
	ServiceIDs []string
}

func (p *Project) Service(id string) (*Service, bool) {
	s, ok := p.Services[id]
	return s, ok
}

// CommandNames returns the sorted top-level command names of a service.
func (s *Service) CommandNames() []string {
	return sortedKeys(s.Commands)
}
