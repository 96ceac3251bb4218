// File: internal/project/load.go
// Brief: Filesystem discovery and validation of monoctl.yaml/service.yaml.

package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	workspaceFileName = "monoctl.yaml"
	serviceFileName   = "service.yaml"

	apiVersion = "monoctl.dev/v1"
)

// Load discovers and validates a workspace rooted at root. The returned
// Project is a fresh snapshot; callers never mutate it.
func Load(root string) (*Project, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	wf, err := readWorkspaceFile(filepath.Join(absRoot, workspaceFileName))
	if err != nil {
		return nil, err
	}

	p := &Project{
		RootDir:  absRoot,
		Name:     strings.TrimSpace(wf.Name),
		Services: map[string]*Service{},
	}
	if p.Name == "" {
		p.Name = filepath.Base(absRoot)
	}

	for id, svc := range wf.Services {
		if svc == nil {
			svc = &Service{}
		}
		svc.ID = id
		svc.Dir = resolveServiceDir(absRoot, svc.Dir)
		p.Services[id] = svc
	}

	if err := discoverServiceFiles(absRoot, p); err != nil {
		return nil, err
	}

	p.ServiceIDs = make([]string, 0, len(p.Services))
	for id := range p.Services {
		p.ServiceIDs = append(p.ServiceIDs, id)
	}
	sort.Strings(p.ServiceIDs)

	if err := validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func readWorkspaceFile(path string) (*WorkspaceFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no %s found at workspace root %s", workspaceFileName, filepath.Dir(path))
		}
		return nil, err
	}
	var wf WorkspaceFile
	if err := yaml.Unmarshal(raw, &wf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if wf.Kind != "" && wf.Kind != "Workspace" {
		return nil, fmt.Errorf("%s: kind must be Workspace (got %q)", path, wf.Kind)
	}
	if wf.APIVersion != "" && wf.APIVersion != apiVersion {
		return nil, fmt.Errorf("%s: apiVersion must be %s (got %q)", path, apiVersion, wf.APIVersion)
	}
	return &wf, nil
}

func discoverServiceFiles(absRoot string, p *Project) error {
	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "bin", "dist", "node_modules":
				return fs.SkipDir
			}
			return nil
		}
		if filepath.Base(path) != serviceFileName {
			return nil
		}
		sf, err := readServiceFile(path)
		if err != nil {
			return err
		}
		id := strings.TrimSpace(sf.Name)
		if _, exists := p.Services[id]; exists {
			return fmt.Errorf("%s: duplicate service %q", path, id)
		}
		p.Services[id] = &Service{
			ID:           id,
			Dir:          filepath.Dir(path),
			Dependencies: sf.Dependencies,
			Commands:     sf.Commands,
		}
		return nil
	})
}

func readServiceFile(path string) (*ServiceFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf ServiceFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if sf.Kind != "" && sf.Kind != "Service" {
		return nil, fmt.Errorf("%s: kind must be Service (got %q)", path, sf.Kind)
	}
	if sf.APIVersion != "" && sf.APIVersion != apiVersion {
		return nil, fmt.Errorf("%s: apiVersion must be %s (got %q)", path, apiVersion, sf.APIVersion)
	}
	if strings.TrimSpace(sf.Name) == "" {
		return nil, fmt.Errorf("%s: name is required", path)
	}
	return &sf, nil
}

func resolveServiceDir(absRoot, dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return absRoot
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Clean(filepath.Join(absRoot, dir))
}

func validate(p *Project) error {
	for _, id := range p.ServiceIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("service id must not be empty")
		}
		if strings.Contains(id, ":") {
			return fmt.Errorf("service id %q must not contain ':'", id)
		}
		svc := p.Services[id]
		for _, dep := range svc.Dependencies {
			if _, ok := p.Services[dep]; !ok {
				return fmt.Errorf("service %s depends on unknown service %q", id, dep)
			}
		}
		for _, name := range sortedKeys(svc.Commands) {
			if err := validateCommand(id, name, name, svc.Commands[name], true); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateCommand(serviceID, path, name string, cmd *Command, topLevel bool) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("service %s: command name must not be empty", serviceID)
	}
	if strings.Contains(name, ":") {
		return fmt.Errorf("service %s: command name %q must not contain ':'", serviceID, name)
	}
	if cmd == nil {
		return fmt.Errorf("service %s: command %s is empty", serviceID, path)
	}
	hasRun := strings.TrimSpace(cmd.Run) != ""
	hasSub := len(cmd.Commands) > 0
	if hasRun && hasSub {
		return fmt.Errorf("service %s: command %s declares both run and commands", serviceID, path)
	}
	if !hasRun && !hasSub {
		return fmt.Errorf("service %s: command %s declares neither run nor commands", serviceID, path)
	}
	switch cmd.Context {
	case "", ContextHost, ContextContainer:
	default:
		return fmt.Errorf("service %s: command %s has invalid context %q (expected host or container)", serviceID, path, cmd.Context)
	}
	if !topLevel && cmd.Dependencies != nil {
		return fmt.Errorf("service %s: subcommand %s may not declare dependencies", serviceID, path)
	}
	for _, sub := range sortedKeys(cmd.Commands) {
		if err := validateCommand(serviceID, path+":"+sub, sub, cmd.Commands[sub], false); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]*Command) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
