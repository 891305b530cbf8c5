// Package workflowfile loads workflow definitions from YAML files. A
// definition names the workflow and declares its tasks with local refs,
// so dependencies can be expressed before task ids exist.
package workflowfile

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/castorlabs/crew/pkg/models"
)

// TaskDef declares one task in a workflow file.
type TaskDef struct {
	// Ref is a file-local handle other tasks use in depends_on.
	Ref       string            `yaml:"ref"`
	Kind      string            `yaml:"kind"`
	Content   string            `yaml:"content"`
	Recipient string            `yaml:"recipient"`
	Priority  int               `yaml:"priority"`
	Metadata  map[string]string `yaml:"metadata"`
	DependsOn []string          `yaml:"depends_on"`
}

// Definition is the parsed form of a workflow file.
type Definition struct {
	Workflow string    `yaml:"workflow"`
	Tasks    []TaskDef `yaml:"tasks"`
}

// Load reads and validates a workflow definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}
	return Parse(data)
}

// Parse validates a workflow definition from raw YAML. Refs must be
// unique when set, each task needs a known kind and content, and depends_on
// may only name refs declared earlier in the file. The ordering rule
// keeps dependency resolution a single forward pass and rules out
// cycles within the file.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse workflow file: %w", err)
	}

	if def.Workflow == "" {
		return nil, fmt.Errorf("workflow file missing workflow name")
	}
	if len(def.Tasks) == 0 {
		return nil, fmt.Errorf("workflow %q declares no tasks", def.Workflow)
	}

	refs := make(map[string]bool)
	for i, t := range def.Tasks {
		if t.Kind == "" {
			return nil, fmt.Errorf("task %d: missing kind", i)
		}
		if !models.Kind(t.Kind).Valid() {
			return nil, fmt.Errorf("task %d: unknown kind %q", i, t.Kind)
		}
		if t.Content == "" {
			return nil, fmt.Errorf("task %d: missing content", i)
		}
		for _, dep := range t.DependsOn {
			if !refs[dep] {
				return nil, fmt.Errorf("task %d depends on ref %q not declared earlier in the file", i, dep)
			}
		}
		if t.Ref != "" {
			if refs[t.Ref] {
				return nil, fmt.Errorf("duplicate task ref %q", t.Ref)
			}
			refs[t.Ref] = true
		}
	}

	return &def, nil
}

// Materialize turns the definition's task declarations into tasks,
// resolving file-local refs in depends_on to the generated task ids.
// Tasks are created in declaration order with sender set to source;
// newID supplies each task's unique id.
func (d *Definition) Materialize(newID func() string, source string) []*models.Task {
	idByRef := make(map[string]string)
	tasks := make([]*models.Task, 0, len(d.Tasks))
	for _, td := range d.Tasks {
		var deps []string
		for _, ref := range td.DependsOn {
			deps = append(deps, idByRef[ref])
		}
		t := &models.Task{
			ID:        newID(),
			Kind:      models.Kind(td.Kind),
			Content:   td.Content,
			Sender:    source,
			Recipient: td.Recipient,
			Priority:  td.Priority,
			Metadata:  td.Metadata,
			DependsOn: deps,
		}
		if td.Ref != "" {
			idByRef[td.Ref] = t.ID
		}
		tasks = append(tasks, t)
	}
	return tasks
}
