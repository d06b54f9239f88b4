// Package pipeline runs named tasks in dependency order.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Task is a named unit of work with dependencies on other tasks.
type Task struct {
	Name        string
	Group       string
	Description string
	DependsOn   []string
	Action      func(ctx context.Context) error
}

// Graph holds registered tasks.
type Graph struct {
	tasks map[string]*Task
	order []string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{tasks: map[string]*Task{}}
}

// Register adds a task. Names must be unique.
func (g *Graph) Register(t Task) error {
	if t.Name == "" {
		return fmt.Errorf("pipeline: task without name")
	}
	if _, exists := g.tasks[t.Name]; exists {
		return fmt.Errorf("pipeline: duplicate task registration: %s", t.Name)
	}
	g.tasks[t.Name] = &t
	g.order = append(g.order, t.Name)
	return nil
}

// Get returns the named task.
func (g *Graph) Get(name string) (*Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// Tasks returns all tasks sorted by group, then name.
func (g *Graph) Tasks() []*Task {
	out := make([]*Task, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.tasks[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Plan returns the execution order for the requested tasks: dependencies
// first, each task once. Excluded tasks are dropped together with any
// dependency only they required.
func (g *Graph) Plan(names []string, exclude []string) ([]*Task, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		if _, ok := g.tasks[name]; !ok {
			return nil, fmt.Errorf("pipeline: unknown task %q", name)
		}
		excluded[name] = true
	}

	const (
		visiting = 1
		done     = 2
	)
	state := map[string]int{}
	var plan []*Task
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		t, ok := g.tasks[name]
		if !ok {
			return fmt.Errorf("pipeline: unknown task %q", name)
		}
		if excluded[name] {
			return nil
		}
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("pipeline: dependency cycle: %s -> %s", strings.Join(stack, " -> "), name)
		}

		state[name] = visiting
		stack = append(stack, name)
		for _, dep := range t.DependsOn {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		plan = append(plan, t)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// Outcome records one executed task.
type Outcome struct {
	Task     string
	Status   string // "success", "failed", "skipped"
	Duration time.Duration
	Error    error
}

// Run executes the plan for names. Execution stops at the first failing
// task; the tasks that did not run are reported as skipped.
func (g *Graph) Run(ctx context.Context, names []string, exclude []string) ([]Outcome, error) {
	plan, err := g.Plan(names, exclude)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(plan))
	var runErr error
	for _, t := range plan {
		if runErr != nil {
			outcomes = append(outcomes, Outcome{Task: t.Name, Status: "skipped"})
			continue
		}
		if err := ctx.Err(); err != nil {
			runErr = err
			outcomes = append(outcomes, Outcome{Task: t.Name, Status: "skipped"})
			continue
		}

		start := time.Now()
		o := Outcome{Task: t.Name, Status: "success"}
		if t.Action != nil {
			if err := t.Action(ctx); err != nil {
				o.Status = "failed"
				o.Error = err
				runErr = fmt.Errorf("task %s: %w", t.Name, err)
			}
		}
		o.Duration = time.Since(start)
		outcomes = append(outcomes, o)
	}
	return outcomes, runErr
}
