package seeder

import "strings"

// DependencyGraph tracks which tables must be generated before others.
// Nodes and edges keep their registration order so ResolveOrder is stable.
type DependencyGraph struct {
	nodes []string
	deps  map[string][]string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		deps: make(map[string][]string),
	}
}

func (g *DependencyGraph) AddNode(name string) {
	if _, ok := g.deps[name]; ok {
		return
	}
	g.deps[name] = []string{}
	g.nodes = append(g.nodes, name)
}

// AddDependency records that dependent needs dependency generated first.
// Self-edges are dropped: self-references resolve through the in-progress
// row store, not through ordering.
func (g *DependencyGraph) AddDependency(dependent, dependency string) {
	g.AddNode(dependent)
	g.AddNode(dependency)
	if dependent == dependency {
		return
	}
	for _, existing := range g.deps[dependent] {
		if existing == dependency {
			return
		}
	}
	g.deps[dependent] = append(g.deps[dependent], dependency)
}

func (g *DependencyGraph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

func (g *DependencyGraph) DependenciesOf(name string) []string {
	return append([]string(nil), g.deps[name]...)
}

// ResolveOrder returns every node exactly once, dependencies first.
func (g *DependencyGraph) ResolveOrder() ([]string, error) {
	const (
		unvisited = iota
		inProgress
		finished
	)

	state := make(map[string]int, len(g.nodes))
	order := make([]string, 0, len(g.nodes))
	var path []string

	var visit func(string) error
	visit = func(name string) error {
		switch state[name] {
		case finished:
			return nil
		case inProgress:
			return &Error{
				Kind:  ErrCircularDependency,
				Table: name,
				Msg:   "detected involving '" + name + "': " + cyclePath(path, name),
			}
		}

		state[name] = inProgress
		path = append(path, name)
		for _, dep := range g.deps[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[name] = finished
		order = append(order, name)
		return nil
	}

	for _, name := range g.nodes {
		if state[name] == unvisited {
			if err := visit(name); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}

// Levels returns the depth of every node: 0 for tables without
// dependencies, otherwise one more than the deepest dependency.
func (g *DependencyGraph) Levels() (map[string]int, error) {
	order, err := g.ResolveOrder()
	if err != nil {
		return nil, err
	}
	levels := make(map[string]int, len(order))
	for _, name := range order {
		level := 0
		for _, dep := range g.deps[name] {
			if levels[dep]+1 > level {
				level = levels[dep] + 1
			}
		}
		levels[name] = level
	}
	return levels, nil
}

func cyclePath(path []string, repeated string) string {
	start := 0
	for i, name := range path {
		if name == repeated {
			start = i
			break
		}
	}
	cycle := append(append([]string(nil), path[start:]...), repeated)
	return strings.Join(cycle, " -> ")
}
