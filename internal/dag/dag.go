// Package dag provides directed graph operations over file import graphs:
// cycle detection through strongly connected components and the set of
// files a change affects.
package dag

import (
	"fmt"
	"sort"
)

// Node represents a node in the graph.
type Node struct {
	// ID is the unique identifier (normalized file path)
	ID string
	// Data holds arbitrary node data
	Data any
}

// Graph is a directed graph where an edge from A to B means "A imports B".
type Graph struct {
	nodes     map[string]*Node
	imports   map[string][]string // importer -> imported
	importers map[string][]string // imported -> importers
	selfLoops map[string]bool
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		imports:   make(map[string][]string),
		importers: make(map[string][]string),
		selfLoops: make(map[string]bool),
	}
}

// AddNode adds a node to the graph, updating its data if it already exists.
func (g *Graph) AddNode(id string, data any) {
	if node, exists := g.nodes[id]; exists {
		node.Data = data
		return
	}
	g.nodes[id] = &Node{ID: id, Data: data}
	g.imports[id] = []string{}
	g.importers[id] = []string{}
}

// AddEdge records that from imports to. Both nodes must exist.
// A file importing itself is kept as a cycle of length one.
func (g *Graph) AddEdge(from, to string) error {
	if _, exists := g.nodes[from]; !exists {
		return fmt.Errorf("node %q does not exist", from)
	}
	if _, exists := g.nodes[to]; !exists {
		return fmt.Errorf("node %q does not exist", to)
	}

	if from == to {
		g.selfLoops[from] = true
		return nil
	}

	if !contains(g.imports[from], to) {
		g.imports[from] = append(g.imports[from], to)
	}
	if !contains(g.importers[to], from) {
		g.importers[to] = append(g.importers[to], from)
	}
	return nil
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges, self-loops included.
func (g *Graph) EdgeCount() int {
	count := len(g.selfLoops)
	for _, targets := range g.imports {
		count += len(targets)
	}
	return count
}

// Cycles returns every strongly connected component that contains a cycle.
// Members of a component are sorted, and components are ordered by their
// first member.
func (g *Graph) Cycles() [][]string {
	index := 0
	indices := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var components [][]string

	var strongConnect func(id string)
	strongConnect = func(id string) {
		indices[id] = index
		lowlink[id] = index
		index++
		stack = append(stack, id)
		onStack[id] = true

		for _, next := range g.imports[id] {
			if _, seen := indices[next]; !seen {
				strongConnect(next)
				lowlink[id] = min(lowlink[id], lowlink[next])
			} else if onStack[next] {
				lowlink[id] = min(lowlink[id], indices[next])
			}
		}

		if lowlink[id] != indices[id] {
			return
		}

		var component []string
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			component = append(component, top)
			if top == id {
				break
			}
		}
		if len(component) > 1 || g.selfLoops[id] {
			sort.Strings(component)
			components = append(components, component)
		}
	}

	for _, id := range g.sortedIDs() {
		if _, seen := indices[id]; !seen {
			strongConnect(id)
		}
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i][0] < components[j][0]
	})
	return components
}

// Affected returns the changed nodes plus every file that transitively
// imports one of them.
func (g *Graph) Affected(changedIDs []string) []string {
	affected := make(map[string]bool)

	var mark func(id string)
	mark = func(id string) {
		if affected[id] {
			return
		}
		affected[id] = true
		for _, importer := range g.importers[id] {
			mark(importer)
		}
	}

	for _, id := range changedIDs {
		if _, exists := g.nodes[id]; exists {
			mark(id)
		}
	}

	result := make([]string, 0, len(affected))
	for id := range affected {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
