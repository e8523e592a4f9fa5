// Package graph is a small directed graph used to turn a resolved
// dependency set into a leaves-first build order.
package graph

import "fmt"

// Graph is an adjacency-list directed graph over string node names. Nodes
// must be added with Add before they can appear as an edge target; edges
// to an unknown node are an error at Sort time, not at Add time, so
// callers can add nodes and edges in any order.
type Graph struct {
	order []string
	edges map[string][]string
	added map[string]bool
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		edges: make(map[string][]string),
		added: make(map[string]bool),
	}
}

// Add registers node with the given outbound edges (the things node
// depends on). Calling Add twice for the same node replaces its edge
// list rather than appending to it.
func (g *Graph) Add(node string, dependsOn []string) {
	if !g.added[node] {
		g.order = append(g.order, node)
		g.added[node] = true
	}
	g.edges[node] = dependsOn
}

// CycleError reports that Sort found no valid ordering.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency: %v", e.Cycle)
}

// Sort returns nodes in dependency order: every node appears after
// everything it depends on. Ties are broken by the order nodes were
// first Add-ed, so the result is deterministic across runs given the
// same insertion order. Sort returns a *CycleError if the graph has no
// valid ordering.
func (g *Graph) Sort() ([]string, error) {
	indegree := make(map[string]int, len(g.order))
	dependents := make(map[string][]string, len(g.order))
	for _, n := range g.order {
		if _, ok := indegree[n]; !ok {
			indegree[n] = 0
		}
	}
	for n, deps := range g.edges {
		for _, d := range deps {
			if !g.added[d] {
				return nil, fmt.Errorf("graph: %q depends on %q, which was never added", n, d)
			}
			indegree[n]++
			dependents[d] = append(dependents[d], n)
		}
	}

	var ready []string
	for _, n := range g.order {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}

	var out []string
	for len(ready) > 0 {
		// Pop in insertion order for determinism, not queue order.
		n := ready[0]
		ready = ready[1:]
		out = append(out, n)

		for _, dep := range dependents[n] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = insertInOrder(ready, dep, g.order)
			}
		}
	}

	if len(out) != len(g.order) {
		return nil, &CycleError{Cycle: remaining(g.order, out)}
	}
	return out, nil
}

// insertInOrder inserts node into ready keeping ready sorted by each
// element's position in order, so Sort's output doesn't depend on map
// iteration order.
func insertInOrder(ready []string, node string, order []string) []string {
	pos := indexOf(order, node)
	for i, r := range ready {
		if indexOf(order, r) > pos {
			out := make([]string, 0, len(ready)+1)
			out = append(out, ready[:i]...)
			out = append(out, node)
			out = append(out, ready[i:]...)
			return out
		}
	}
	return append(ready, node)
}

func indexOf(order []string, node string) int {
	for i, n := range order {
		if n == node {
			return i
		}
	}
	return -1
}

func remaining(all, done []string) []string {
	seen := make(map[string]bool, len(done))
	for _, n := range done {
		seen[n] = true
	}
	var out []string
	for _, n := range all {
		if !seen[n] {
			out = append(out, n)
		}
	}
	return out
}
