// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed acyclic graph operations for topological sorting
// and cycle detection. The resolver uses it to order resolved modules so that
// every module precedes the modules it depends on.
package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is the sentinel error wrapped by CycleError.
var ErrCycle = errors.New("dependency cycle detected")

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle contains the nodes left over once every acyclic node was
		// ordered, in insertion order. At least one cycle runs through them.
		Cycle []string
	}

	// Graph is a directed graph over comparable node keys. An edge from A to B
	// means A is ordered before B.
	Graph[K comparable] struct {
		adjacency map[K][]K
		edges     map[[2]K]struct{}
		// nodes keeps insertion order for deterministic output.
		nodes   []K
		nodeSet map[K]struct{}
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(e.Cycle, " -> "))
}

// Unwrap returns ErrCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrCycle }

// New creates an empty Graph.
func New[K comparable]() *Graph[K] {
	return &Graph[K]{
		adjacency: make(map[K][]K),
		edges:     make(map[[2]K]struct{}),
		nodeSet:   make(map[K]struct{}),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph[K]) AddNode(n K) {
	if _, ok := g.nodeSet[n]; ok {
		return
	}
	g.nodeSet[n] = struct{}{}
	g.nodes = append(g.nodes, n)
}

// AddEdge adds a directed edge from -> to. Both nodes are implicitly added;
// a repeated edge is ignored.
func (g *Graph[K]) AddEdge(from, to K) {
	g.AddNode(from)
	g.AddNode(to)
	key := [2]K{from, to}
	if _, ok := g.edges[key]; ok {
		return
	}
	g.edges[key] = struct{}{}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Has reports whether n is a node of the graph.
func (g *Graph[K]) Has(n K) bool {
	_, ok := g.nodeSet[n]
	return ok
}

// Len returns the number of nodes.
func (g *Graph[K]) Len() int { return len(g.nodes) }

// Successors returns the direct successors of n in insertion order.
func (g *Graph[K]) Successors(n K) []K {
	return append([]K(nil), g.adjacency[n]...)
}

// TopologicalSort returns a valid order using Kahn's algorithm.
// Returns CycleError if the graph contains a cycle.
// The returned order is deterministic: nodes at the same topological level
// appear in the order they were first added to the graph.
func (g *Graph[K]) TopologicalSort() ([]K, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[K]int, len(g.nodes))
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]K, 0, len(g.nodes))
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]K, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var cycle []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				cycle = append(cycle, fmt.Sprint(node))
			}
		}
		return nil, &CycleError{Cycle: cycle}
	}

	return result, nil
}
