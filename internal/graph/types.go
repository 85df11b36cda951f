// Package graph provides the foreign key dependency graph used to order
// table exports so that referenced tables come first.
package graph

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Graph is a directed graph of table keys. Node insertion order is kept so
// that the sort is stable with respect to catalog order.
type Graph struct {
	nodes    *orderedmap.OrderedMap[string, struct{}]
	Children map[string][]string // table -> tables referencing it
	Parents  map[string][]string // table -> tables it references
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    orderedmap.NewOrderedMap[string, struct{}](),
		Children: make(map[string][]string),
		Parents:  make(map[string][]string),
	}
}

// AddNode adds a table to the graph. Adding an existing table is a no-op.
func (g *Graph) AddNode(name string) {
	if _, ok := g.nodes.Get(name); ok {
		return
	}
	g.nodes.Set(name, struct{}{})
}

// AddEdge adds a parent -> child relationship. Self references and
// duplicate edges are ignored.
func (g *Graph) AddEdge(parent, child string) {
	if parent == child {
		return
	}
	for _, c := range g.Children[parent] {
		if c == child {
			return
		}
	}
	g.AddNode(parent)
	g.AddNode(child)
	g.Children[parent] = append(g.Children[parent], child)
	g.Parents[child] = append(g.Parents[child], parent)
}

// GetChildren returns all direct children of a table.
func (g *Graph) GetChildren(parent string) []string {
	return g.Children[parent]
}

// GetParents returns all direct parents of a table.
func (g *Graph) GetParents(child string) []string {
	return g.Parents[child]
}

// HasNode returns true if the graph contains a node with the given name.
func (g *Graph) HasNode(name string) bool {
	_, exists := g.nodes.Get(name)
	return exists
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return g.nodes.Len()
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.Children {
		count += len(children)
	}
	return count
}

// AllNodes returns all table keys in insertion order.
func (g *Graph) AllNodes() []string {
	return g.nodes.Keys()
}

// InDegree returns the number of incoming edges (parents) for a node.
func (g *Graph) InDegree(name string) int {
	return len(g.Parents[name])
}
