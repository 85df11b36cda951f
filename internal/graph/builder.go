package graph

// Reference is a foreign key relationship between two tables, identified
// by their unquoted schema.name keys.
type Reference struct {
	Child  string
	Parent string
}

// Build constructs a dependency graph over tables. References to tables
// outside the set are dropped, since they do not constrain the export order.
func Build(tables []string, refs []Reference) *Graph {
	g := NewGraph()
	for _, t := range tables {
		g.AddNode(t)
	}

	for _, ref := range refs {
		if !g.HasNode(ref.Child) || !g.HasNode(ref.Parent) {
			continue
		}
		g.AddEdge(ref.Parent, ref.Child)
	}

	return g
}
