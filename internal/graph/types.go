package graph

// Graph is the directed precedence relation among bugs. An edge A -> B in
// Adj means A must complete before B can start (B depends on A).
type Graph struct {
	Bugs   map[string]*Node
	Adj    map[string][]string // bug -> bugs it blocks
	RevAdj map[string][]string // bug -> bugs it depends on
	Roots  []string            // bugs with no dependencies
	Leaves []string            // bugs nothing depends on

	// Orphans records declared dependencies on bugs that do not exist.
	// They are reported, never inserted as edges.
	Orphans []Orphan

	order []string // original input order, for stable topo tie-breaks
}

// Node is one bug as seen by the graph.
type Node struct {
	ID       string
	Summary  string
	Status   string
	Size     float64
	Assignee string
	Labels   []string
}

// Orphan is a dependency edge whose target is unknown.
type Orphan struct {
	BugID     string // the bug declaring the dependency
	MissingID string // the id that does not exist
}

// TopoResult is the outcome of a topological sort. Ordered is a valid
// linearization of the acyclic subgraph; Excluded holds every bug that
// could not be ordered: cycle members plus anything depending on them.
type TopoResult struct {
	Ordered  []string
	Excluded map[string]bool
}

// BugCount returns the number of bugs in the graph.
func (g *Graph) BugCount() int {
	return len(g.Bugs)
}

// DependsOn returns the ids the given bug depends on.
func (g *Graph) DependsOn(id string) []string {
	return g.RevAdj[id]
}

// Blocks returns the ids that depend on the given bug.
func (g *Graph) Blocks(id string) []string {
	return g.Adj[id]
}
