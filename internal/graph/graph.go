package graph

import (
	"sort"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/tracker"
)

// Build constructs a precedence Graph from the bugs' declared dependencies.
// Dependencies referencing unknown ids are recorded as orphans rather than
// inserted as edges; a dangling reference is a tracker hygiene problem, not
// a reason to abort scheduling.
func Build(bugs []tracker.Bug) *Graph {
	g := &Graph{
		Bugs:   make(map[string]*Node, len(bugs)),
		Adj:    make(map[string][]string),
		RevAdj: make(map[string][]string),
	}

	for i := range bugs {
		b := &bugs[i]
		// A repeated id overwrites the node (last writer wins) but is
		// listed once, at its first position.
		if _, dup := g.Bugs[b.ID]; !dup {
			g.order = append(g.order, b.ID)
		}
		g.Bugs[b.ID] = &Node{
			ID:       b.ID,
			Summary:  b.Summary,
			Status:   b.Status,
			Size:     b.Size,
			Assignee: b.Assignee,
			Labels:   b.Labels,
		}
	}

	edgeSet := make(map[[2]string]bool)
	addEdge := func(from, to string) {
		key := [2]string{from, to}
		if edgeSet[key] {
			return
		}
		edgeSet[key] = true
		g.Adj[from] = append(g.Adj[from], to)
		g.RevAdj[to] = append(g.RevAdj[to], from)
	}

	orphanSet := make(map[Orphan]bool)
	for i := range bugs {
		b := &bugs[i]
		for _, dep := range b.DependsOn {
			if _, ok := g.Bugs[dep]; !ok {
				o := Orphan{BugID: b.ID, MissingID: dep}
				if !orphanSet[o] {
					orphanSet[o] = true
					g.Orphans = append(g.Orphans, o)
				}
				continue
			}
			// dep must complete before b
			addEdge(dep, b.ID)
		}
	}

	// Sort adjacency lists for deterministic ordering
	for k := range g.Adj {
		sort.Strings(g.Adj[k])
	}
	for k := range g.RevAdj {
		sort.Strings(g.RevAdj[k])
	}
	sort.Slice(g.Orphans, func(i, j int) bool {
		if g.Orphans[i].BugID != g.Orphans[j].BugID {
			return g.Orphans[i].BugID < g.Orphans[j].BugID
		}
		return g.Orphans[i].MissingID < g.Orphans[j].MissingID
	})

	for _, id := range g.order {
		if len(g.RevAdj[id]) == 0 {
			g.Roots = append(g.Roots, id)
		}
		if len(g.Adj[id]) == 0 {
			g.Leaves = append(g.Leaves, id)
		}
	}
	sort.Strings(g.Roots)
	sort.Strings(g.Leaves)

	return g
}

// Cyclic returns the sorted set of bug ids participating in at least one
// cycle: members of any nontrivial strongly connected component, plus
// self-loops. Side-effect-free; callable repeatedly.
func (g *Graph) Cyclic() []string {
	var cyclic []string
	for id := range g.cyclicSet() {
		cyclic = append(cyclic, id)
	}
	sort.Strings(cyclic)
	return cyclic
}

// cyclicSet runs Tarjan's SCC algorithm and collects every node in a
// component of size > 1, plus nodes with a self-loop.
func (g *Graph) cyclicSet() map[string]bool {
	index := make(map[string]int, len(g.Bugs))
	lowlink := make(map[string]int, len(g.Bugs))
	onStack := make(map[string]bool)
	var stack []string
	next := 0
	cyclic := make(map[string]bool)

	var strongconnect func(v string)
	strongconnect = func(v string) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.Adj[v] {
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var comp []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			if len(comp) > 1 {
				for _, w := range comp {
					cyclic[w] = true
				}
			}
		}
	}

	// Visit in input order so component discovery is reproducible
	for _, id := range g.order {
		if _, seen := index[id]; !seen {
			strongconnect(id)
		}
	}

	// Self-loops form trivial SCCs; catch them separately
	for _, id := range g.order {
		for _, w := range g.Adj[id] {
			if w == id {
				cyclic[id] = true
			}
		}
	}

	return cyclic
}

// TopoSort returns a linearization of the acyclic subgraph using Kahn's
// in-degree elimination. Cycle members and every bug that (transitively)
// depends on one never reach in-degree zero and are reported as excluded
// instead of silently ordered. Ties among ready bugs break by original
// input order, so the result is reproducible for identical input.
func (g *Graph) TopoSort() TopoResult {
	pos := make(map[string]int, len(g.order))
	for i, id := range g.order {
		pos[id] = i
	}

	inDegree := make(map[string]int, len(g.Bugs))
	for id := range g.Bugs {
		inDegree[id] = len(g.RevAdj[id])
	}

	// ready holds in-degree-zero bugs, kept sorted by input position
	var ready []string
	push := func(id string) {
		i := sort.Search(len(ready), func(i int) bool { return pos[ready[i]] > pos[id] })
		ready = append(ready, "")
		copy(ready[i+1:], ready[i:])
		ready[i] = id
	}
	for _, id := range g.order {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	var ordered []string
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		ordered = append(ordered, id)
		for _, succ := range g.Adj[id] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				push(succ)
			}
		}
	}

	excluded := make(map[string]bool)
	if len(ordered) != len(g.Bugs) {
		sorted := make(map[string]bool, len(ordered))
		for _, id := range ordered {
			sorted[id] = true
		}
		for id := range g.Bugs {
			if !sorted[id] {
				excluded[id] = true
			}
		}
	}

	return TopoResult{Ordered: ordered, Excluded: excluded}
}
