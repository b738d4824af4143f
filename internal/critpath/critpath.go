// Package critpath performs critical path analysis over the precedence
// graph, ignoring resource contention. It answers "which bugs have zero
// slack" — the chains that bound every possible schedule — and feeds the
// diagnostics report, not the optimizer itself.
package critpath

import (
	"math"
	"sort"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/graph"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/tracker"
)

// Analyze computes earliest/latest windows and the critical path. Durations
// come from bug sizes in engineer-days; unestimated bugs use the
// placeholder size. Cycle members and their dependents are excluded from
// the analysis and reported as such.
func Analyze(g *graph.Graph) *Result {
	topo := g.TopoSort()

	durations := make(map[string]float64, len(topo.Ordered))
	for _, id := range topo.Ordered {
		size := g.Bugs[id].Size
		if size <= 0 {
			size = tracker.DefaultSize
		}
		durations[id] = size
	}

	result := &Result{
		Bugs:      make(map[string]*BugWindow, len(topo.Ordered)),
		TopoOrder: topo.Ordered,
	}
	for id := range topo.Excluded {
		result.Excluded = append(result.Excluded, id)
	}
	sort.Strings(result.Excluded)

	for _, id := range topo.Ordered {
		result.Bugs[id] = &BugWindow{BugID: id}
	}

	// Forward pass: ES = max(EF of all predecessors)
	for _, id := range topo.Ordered {
		w := result.Bugs[id]
		es := 0.0
		for _, dep := range g.DependsOn(id) {
			depW, ok := result.Bugs[dep]
			if !ok {
				continue // excluded or resolved upstream
			}
			if depW.EF > es {
				es = depW.EF
			}
		}
		w.ES = es
		w.EF = es + durations[id]
	}

	for _, w := range result.Bugs {
		if w.EF > result.TotalDuration {
			result.TotalDuration = w.EF
		}
	}

	// Backward pass in reverse topological order
	for i := len(topo.Ordered) - 1; i >= 0; i-- {
		id := topo.Ordered[i]
		w := result.Bugs[id]

		hasSucc := false
		minLS := math.Inf(1)
		for _, succ := range g.Blocks(id) {
			succW, ok := result.Bugs[succ]
			if !ok {
				continue
			}
			hasSucc = true
			if succW.LS < minLS {
				minLS = succW.LS
			}
		}
		if hasSucc {
			w.LF = minLS
		} else {
			w.LF = result.TotalDuration
		}
		w.LS = w.LF - durations[id]

		w.Slack = w.LS - w.ES
		w.IsCritical = w.Slack < 1e-9
	}

	// Critical path: critical bugs in topological order
	for _, id := range topo.Ordered {
		if result.Bugs[id].IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}

	return result
}
