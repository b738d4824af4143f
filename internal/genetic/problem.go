package genetic

import (
	"time"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/calendar"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/graph"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/tracker"
)

// Problem is the immutable input bundle shared by every run: the validated
// bug set reduced to what can actually be scheduled, plus calendars and
// milestones. Runs read it concurrently and never write to it.
type Problem struct {
	Graph      *graph.Graph
	Calendars  *calendar.Set
	Milestones []tracker.Milestone
	Start      time.Time

	// Schedulable is the topologically ordered set of open bugs the
	// optimizer permutes. Resolved bugs and cycle exclusions are not in it.
	Schedulable []string
	// Excluded holds cycle members and their dependents, dropped from
	// scheduling and reported rather than silently ordered.
	Excluded map[string]bool
	// Resolved marks bugs already done before this request.
	Resolved map[string]bool

	engineers []string            // sorted pool ids
	fixed     map[string]string   // bug id -> fixed assignee, where declared
	deps      map[string][]string // dependency edges restricted to Schedulable
	blocks    map[string][]string // reverse of deps
	depSet    map[string]map[string]bool
}

// NewProblem builds the run input from a validated request: constructs the
// precedence graph, orders it, and strips resolved and cycle-excluded bugs
// from the schedulable set while keeping them in the graph for ordering
// integrity.
func NewProblem(bugs []tracker.Bug, engineers []tracker.Engineer, milestones []tracker.Milestone, start time.Time) *Problem {
	g := graph.Build(bugs)
	topo := g.TopoSort()

	p := &Problem{
		Graph:      g,
		Calendars:  calendar.NewSet(engineers),
		Milestones: milestones,
		Start:      start,
		Excluded:   topo.Excluded,
		Resolved:   make(map[string]bool),
		fixed:      make(map[string]string),
		deps:       make(map[string][]string),
		blocks:     make(map[string][]string),
		depSet:     make(map[string]map[string]bool),
	}
	p.engineers = p.Calendars.IDs()

	for i := range bugs {
		b := &bugs[i]
		if b.Resolved() {
			p.Resolved[b.ID] = true
		}
		if b.Assignee != "" && p.Calendars.Get(b.Assignee) != nil {
			p.fixed[b.ID] = b.Assignee
		}
	}

	inSet := make(map[string]bool)
	for _, id := range topo.Ordered {
		if p.Resolved[id] {
			continue
		}
		p.Schedulable = append(p.Schedulable, id)
		inSet[id] = true
	}

	for _, id := range p.Schedulable {
		for _, dep := range g.DependsOn(id) {
			if !inSet[dep] {
				continue
			}
			p.deps[id] = append(p.deps[id], dep)
			p.blocks[dep] = append(p.blocks[dep], id)
			if p.depSet[id] == nil {
				p.depSet[id] = make(map[string]bool)
			}
			p.depSet[id][dep] = true
		}
	}

	return p
}

// dependsDirectly reports whether a directly depends on b among the
// schedulable set.
func (p *Problem) dependsDirectly(a, b string) bool {
	return p.depSet[a][b]
}
