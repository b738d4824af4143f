package graph

import (
	"sort"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/tracker"
)

// Diagnostics are pure read-only scans over the bug set. They carry no
// scheduling semantics, but the dashboard relies on their output being
// sorted by id so consecutive runs diff cleanly.

// DuplicateGroup is a set of bugs sharing the same summary.
type DuplicateGroup struct {
	Summary string
	IDs     []string
}

// FindDuplicateSummaries returns groups of bugs whose summaries collide
// after case and whitespace normalization.
func (g *Graph) FindDuplicateSummaries() []DuplicateGroup {
	bySummary := make(map[string][]string)
	display := make(map[string]string)
	for _, id := range g.order {
		n := g.Bugs[id]
		norm := tracker.NormalizeName(n.Summary)
		if norm == "" {
			continue
		}
		bySummary[norm] = append(bySummary[norm], id)
		if _, ok := display[norm]; !ok {
			display[norm] = n.Summary
		}
	}

	var groups []DuplicateGroup
	for norm, ids := range bySummary {
		if len(ids) < 2 {
			continue
		}
		sort.Strings(ids)
		groups = append(groups, DuplicateGroup{Summary: display[norm], IDs: ids})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].IDs[0] < groups[j].IDs[0] })
	return groups
}

// FindMissingAssignees returns open bugs with no assignee, sorted by id.
func (g *Graph) FindMissingAssignees() []string {
	var ids []string
	for id, n := range g.Bugs {
		if n.Status != "resolved" && n.Assignee == "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// FindMissingSizes returns open bugs with no effort estimate, sorted by id.
// These are scheduled at the placeholder size and should be flagged.
func (g *Graph) FindMissingSizes() []string {
	var ids []string
	for id, n := range g.Bugs {
		if n.Status != "resolved" && n.Size <= 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// FindUntriagedBugs returns open bugs carrying no label that matches any
// known milestone name, sorted by id. A bug outside every milestone's
// subtree labeling has not been triaged into a release.
func (g *Graph) FindUntriagedBugs(milestones []tracker.Milestone) []string {
	var ids []string
	for id, n := range g.Bugs {
		if n.Status == "resolved" {
			continue
		}
		triaged := false
		for _, label := range n.Labels {
			for _, m := range milestones {
				if tracker.NameMatches(m.Name, label) {
					triaged = true
					break
				}
			}
			if triaged {
				break
			}
		}
		if !triaged {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
