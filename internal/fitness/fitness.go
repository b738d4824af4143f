// Package fitness scores decoded schedules against milestones and defines
// the lexicographic order used to compare candidates.
package fitness

import (
	"time"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/schedule"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/tracker"
)

// Score is the three-objective result for one schedule. Immutable value;
// compare with Better.
type Score struct {
	DeadlinesMet  int
	TotalLateness time.Duration
	Makespan      time.Duration
}

// Better reports whether a beats b: more deadlines met wins; on a tie,
// lower total lateness wins; on a further tie, lower makespan wins. This is
// a strict weak ordering, safe for tournament and elitism comparisons.
func Better(a, b Score) bool {
	if a.DeadlinesMet != b.DeadlinesMet {
		return a.DeadlinesMet > b.DeadlinesMet
	}
	if a.TotalLateness != b.TotalLateness {
		return a.TotalLateness < b.TotalLateness
	}
	return a.Makespan < b.Makespan
}

// MilestoneResult is the per-milestone detail behind a Score.
type MilestoneResult struct {
	Name     string
	BugID    string
	Finish   time.Time
	Met      bool
	Lateness time.Duration
	// AtRisk is set when the anchor finishes after the freeze date,
	// independent of whether the deadline itself is met.
	AtRisk bool
	// Unscheduled is set when the anchor never made it into the schedule
	// (cycle exclusion). Resolved anchors count as met instead.
	Unscheduled bool
}

// Evaluation is a Score plus its per-milestone breakdown.
type Evaluation struct {
	Score      Score
	Milestones []MilestoneResult
}

// Evaluate scores a schedule. Makespan is measured over all scheduled
// bugs, not just milestone anchors: the dashboard's chart ends at the
// last-completing bar, wherever it hangs.
func Evaluate(s *schedule.Schedule, milestones []tracker.Milestone, resolved map[string]bool) Evaluation {
	ev := Evaluation{}
	ev.Score.Makespan = s.MaxFinish().Sub(s.Start)

	for _, m := range milestones {
		res := MilestoneResult{Name: m.Name, BugID: m.BugID}

		if resolved[m.BugID] {
			// Anchor already done before this request: on time by definition.
			res.Met = true
			res.Finish = s.Start
			ev.Score.DeadlinesMet++
			ev.Milestones = append(ev.Milestones, res)
			continue
		}

		entry, ok := s.Entries[m.BugID]
		if !ok {
			res.Unscheduled = true
			ev.Milestones = append(ev.Milestones, res)
			continue
		}

		res.Finish = entry.End
		if !entry.End.After(m.Deadline) {
			res.Met = true
			ev.Score.DeadlinesMet++
		} else {
			res.Lateness = entry.End.Sub(m.Deadline)
			ev.Score.TotalLateness += res.Lateness
		}
		if !m.Freeze.IsZero() && entry.End.After(m.Freeze) {
			res.AtRisk = true
		}
		ev.Milestones = append(ev.Milestones, res)
	}

	return ev
}
