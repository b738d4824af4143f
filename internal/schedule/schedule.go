// Package schedule deterministically decodes a candidate ordering and
// assignment into concrete start/end times per bug. Decoding has no
// randomness and no side effects: the same inputs always produce the
// identical schedule.
package schedule

import (
	"fmt"
	"time"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/calendar"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/graph"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/tracker"
)

// Entry is one bug's placement: who works on it and when.
type Entry struct {
	EngineerID string
	Start      time.Time
	End        time.Time
}

// Schedule maps bug id to its placement. It is derived state, rebuilt on
// every evaluation, never mutated in place.
type Schedule struct {
	Start   time.Time
	Order   []string
	Entries map[string]Entry
}

// Finish returns the finish time of a bug, or the zero time if the bug is
// not scheduled.
func (s *Schedule) Finish(id string) time.Time {
	return s.Entries[id].End
}

// MaxFinish returns the latest finish time across all scheduled bugs, or
// the schedule start when nothing is scheduled.
func (s *Schedule) MaxFinish() time.Time {
	max := s.Start
	for _, e := range s.Entries {
		if e.End.After(max) {
			max = e.End
		}
	}
	return max
}

// ContractError is an internal invariant violation inside the optimizer:
// the ordering handed to Decode was not precedence-valid, or decoding
// produced an impossible placement. It is never a user-facing condition.
type ContractError struct {
	BugID  string
	Detail string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("schedule contract violation at bug %s: %s", e.BugID, e.Detail)
}

// Decode walks the ordering and places each bug at the earliest start that
// satisfies, simultaneously:
//   - the assigned engineer's calendar availability,
//   - the latest finish among the bug's scheduled dependencies,
//   - the engineer's free cursor after their previously placed bug.
//
// Dependencies absent from the ordering (resolved bugs, cycle exclusions)
// impose no constraint. A dependency that is in the ordering but not yet
// placed is a contract violation.
func Decode(order []string, assign map[string]string, g *graph.Graph, cals *calendar.Set, start time.Time) (*Schedule, error) {
	s := &Schedule{
		Start:   start,
		Order:   append([]string(nil), order...),
		Entries: make(map[string]Entry, len(order)),
	}

	inOrder := make(map[string]bool, len(order))
	for _, id := range order {
		inOrder[id] = true
	}

	free := make(map[string]time.Time)

	for _, id := range order {
		node := g.Bugs[id]
		if node == nil {
			return nil, &ContractError{BugID: id, Detail: "unknown bug in ordering"}
		}
		engID := assign[id]
		cal := cals.Get(engID)
		if cal == nil {
			return nil, &ContractError{BugID: id, Detail: fmt.Sprintf("assigned to unknown engineer %q", engID)}
		}

		earliest := start
		for _, dep := range g.DependsOn(id) {
			entry, placed := s.Entries[dep]
			if !placed {
				if inOrder[dep] {
					return nil, &ContractError{BugID: id, Detail: fmt.Sprintf("dependency %s ordered after its dependent", dep)}
				}
				continue
			}
			if entry.End.After(earliest) {
				earliest = entry.End
			}
		}
		if cursor, ok := free[engID]; ok && cursor.After(earliest) {
			earliest = cursor
		}

		size := node.Size
		if size <= 0 {
			size = tracker.DefaultSize
		}
		begin := cal.EarliestAvailable(earliest, size)
		end := begin.Add(cal.SpanFor(size))
		if end.Before(begin) {
			return nil, &ContractError{BugID: id, Detail: "negative duration"}
		}

		s.Entries[id] = Entry{EngineerID: engID, Start: begin, End: end}
		free[engID] = end
	}

	return s, nil
}
