package graph

import (
	"reflect"
	"testing"
	"time"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/tracker"
)

func TestFindDuplicateSummaries(t *testing.T) {
	bugs := []tracker.Bug{
		{ID: "b1", Summary: "Fix login crash", Status: "open"},
		{ID: "b3", Summary: "fix  LOGIN crash", Status: "open"},
		{ID: "b2", Summary: "Unrelated", Status: "open"},
	}

	groups := Build(bugs).FindDuplicateSummaries()
	if len(groups) != 1 {
		t.Fatalf("expected 1 duplicate group, got %v", groups)
	}
	if !reflect.DeepEqual(groups[0].IDs, []string{"b1", "b3"}) {
		t.Errorf("expected ids [b1 b3], got %v", groups[0].IDs)
	}
}

func TestFindMissingAssignees(t *testing.T) {
	bugs := []tracker.Bug{
		{ID: "b2", Status: "open"},
		{ID: "b1", Status: "open", Assignee: "alice"},
		{ID: "b3", Status: "resolved"}, // resolved bugs are not flagged
		{ID: "b0", Status: "open"},
	}

	got := Build(bugs).FindMissingAssignees()
	if !reflect.DeepEqual(got, []string{"b0", "b2"}) {
		t.Errorf("expected [b0 b2], got %v", got)
	}
}

func TestFindMissingSizes(t *testing.T) {
	bugs := []tracker.Bug{
		{ID: "b1", Status: "open", Size: 2},
		{ID: "b2", Status: "open"},
		{ID: "b3", Status: "resolved"},
	}

	got := Build(bugs).FindMissingSizes()
	if !reflect.DeepEqual(got, []string{"b2"}) {
		t.Errorf("expected [b2], got %v", got)
	}
}

func TestFindUntriagedBugs(t *testing.T) {
	deadline := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	milestones := []tracker.Milestone{
		{Name: "Firefox 140", BugID: "b1", Deadline: deadline},
	}
	bugs := []tracker.Bug{
		{ID: "b1", Status: "open", Labels: []string{"firefox140"}}, // matches ignoring case/space
		{ID: "b2", Status: "open", Labels: []string{"polish"}},
		{ID: "b3", Status: "open"},
		{ID: "b4", Status: "resolved"},
	}

	got := Build(bugs).FindUntriagedBugs(milestones)
	if !reflect.DeepEqual(got, []string{"b2", "b3"}) {
		t.Errorf("expected [b2 b3], got %v", got)
	}
}
