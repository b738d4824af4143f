package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/critpath"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/graph"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/tracker"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/ui"
)

// Diagnostics is the consistency report over a bug set: everything the
// dashboard flags before a schedule is even attempted.
type Diagnostics struct {
	Cycles             []string               `json:"cycles,omitempty"`
	Orphans            []graph.Orphan         `json:"orphans,omitempty"`
	DuplicateSummaries []graph.DuplicateGroup `json:"duplicateSummaries,omitempty"`
	MissingAssignees   []string               `json:"missingAssignees,omitempty"`
	MissingSizes       []string               `json:"missingSizes,omitempty"`
	Untriaged          []string               `json:"untriaged,omitempty"`
	CriticalPath       []string               `json:"criticalPath,omitempty"`
	CriticalDays       float64                `json:"criticalDays"`
}

// Diagnose runs every diagnostic scan plus critical path analysis.
func Diagnose(g *graph.Graph, milestones []tracker.Milestone) *Diagnostics {
	cp := critpath.Analyze(g)
	return &Diagnostics{
		Cycles:             g.Cyclic(),
		Orphans:            g.Orphans,
		DuplicateSummaries: g.FindDuplicateSummaries(),
		MissingAssignees:   g.FindMissingAssignees(),
		MissingSizes:       g.FindMissingSizes(),
		Untriaged:          g.FindUntriagedBugs(milestones),
		CriticalPath:       cp.CriticalPath,
		CriticalDays:       cp.TotalDuration,
	}
}

// Print writes the human-readable diagnostics report.
func (d *Diagnostics) Print(w io.Writer) {
	section := func(label string, ids []string) {
		if len(ids) == 0 {
			return
		}
		fmt.Fprintf(w, "%s %s\n", ui.Yellow("⚠"), ui.Bold(label))
		for _, id := range ids {
			fmt.Fprintf(w, "    %s\n", id)
		}
	}

	if len(d.Cycles) > 0 {
		fmt.Fprintf(w, "%s %s\n", ui.Red("✗"), ui.Bold("dependency cycle — these bugs will not be scheduled"))
		for _, id := range d.Cycles {
			fmt.Fprintf(w, "    %s\n", id)
		}
	}
	if len(d.Orphans) > 0 {
		fmt.Fprintf(w, "%s %s\n", ui.Yellow("⚠"), ui.Bold("orphaned dependencies"))
		for _, o := range d.Orphans {
			fmt.Fprintf(w, "    %s → %s %s\n", o.BugID, o.MissingID, ui.Dim("(missing)"))
		}
	}
	if len(d.DuplicateSummaries) > 0 {
		fmt.Fprintf(w, "%s %s\n", ui.Yellow("⚠"), ui.Bold("duplicate summaries"))
		for _, grp := range d.DuplicateSummaries {
			fmt.Fprintf(w, "    %q: %v\n", grp.Summary, grp.IDs)
		}
	}
	section("missing assignees", d.MissingAssignees)
	section("missing size estimates", d.MissingSizes)
	section("untriaged bugs (no milestone label)", d.Untriaged)

	if len(d.CriticalPath) > 0 {
		fmt.Fprintf(w, "%s %s %s\n", ui.BoldCyan("⚡"), ui.Bold("critical path"),
			ui.Dim(fmt.Sprintf("(%.1f engineer-days)", d.CriticalDays)))
		for _, id := range d.CriticalPath {
			fmt.Fprintf(w, "    %s\n", id)
		}
	}
}

// JSON returns the diagnostics as machine-readable JSON.
func (d *Diagnostics) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
