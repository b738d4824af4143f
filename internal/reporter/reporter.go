// Package reporter renders solve outcomes and graph diagnostics for the
// terminal, in both human-readable and machine-readable form.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/orchestrator"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/tracker"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/ui"
)

// Reporter renders one solve outcome.
type Reporter struct {
	Request *tracker.Request
	Outcome *orchestrator.Outcome
}

// New creates a Reporter.
func New(req *tracker.Request, out *orchestrator.Outcome) *Reporter {
	return &Reporter{Request: req, Outcome: out}
}

// PrintSummary writes a terminal-friendly result report.
func (r *Reporter) PrintSummary(w io.Writer) {
	best := r.Outcome.Best
	score := best.Eval.Score

	fmt.Fprintf(w, "%s %d/%d deadlines met — lateness %s — makespan %s\n",
		ui.BoldCyan("Best schedule:"),
		score.DeadlinesMet, len(r.Request.Milestones),
		fmtDuration(score.TotalLateness),
		fmtDuration(score.Makespan))
	fmt.Fprintf(w, "  %s\n", ui.Dim(fmt.Sprintf("found at generation %d of %d (run %d, seed %d)",
		best.BestFoundAtGeneration, best.GenerationsRun, best.RunID, r.Outcome.Seed)))

	for _, m := range best.Eval.Milestones {
		icon := ui.MilestoneIcon(m.Met, m.AtRisk)
		switch {
		case m.Unscheduled:
			fmt.Fprintf(w, "  %s %s %s\n", icon, m.Name, ui.Red("(anchor excluded from scheduling)"))
		case m.Met && m.AtRisk:
			fmt.Fprintf(w, "  %s %s %s\n", icon, m.Name, ui.Yellow("(past freeze date)"))
		case m.Met:
			fmt.Fprintf(w, "  %s %s %s\n", icon, m.Name, ui.Dim(fmt.Sprintf("finishes %s", m.Finish.Format("2006-01-02"))))
		default:
			fmt.Fprintf(w, "  %s %s %s\n", icon, m.Name, ui.Red(fmt.Sprintf("late by %s", fmtDuration(m.Lateness))))
		}
	}

	failed := 0
	for _, rr := range r.Outcome.Runs {
		if rr.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(w, "  %s %d of %d runs failed\n", ui.Yellow("⚠"), failed, len(r.Outcome.Runs))
	}

	if excl := len(r.Outcome.Problem.Excluded); excl > 0 {
		fmt.Fprintf(w, "  %s %d bugs excluded (dependency cycle)\n", ui.Yellow("⚠"), excl)
	}
	if orphans := r.Outcome.Problem.Graph.Orphans; len(orphans) > 0 {
		fmt.Fprintf(w, "  %s %d orphaned dependencies\n", ui.Yellow("⚠"), len(orphans))
	}
}

// PrintAssignments writes the per-bug placements of the best schedule in
// start order.
func (r *Reporter) PrintAssignments(w io.Writer) {
	sched := r.Outcome.Best.Schedule
	for _, id := range sched.Order {
		e := sched.Entries[id]
		node := r.Outcome.Problem.Graph.Bugs[id]
		summary := node.Summary
		if len(summary) > 40 {
			summary = summary[:37] + "..."
		}
		fmt.Fprintf(w, "  %s %s %s  %s → %s\n",
			ui.Bold(id), summary, ui.Cyan(e.EngineerID),
			e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
	}
}

// JSON returns the boundary response message as JSON.
func (r *Reporter) JSON() ([]byte, error) {
	resp := r.Outcome.Response(r.Request)
	return json.MarshalIndent(resp, "", "  ")
}

// fmtDuration renders a duration in days and hours, the units the
// dashboard talks in.
func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "0d"
	}
	days := d / (24 * time.Hour)
	rem := d % (24 * time.Hour)
	if rem == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%s", days, rem.Truncate(time.Minute))
}
