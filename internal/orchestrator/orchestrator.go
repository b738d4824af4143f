// Package orchestrator fans an optimization request out over independent
// genetic runs. Runs share nothing mutable: each gets its own rand source
// and population, communicating only through the result channel, so no
// locking is ever needed around the search itself.
package orchestrator

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/fitness"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/genetic"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/tracker"
)

// Solve validates the request, builds the shared problem, executes the
// configured number of independent runs, and returns the overall best
// result. Validation failures reject the whole request before any
// generation executes; a run-level failure is recorded in the outcome
// without disturbing sibling runs.
func Solve(ctx context.Context, req *tracker.Request, opts Options) (*Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if opts.Runs <= 0 {
		opts.Runs = 4
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = 4
	}
	if opts.MaxParallel > opts.Runs {
		opts.MaxParallel = opts.Runs
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now()
	}
	params := opts.Params
	if req.PopulationSize > 0 {
		params.PopulationSize = req.PopulationSize
	}
	if req.Generations > 0 {
		params.Generations = req.Generations
	}

	engineers := tracker.SynthesizeExternals(req.Bugs, req.Engineers)
	if len(engineers) == 0 {
		return nil, &tracker.ValidationError{Field: "engineers", Reason: "empty engineer pool and no assignees to synthesize from"}
	}
	problem := genetic.NewProblem(req.Bugs, engineers, req.Milestones, opts.Start)

	done := make(chan RunResult, opts.Runs)
	sem := make(chan struct{}, opts.MaxParallel)

	for i := 0; i < opts.Runs; i++ {
		run := genetic.NewRun(i, problem, params, rand.New(rand.NewSource(opts.Seed+int64(i))), opts.Progress)
		go func() {
			sem <- struct{}{}
			defer func() { <-sem }()
			res, err := run.Execute(ctx)
			done <- RunResult{RunID: run.ID, Result: res, Err: err}
		}()
	}

	outcome := &Outcome{Problem: problem, Seed: opts.Seed}
	for i := 0; i < opts.Runs; i++ {
		rr := <-done
		outcome.Runs = append(outcome.Runs, rr)
		if rr.Err != nil {
			continue
		}
		if outcome.Best == nil || fitness.Better(rr.Result.Eval.Score, outcome.Best.Eval.Score) {
			outcome.Best = rr.Result
		}
	}
	sort.Slice(outcome.Runs, func(i, j int) bool { return outcome.Runs[i].RunID < outcome.Runs[j].RunID })

	if outcome.Best == nil {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("solve cancelled: %w", err)
		}
		return nil, fmt.Errorf("all %d runs failed: %w", opts.Runs, outcome.Runs[0].Err)
	}
	return outcome, nil
}

// Response shapes the outcome into the completion message, echoing the
// request id verbatim.
func (o *Outcome) Response(req *tracker.Request) tracker.Response {
	best := o.Best
	return tracker.Response{
		Type:                  "complete",
		DeadlinesMet:          best.Eval.Score.DeadlinesMet,
		TotalLatenessMs:       best.Eval.Score.TotalLateness.Milliseconds(),
		MakespanMs:            best.Eval.Score.Makespan.Milliseconds(),
		BestFoundAtGeneration: best.BestFoundAtGeneration,
		ID:                    req.ID,
	}
}
