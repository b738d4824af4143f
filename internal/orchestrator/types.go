package orchestrator

import (
	"time"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/genetic"
)

// Options configures one Solve call.
type Options struct {
	Runs        int   // number of independent GA runs (default 4)
	MaxParallel int   // concurrent runs (default min(Runs, 4))
	Seed        int64 // base seed; run i uses Seed+i. 0 = time-derived.

	// Start anchors the schedule; zero means time.Now().
	Start time.Time

	Params genetic.Params

	// Progress, when set, receives at most one update per generation per
	// run. It may be called from multiple goroutines concurrently.
	Progress func(genetic.Progress)
}

// RunResult is the terminal state of one run: either a completed result or
// an error. A failed run never aborts its siblings.
type RunResult struct {
	RunID  int
	Result *genetic.Result
	Err    error
}

// Outcome is the aggregate of all runs for one request.
type Outcome struct {
	Best    *genetic.Result // overall best across completed runs
	Runs    []RunResult     // every run, ordered by run id
	Problem *genetic.Problem
	Seed    int64
}
