// Package genetic searches the space of precedence-valid schedules with a
// generational genetic algorithm: tournament selection, order crossover
// with a repair pass, adjacent-swap and reassignment mutation, and elitism.
// Each run is a pure unit of computation over an immutable Problem; all
// randomness flows through the run's own rand source.
package genetic

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/fitness"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/schedule"
)

// Params are the GA knobs for one run.
type Params struct {
	PopulationSize int
	Generations    int
	// StallLimit stops a run early after this many generations without
	// improvement of the best score. 0 disables early stopping.
	StallLimit     int
	TournamentSize int
	// Rates are per-offspring probabilities. Zero means "use the default";
	// a negative value disables the operator outright.
	MutationRate float64 // adjacent-swap probability
	ReassignRate float64 // reassignment probability
	FixedBias    float64 // probability a fixed assignee is honored
}

// WithDefaults fills zero fields with the standard tuning and clamps
// negative rates to a hard zero.
func (p Params) WithDefaults() Params {
	if p.PopulationSize == 0 {
		p.PopulationSize = 60
	}
	if p.Generations == 0 {
		p.Generations = 120
	}
	if p.TournamentSize == 0 {
		p.TournamentSize = 3
	}
	p.MutationRate = defaultRate(p.MutationRate, 0.3)
	p.ReassignRate = defaultRate(p.ReassignRate, 0.3)
	p.FixedBias = defaultRate(p.FixedBias, 0.85)
	return p
}

func defaultRate(v, def float64) float64 {
	switch {
	case v < 0:
		return 0
	case v == 0:
		return def
	default:
		return v
	}
}

// Progress is one per-generation update for an external display. Purely
// observational; dropping every update changes nothing.
type Progress struct {
	RunID      int
	Generation int
	Best       fitness.Score
}

// Result is the outcome of one completed run.
type Result struct {
	RunID                 int
	Best                  *Chromosome
	Schedule              *schedule.Schedule
	Eval                  fitness.Evaluation
	BestFoundAtGeneration int
	GenerationsRun        int
	Converged             bool // stopped early via StallLimit
}

// Run is a single independent optimization run. It owns its population and
// rand source outright; nothing is shared with sibling runs.
type Run struct {
	ID       int
	problem  *Problem
	params   Params
	rng      *rand.Rand
	progress func(Progress)
}

// NewRun creates a run over the shared immutable problem. progress may be
// nil. The rand source must be exclusive to this run.
func NewRun(id int, p *Problem, params Params, rng *rand.Rand, progress func(Progress)) *Run {
	return &Run{ID: id, problem: p, params: params.WithDefaults(), rng: rng, progress: progress}
}

type candidate struct {
	chrom *Chromosome
	sched *schedule.Schedule
	eval  fitness.Evaluation
}

// Execute evolves the population and returns the best schedule found. The
// context is checked once per generation; cancellation abandons the run
// with ctx.Err(). A decode contract violation surfaces as a failed run.
func (r *Run) Execute(ctx context.Context) (*Result, error) {
	p := r.problem

	pop := make([]*Chromosome, r.params.PopulationSize)
	// Seed 0 is the deterministic input-order refinement; the rest are
	// uniform random refinements.
	pop[0] = &Chromosome{
		Order:  append([]string(nil), p.Schedulable...),
		Assign: randomAssign(p, r.rng, r.params.FixedBias),
	}
	for i := 1; i < len(pop); i++ {
		pop[i] = &Chromosome{
			Order:  randomOrder(p, r.rng),
			Assign: randomAssign(p, r.rng, r.params.FixedBias),
		}
	}

	var best candidate
	bestFoundAt := 0
	stall := 0
	gen := 0

	for ; gen < r.params.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run %d cancelled at generation %d: %w", r.ID, gen, err)
		}

		scored, err := r.evaluate(pop)
		if err != nil {
			return nil, fmt.Errorf("run %d generation %d: %w", r.ID, gen, err)
		}

		genBest := scored[0]
		for _, c := range scored[1:] {
			if fitness.Better(c.eval.Score, genBest.eval.Score) {
				genBest = c
			}
		}
		if best.chrom == nil || fitness.Better(genBest.eval.Score, best.eval.Score) {
			best = genBest
			best.chrom = genBest.chrom.Clone()
			bestFoundAt = gen
			stall = 0
		} else {
			stall++
		}

		if r.progress != nil {
			r.progress(Progress{RunID: r.ID, Generation: gen, Best: best.eval.Score})
		}

		if r.params.StallLimit > 0 && stall >= r.params.StallLimit {
			gen++
			break
		}
		if gen == r.params.Generations-1 {
			gen++
			break
		}

		pop = r.nextGeneration(scored)
	}

	return &Result{
		RunID:                 r.ID,
		Best:                  best.chrom,
		Schedule:              best.sched,
		Eval:                  best.eval,
		BestFoundAtGeneration: bestFoundAt,
		GenerationsRun:        gen,
		Converged:             gen < r.params.Generations,
	}, nil
}

// evaluate decodes and scores a whole population.
func (r *Run) evaluate(pop []*Chromosome) ([]candidate, error) {
	p := r.problem
	scored := make([]candidate, len(pop))
	for i, chrom := range pop {
		sched, err := schedule.Decode(chrom.Order, chrom.Assign, p.Graph, p.Calendars, p.Start)
		if err != nil {
			return nil, err
		}
		scored[i] = candidate{
			chrom: chrom,
			sched: sched,
			eval:  fitness.Evaluate(sched, p.Milestones, p.Resolved),
		}
	}
	return scored, nil
}

// nextGeneration builds the next population: the generation's best carries
// over unchanged, the rest come from tournament-selected parents via
// crossover and mutation.
func (r *Run) nextGeneration(scored []candidate) []*Chromosome {
	elite := scored[0]
	for _, c := range scored[1:] {
		if fitness.Better(c.eval.Score, elite.eval.Score) {
			elite = c
		}
	}

	next := make([]*Chromosome, 0, len(scored))
	next = append(next, elite.chrom.Clone())
	for len(next) < cap(next) {
		a := r.tournament(scored)
		b := r.tournament(scored)
		child := crossover(r.problem, a.chrom, b.chrom, r.rng)
		mutate(r.problem, child, r.rng, r.params)
		next = append(next, child)
	}
	return next
}

// tournament picks the best of TournamentSize uniform draws.
func (r *Run) tournament(scored []candidate) candidate {
	winner := scored[r.rng.Intn(len(scored))]
	for i := 1; i < r.params.TournamentSize; i++ {
		c := scored[r.rng.Intn(len(scored))]
		if fitness.Better(c.eval.Score, winner.eval.Score) {
			winner = c
		}
	}
	return winner
}
