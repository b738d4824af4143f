package genetic

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/fitness"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/tracker"
)

var t0 = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return t0.AddDate(0, 0, n) }

// assertValidChromosome checks that the order is a permutation of the
// schedulable set with every dependency before its dependent.
func assertValidChromosome(t *testing.T, p *Problem, c *Chromosome) {
	t.Helper()

	require.Len(t, c.Order, len(p.Schedulable))
	pos := make(map[string]int, len(c.Order))
	for i, id := range c.Order {
		if _, dup := pos[id]; dup {
			t.Fatalf("duplicate %s in order %v", id, c.Order)
		}
		pos[id] = i
	}
	for _, id := range c.Order {
		for _, dep := range p.deps[id] {
			if pos[dep] > pos[id] {
				t.Fatalf("dependency %s after dependent %s in %v", dep, id, c.Order)
			}
		}
	}
}

func wideProblem() *Problem {
	// two chains plus a diamond, enough structure to break naive operators
	bugs := []tracker.Bug{
		{ID: "a", Status: "open", Size: 1},
		{ID: "b", Status: "open", Size: 2, DependsOn: []string{"a"}},
		{ID: "c", Status: "open", Size: 1, DependsOn: []string{"a"}},
		{ID: "d", Status: "open", Size: 1, DependsOn: []string{"b", "c"}},
		{ID: "e", Status: "open", Size: 3},
		{ID: "f", Status: "open", Size: 1, DependsOn: []string{"e"}},
	}
	engineers := []tracker.Engineer{
		{ID: "alice", Capacity: 1},
		{ID: "bob", Capacity: 0.5},
	}
	return NewProblem(bugs, engineers, nil, t0)
}

func TestNewProblem_FiltersResolvedAndCyclic(t *testing.T) {
	bugs := []tracker.Bug{
		{ID: "done", Status: "resolved"},
		{ID: "open1", Status: "open", DependsOn: []string{"done"}},
		{ID: "x", Status: "open", DependsOn: []string{"y"}},
		{ID: "y", Status: "open", DependsOn: []string{"x"}},
	}
	p := NewProblem(bugs, []tracker.Engineer{{ID: "alice", Capacity: 1}}, nil, t0)

	assert.Equal(t, []string{"open1"}, p.Schedulable)
	assert.True(t, p.Resolved["done"])
	assert.True(t, p.Excluded["x"])
	assert.True(t, p.Excluded["y"])
}

func TestRandomOrder_AlwaysPrecedenceValid(t *testing.T) {
	p := wideProblem()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		assertValidChromosome(t, p, &Chromosome{Order: randomOrder(p, rng)})
	}
}

func TestRepairOrder_ReinsertsAfterLastUnmetDependency(t *testing.T) {
	p := wideProblem()

	// d dragged to the front; its dependencies b and c are unmet there
	repaired := repairOrder(p, []string{"d", "e", "a", "b", "c", "f"})
	assertValidChromosome(t, p, &Chromosome{Order: repaired})

	pos := make(map[string]int)
	for i, id := range repaired {
		pos[id] = i
	}
	// d lands immediately after c, its last placed dependency
	assert.Equal(t, pos["c"]+1, pos["d"])
}

func TestRepairOrder_ValidOrderUnchanged(t *testing.T) {
	p := wideProblem()
	valid := []string{"a", "b", "c", "d", "e", "f"}
	assert.Equal(t, valid, repairOrder(p, valid))
}

func TestCrossover_OffspringAlwaysValid(t *testing.T) {
	p := wideProblem()
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 200; i++ {
		a := &Chromosome{Order: randomOrder(p, rng), Assign: randomAssign(p, rng, 0.85)}
		b := &Chromosome{Order: randomOrder(p, rng), Assign: randomAssign(p, rng, 0.85)}
		child := crossover(p, a, b, rng)
		assertValidChromosome(t, p, child)
		for _, id := range child.Order {
			assert.Contains(t, []string{a.Assign[id], b.Assign[id]}, child.Assign[id])
		}
	}
}

func TestMutate_PreservesValidity(t *testing.T) {
	p := wideProblem()
	rng := rand.New(rand.NewSource(3))
	params := Params{MutationRate: 1, ReassignRate: 1, FixedBias: 0.85}.WithDefaults()

	c := &Chromosome{Order: randomOrder(p, rng), Assign: randomAssign(p, rng, 0.85)}
	for i := 0; i < 200; i++ {
		mutate(p, c, rng, params)
		assertValidChromosome(t, p, c)
	}
}

func TestWithDefaults_NegativeRateDisablesOperator(t *testing.T) {
	p := Params{MutationRate: -1, ReassignRate: -1, FixedBias: 0.5}.WithDefaults()

	assert.Equal(t, 0.0, p.MutationRate)
	assert.Equal(t, 0.0, p.ReassignRate)
	assert.Equal(t, 0.5, p.FixedBias)

	// zero still means the standard tuning
	def := Params{}.WithDefaults()
	assert.Equal(t, 0.3, def.MutationRate)
	assert.Equal(t, 0.3, def.ReassignRate)
	assert.Equal(t, 0.85, def.FixedBias)
}

func TestExecute_ChainScenario(t *testing.T) {
	// a depends on b depends on c, one full-time engineer: the only
	// schedule is c,b,a back to back with a 3-day makespan.
	bugs := []tracker.Bug{
		{ID: "c", Status: "open", Size: 1},
		{ID: "b", Status: "open", Size: 1, DependsOn: []string{"c"}},
		{ID: "a", Status: "open", Size: 1, DependsOn: []string{"b"}},
	}
	engineers := []tracker.Engineer{{ID: "alice", Capacity: 1}}
	p := NewProblem(bugs, engineers, nil, t0)

	run := NewRun(0, p, Params{PopulationSize: 10, Generations: 10}, rand.New(rand.NewSource(42)), nil)
	res, err := run.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3*24*time.Hour, res.Eval.Score.Makespan)
	assert.Equal(t, []string{"c", "b", "a"}, res.Best.Order)
	for _, id := range res.Best.Order {
		assert.Equal(t, "alice", res.Best.Assign[id])
	}
}

func TestExecute_MissedDeadlineIsNotAnError(t *testing.T) {
	// 10 days of work on a half-time engineer takes 20 wall-clock days;
	// a day-5 deadline is unreachable.
	bugs := []tracker.Bug{
		{ID: "big", Status: "open", Size: 10},
		{ID: "small", Status: "open", Size: 1},
	}
	engineers := []tracker.Engineer{{ID: "half", Capacity: 0.5}}
	milestones := []tracker.Milestone{{Name: "M1", BugID: "big", Deadline: day(5)}}
	p := NewProblem(bugs, engineers, milestones, t0)

	run := NewRun(0, p, Params{PopulationSize: 10, Generations: 20}, rand.New(rand.NewSource(7)), nil)
	res, err := run.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Eval.Score.DeadlinesMet)
	assert.Greater(t, res.Eval.Score.TotalLateness, time.Duration(0))
}

func TestExecute_ElitismMonotonic(t *testing.T) {
	p := wideProblem()
	var history []fitness.Score
	progress := func(u Progress) { history = append(history, u.Best) }

	run := NewRun(0, p, Params{PopulationSize: 20, Generations: 40}, rand.New(rand.NewSource(11)), progress)
	_, err := run.Execute(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, history)

	for i := 1; i < len(history); i++ {
		if fitness.Better(history[i-1], history[i]) {
			t.Fatalf("best score regressed at generation %d: %+v -> %+v", i, history[i-1], history[i])
		}
	}
}

func TestExecute_ConvergesEarly(t *testing.T) {
	// one bug: every chromosome scores the same, so the stall counter
	// fires as soon as it can
	bugs := []tracker.Bug{{ID: "only", Status: "open", Size: 1}}
	p := NewProblem(bugs, []tracker.Engineer{{ID: "alice", Capacity: 1}}, nil, t0)

	run := NewRun(0, p, Params{PopulationSize: 5, Generations: 100, StallLimit: 3}, rand.New(rand.NewSource(5)), nil)
	res, err := run.Execute(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Less(t, res.GenerationsRun, 100)
	assert.Equal(t, 0, res.BestFoundAtGeneration)
}

func TestExecute_SameSeedSameResult(t *testing.T) {
	p := wideProblem()
	params := Params{PopulationSize: 15, Generations: 15}

	run1 := NewRun(0, p, params, rand.New(rand.NewSource(99)), nil)
	res1, err := run1.Execute(context.Background())
	require.NoError(t, err)

	run2 := NewRun(0, p, params, rand.New(rand.NewSource(99)), nil)
	res2, err := run2.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, res1.Eval.Score, res2.Eval.Score)
	assert.Equal(t, res1.Best.Order, res2.Best.Order)
	assert.Equal(t, res1.BestFoundAtGeneration, res2.BestFoundAtGeneration)
}

func TestExecute_Cancelled(t *testing.T) {
	p := wideProblem()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run := NewRun(0, p, Params{PopulationSize: 10, Generations: 10}, rand.New(rand.NewSource(1)), nil)
	_, err := run.Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecute_FixedAssigneeBias(t *testing.T) {
	bugs := []tracker.Bug{{ID: "pinned", Status: "open", Size: 1, Assignee: "bob"}}
	engineers := []tracker.Engineer{
		{ID: "alice", Capacity: 1},
		{ID: "bob", Capacity: 1},
	}
	p := NewProblem(bugs, engineers, nil, t0)

	rng := rand.New(rand.NewSource(13))
	kept := 0
	const draws = 1000
	for i := 0; i < draws; i++ {
		if randomAssign(p, rng, 0.85)["pinned"] == "bob" {
			kept++
		}
	}
	// 0.85 bias plus half the remaining uniform draws; well above 0.8
	assert.Greater(t, kept, int(0.8*draws))
}
