package genetic

import "math/rand"

// Chromosome is one candidate schedule: a precedence-valid permutation of
// the schedulable bug ids plus an engineer assignment per bug. A chromosome
// belongs to exactly one run and is never shared across goroutines.
type Chromosome struct {
	Order  []string
	Assign map[string]string
}

// Clone returns a deep copy.
func (c *Chromosome) Clone() *Chromosome {
	out := &Chromosome{
		Order:  append([]string(nil), c.Order...),
		Assign: make(map[string]string, len(c.Assign)),
	}
	for k, v := range c.Assign {
		out.Assign[k] = v
	}
	return out
}

// randomOrder produces a uniform random topological refinement: Kahn's
// elimination where the next bug is drawn at random from the ready set.
func randomOrder(p *Problem, rng *rand.Rand) []string {
	inDegree := make(map[string]int, len(p.Schedulable))
	for _, id := range p.Schedulable {
		inDegree[id] = len(p.deps[id])
	}

	var ready []string
	for _, id := range p.Schedulable {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(p.Schedulable))
	for len(ready) > 0 {
		i := rng.Intn(len(ready))
		id := ready[i]
		ready[i] = ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		order = append(order, id)

		for _, succ := range p.blocks[id] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
	}
	return order
}

// randomAssign assigns every schedulable bug an engineer: the declared
// fixed assignee with probability fixedBias when one exists, a uniform
// random pool member otherwise.
func randomAssign(p *Problem, rng *rand.Rand, fixedBias float64) map[string]string {
	assign := make(map[string]string, len(p.Schedulable))
	for _, id := range p.Schedulable {
		assign[id] = pickEngineer(p, rng, id, fixedBias)
	}
	return assign
}

func pickEngineer(p *Problem, rng *rand.Rand, bugID string, fixedBias float64) string {
	if fixed, ok := p.fixed[bugID]; ok && rng.Float64() < fixedBias {
		return fixed
	}
	return p.engineers[rng.Intn(len(p.engineers))]
}

// repairOrder restores precedence validity: any bug appearing before one of
// its dependencies is deferred and reinserted immediately after its last
// unmet dependency is placed. A valid order passes through unchanged.
func repairOrder(p *Problem, order []string) []string {
	out := make([]string, 0, len(order))
	placed := make(map[string]bool, len(order))
	waiting := make(map[string]int)
	dependents := make(map[string][]string)

	var place func(id string)
	place = func(id string) {
		out = append(out, id)
		placed[id] = true
		for _, w := range dependents[id] {
			waiting[w]--
			if waiting[w] == 0 {
				place(w)
			}
		}
		delete(dependents, id)
	}

	for _, id := range order {
		if placed[id] {
			continue
		}
		unmet := 0
		for _, dep := range p.deps[id] {
			if !placed[dep] {
				unmet++
				dependents[dep] = append(dependents[dep], id)
			}
		}
		if unmet == 0 {
			place(id)
		} else {
			waiting[id] = unmet
		}
	}

	return out
}

// crossover recombines two parents: the child takes a prefix of a's order,
// fills the remainder in b's relative order, then runs the repair pass.
// Assignments mix uniformly.
func crossover(p *Problem, a, b *Chromosome, rng *rand.Rand) *Chromosome {
	n := len(a.Order)
	if n < 2 {
		return a.Clone()
	}
	cut := 1 + rng.Intn(n-1)

	inPrefix := make(map[string]bool, cut)
	order := make([]string, 0, n)
	order = append(order, a.Order[:cut]...)
	for _, id := range order {
		inPrefix[id] = true
	}
	for _, id := range b.Order {
		if !inPrefix[id] {
			order = append(order, id)
		}
	}

	child := &Chromosome{
		Order:  repairOrder(p, order),
		Assign: make(map[string]string, n),
	}
	for _, id := range child.Order {
		if rng.Intn(2) == 0 {
			child.Assign[id] = a.Assign[id]
		} else {
			child.Assign[id] = b.Assign[id]
		}
	}
	return child
}

// mutate applies the two operators in place at their configured rates: an
// adjacent swap of two order-neighbors with no direct dependency between
// them, and a reassignment of one bug to another feasible engineer.
func mutate(p *Problem, c *Chromosome, rng *rand.Rand, params Params) {
	n := len(c.Order)
	if n >= 2 && rng.Float64() < params.MutationRate {
		i := rng.Intn(n - 1)
		// Swapping neighbors is safe unless the later one depends on the
		// earlier one; a transitive dependency would force an intermediate
		// bug between them, so the direct check is sufficient.
		if !p.dependsDirectly(c.Order[i+1], c.Order[i]) {
			c.Order[i], c.Order[i+1] = c.Order[i+1], c.Order[i]
		}
	}
	if n >= 1 && rng.Float64() < params.ReassignRate {
		id := c.Order[rng.Intn(n)]
		c.Assign[id] = pickEngineer(p, rng, id, params.FixedBias)
	}
}
