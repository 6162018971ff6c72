package bisim

// computeAffected rebuilds e.affected from e.changed, per the
// variant-specific propagation rules of §4.3 step 2a (strong) and §4.4
// ("Affected-set propagation", delayed/weak).
func (e *engine) computeAffected() {
	affected := make([]bool, e.n+1)
	for s := 1; s <= e.n; s++ {
		if !e.changed[s] {
			continue
		}
		switch e.variant {
		case Strong:
			for _, p := range e.pre[s] {
				affected[p] = true
			}
		case Delayed:
			for _, p := range e.pre[s] {
				affected[p] = true
				for _, q := range e.tauStarPredClosure(p) {
					affected[q] = true
				}
			}
		case Weak:
			closure := e.tauStarPredClosure(s)
			for _, n := range closure {
				affected[n] = true
				for _, p := range e.pre[n] {
					affected[p] = true
					for _, q := range e.tauStarPredClosure(p) {
						affected[q] = true
					}
				}
			}
		}
	}
	e.affected = affected
}

// tauStarPredClosure returns s together with every state reachable from s
// by following tau-predecessor edges zero or more times. The automaton is
// required to be tau-loop-free (checked by checkTauLoopFree before the
// engine runs), so this terminates without needing special cycle
// handling; a visited set is kept anyway to avoid revisiting shared
// ancestors in a DAG.
func (e *engine) tauStarPredClosure(s int) []int {
	if !e.hasTau {
		return []int{s}
	}
	visited := map[int]bool{s: true}
	stack := []int{s}
	var out []int
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, top)
		for _, p := range e.taupre[top] {
			if !visited[p] {
				visited[p] = true
				stack = append(stack, p)
			}
		}
	}
	return out
}
