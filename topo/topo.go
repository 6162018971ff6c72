// Package topo implements the topological sort of spec.md §4.1, used by
// bisim to forbid τ-loops before running the delayed/weak variants.
//
// Grounded on original_source/plugins/priorities/src/pev_bisimct.h's
// TopoSort class (per-node temporary/permanent flags, depth-first visit,
// result built by prepending) and on the tracing idiom of
// github.com/npillmayer/gorgo/lr.
package topo

import (
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace { return tracing.Select("faudes.topo") }

// CycleError is returned by Sort when the induced subgraph contains a
// cycle over the given event subset.
type CycleError struct {
	At automaton.Idx
}

func (e *CycleError) Error() string {
	return "topo: cycle detected while visiting state"
}

type mark int

const (
	unvisited mark = iota
	temporary
	permanent
)

// Sort performs a depth-first topological sort of a's states, considering
// only edges labelled by an event in `events` (a node x1 has an edge to
// x2 iff some transition (x1, e, x2) with e in events exists). The result
// order guarantees: if x appears before y, no events-path exists from y
// to x. Returns a *CycleError if the induced subgraph is cyclic.
func Sort(a *automaton.Automaton, events map[symtab.Idx]bool) ([]automaton.Idx, error) {
	marks := make(map[automaton.Idx]mark)
	var result []automaton.Idx

	states := a.States()
	var visit func(automaton.Idx) error
	visit = func(x automaton.Idx) error {
		switch marks[x] {
		case permanent:
			return nil
		case temporary:
			tracer().Errorf("cycle detected at state %d", x)
			return &CycleError{At: x}
		}
		marks[x] = temporary
		for _, ev := range a.ActiveEvents(x) {
			if !events[ev] {
				continue
			}
			for _, y := range a.Successors(x, ev) {
				if err := visit(y); err != nil {
					return err
				}
			}
		}
		marks[x] = permanent
		result = append([]automaton.Idx{x}, result...) // push at front
		return nil
	}

	for _, x := range states {
		if marks[x] == unvisited {
			if err := visit(x); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}
