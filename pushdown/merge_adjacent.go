package pushdown

import (
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

// pdEdge is a single (from, event, to, pop, push) instance, one per
// alternative of a PDTransition.
type pdEdge struct {
	From, To automaton.Idx
	Event    symtab.Idx
	Pop      []symtab.Idx
	Push     []symtab.Idx
}

func flattenEdges(pd *automaton.Pushdown) []pdEdge {
	var out []pdEdge
	for _, t := range pd.AllPDTransitions() {
		for _, alt := range t.PopPush {
			out = append(out, pdEdge{From: t.From, To: t.To, Event: t.Event, Pop: alt.Pop, Push: alt.Push})
		}
	}
	return out
}

// MergeAdjacentTransitions repeatedly collapses a pass-through state qm
// into its single incoming transition, per §4.16: qm must not be marked
// or initial, have exactly one incoming transition and at least one
// outgoing, no outgoing self-loop, and (if its incoming event is not
// lambda) every outgoing event must be lambda. Each outgoing transition
// must stack-chain with the incoming one (one side's push a prefix of
// the other's pop) to be combined into a direct (q1, q2) transition.
// Repeated from the initial state until no candidate remains.
func MergeAdjacentTransitions(pd *automaton.Pushdown) *automaton.Pushdown {
	cur := pd
	for {
		qm, in, out, ok := findMergeCandidate(cur)
		if !ok {
			return cur
		}
		cur = mergeOnce(cur, qm, in, out)
	}
}

func findMergeCandidate(pd *automaton.Pushdown) (qm automaton.Idx, in pdEdge, out []pdEdge, ok bool) {
	edges := flattenEdges(pd)
	for _, s := range pd.States() {
		st := pd.State(s)
		if st.Marked || st.Initial {
			continue
		}
		var incoming []pdEdge
		var outgoing []pdEdge
		for _, e := range edges {
			if e.To == s {
				incoming = append(incoming, e)
			}
			if e.From == s {
				outgoing = append(outgoing, e)
			}
		}
		if len(incoming) != 1 || len(outgoing) == 0 {
			continue
		}
		selfLoop := false
		for _, e := range outgoing {
			if e.To == s {
				selfLoop = true
				break
			}
		}
		if selfLoop {
			continue
		}
		if incoming[0].Event != symtab.NoIdx {
			allLambda := true
			for _, e := range outgoing {
				if e.Event != symtab.NoIdx {
					allLambda = false
					break
				}
			}
			if !allLambda {
				continue
			}
		}
		allChain := true
		for _, e := range outgoing {
			if _, _, chains := mergeResidues(incoming[0].Push, e.Pop); !chains {
				allChain = false
				break
			}
		}
		if !allChain {
			continue
		}
		return s, incoming[0], outgoing, true
	}
	return 0, pdEdge{}, nil, false
}

// mergeResidues determines whether push1 and pop2 chain (one is a
// prefix of the other) and returns the residue of pop2 once push1 is
// removed from its front, and the residue of push1 once pop2 is removed
// from its front. Exactly one of the two residues is non-empty (or both
// empty when the vectors are equal).
func mergeResidues(push1, pop2 []symtab.Idx) (residuePop2, residuePush1 []symtab.Idx, chains bool) {
	if len(push1) <= len(pop2) && idxSliceEqual(push1, pop2[:len(push1)]) {
		return pop2[len(push1):], nil, true
	}
	if len(pop2) <= len(push1) && idxSliceEqual(pop2, push1[:len(pop2)]) {
		return nil, push1[len(pop2):], true
	}
	return nil, nil, false
}

func mergeOnce(pd *automaton.Pushdown, qm automaton.Idx, in pdEdge, out []pdEdge) *automaton.Pushdown {
	fresh := automaton.NewPushdown(pd.Ctx, pd.Bottom)
	for _, s := range pd.States() {
		if s == qm {
			continue
		}
		st := pd.State(s)
		fresh.InsertStateWithID(s, st.Name)
		fresh.SetInitial(s, st.Initial)
		fresh.SetMarked(s, st.Marked)
		fresh.State(s).Merge = st.Merge
	}
	for _, ev := range pd.Alphabet() {
		fresh.InsertEvent(ev)
	}
	for _, t := range pd.AllPDTransitions() {
		if t.From == qm || t.To == qm {
			continue
		}
		fresh.AddPDTransition(t.From, t.Event, t.To, t.PopPush...)
	}

	for _, e := range out {
		residuePop2, residuePush1, _ := mergeResidues(in.Push, e.Pop)
		pop3 := append(append([]symtab.Idx{}, in.Pop...), residuePop2...)
		push3 := append(append([]symtab.Idx{}, e.Push...), residuePush1...)
		ev := in.Event
		if ev == symtab.NoIdx {
			ev = e.Event
		}
		fresh.AddPDTransition(in.From, ev, e.To, automaton.PopPush{Pop: pop3, Push: push3})
	}
	return fresh
}
