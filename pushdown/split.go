package pushdown

import (
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

// Split duplicates every state of an SPDA into one head (no stack
// symbol associated) and, for every non-lambda stack symbol X, one ear
// labelled (state, X), per §4.13c. A transition that pops X becomes a
// head-to-ear lambda-read (pop = push = [X]) followed by an ear-to-head
// transition carrying the transition's original event and pop/push.
// Initial states become initial heads; marked states become marked
// ears, for every X.
//
// Split assumes in is already simple-shaped (every alternative's Pop
// vector has exactly one element), which Normalize guarantees.
func Split(in *automaton.Pushdown) *automaton.Pushdown {
	out := automaton.NewPushdown(in.Ctx, in.Bottom)
	stackSymbols := collectStackSymbols(in)

	heads := map[automaton.Idx]automaton.Idx{}
	ears := map[[2]automaton.Idx]automaton.Idx{}

	for _, s := range in.States() {
		id := out.NewState(in.State(s).Name + "#head")
		out.State(id).Merge = automaton.SplitHead(s)
		if in.State(s).Initial {
			out.SetInitial(id, true)
		}
		heads[s] = id
	}

	for _, s := range in.States() {
		for _, x := range stackSymbols {
			id := out.NewState(in.State(s).Name + "#ear")
			out.State(id).Merge = automaton.SplitEar(s, uint32(x))
			if in.State(s).Marked {
				out.SetMarked(id, true)
			}
			ears[[2]automaton.Idx{s, x}] = id
		}
	}

	for _, t := range in.AllPDTransitions() {
		for _, alt := range t.PopPush {
			x := alt.Pop[0]
			ear := ears[[2]automaton.Idx{t.From, x}]
			head := heads[t.From]
			out.AddPDTransition(head, symtab.NoIdx, ear, automaton.PopPush{Pop: []symtab.Idx{x}, Push: []symtab.Idx{x}})
			out.AddPDTransition(ear, t.Event, heads[t.To], alt)
		}
	}
	return out
}

// IsTransient reports whether q has any outgoing lambda transition, the
// §4.13f / glossary definition of "transient".
func IsTransient(pd *automaton.Pushdown, q automaton.Idx) bool {
	for _, tr := range pd.AllSuccessors(q) {
		if tr.Event == symtab.NoIdx {
			return true
		}
	}
	return false
}

// Rnce removes every non-transient ear (q,X) where some uncontrollable
// plant event is enabled in the plant state q was split from (recovered
// via in's product-pair merge record) but the ear has no outgoing
// transition labelled with that event, per §4.13f.
func Rnce(out *automaton.Pushdown, in *automaton.Pushdown, plant *automaton.Automaton) *automaton.Pushdown {
	keep := map[automaton.Idx]bool{}
	for _, s := range out.States() {
		keep[s] = true
	}
	for _, s := range out.States() {
		st := out.State(s)
		if st.Merge.Kind != automaton.MergeSplitEar {
			continue
		}
		if IsTransient(out, s) {
			continue
		}
		origState := in.State(st.Merge.Source)
		if origState.Merge.Kind != automaton.MergeProductPair {
			continue
		}
		plantState := origState.Merge.Plant
		for _, ev := range plant.ActiveEvents(plantState) {
			sym := plant.Ctx.Events.ByIndex(ev)
			if sym == nil || sym.Flags&symtab.Controllable != 0 {
				continue
			}
			if !hasOutgoingEvent(out, s, ev) {
				keep[s] = false
				break
			}
		}
	}
	return restrictPushdown(out, keep, nil)
}

func hasOutgoingEvent(pd *automaton.Pushdown, from automaton.Idx, ev symtab.Idx) bool {
	for _, tr := range pd.AllSuccessors(from) {
		if tr.Event == ev {
			return true
		}
	}
	return false
}
