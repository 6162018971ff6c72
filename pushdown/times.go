package pushdown

import (
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

// IntersectEvents computes the conjunction of two event attribute words
// per §4.15: controllable iff both are controllable, observable iff
// both are observable. Other bits (forcible, high-level) pass through
// unconjoined, since §4.15 only names controllability/observability.
func IntersectEvents(a, b symtab.Flags) symtab.Flags {
	out := a & b & (symtab.Controllable | symtab.Observable)
	out |= (a | b) &^ (symtab.Controllable | symtab.Observable)
	return out
}

// productState packs a plant state and a PDA state into one synthetic
// pushdown state id, tracked via an automaton.ProductPair merge record so
// Rnce can later recover the plant-side state a controller ear was split
// from.
func productState(out *automaton.Pushdown, index map[[2]automaton.Idx]automaton.Idx, plant automaton.Idx, pdaState automaton.Idx, name string) automaton.Idx {
	key := [2]automaton.Idx{plant, pdaState}
	if id, ok := index[key]; ok {
		return id
	}
	id := out.NewState(name)
	out.State(id).Merge = automaton.ProductPair(plant, pdaState)
	index[key] = id
	return id
}

// Times builds the synchronous product of a finite plant automaton and
// a pushdown automaton, per §4.14: states are pairs (p,q), initial and
// marked iff both components are; a PDA lambda transition is duplicated
// against every plant state unchanged, while a PDA transition on a
// visible event is combined with every matching plant transition on the
// same event. The stack alphabet and bottom symbol are inherited from
// the PDA.
func Times(plant *automaton.Automaton, pda *automaton.Pushdown) *automaton.Pushdown {
	out := automaton.NewPushdown(pda.Ctx, pda.Bottom)
	index := map[[2]automaton.Idx]automaton.Idx{}

	for _, p := range plant.States() {
		for _, q := range pda.States() {
			id := productState(out, index, p, q, "")
			if plant.State(p).Initial && pda.State(q).Initial {
				out.SetInitial(id, true)
			}
			if plant.State(p).Marked && pda.State(q).Marked {
				out.SetMarked(id, true)
			}
		}
	}

	for _, ev := range pda.Alphabet() {
		out.InsertEvent(ev)
	}

	for _, t := range pda.AllPDTransitions() {
		if t.Event == symtab.NoIdx {
			for _, p := range plant.States() {
				from := productState(out, index, p, t.From, "")
				to := productState(out, index, p, t.To, "")
				out.AddPDTransition(from, t.Event, to, t.PopPush...)
			}
			continue
		}
		for _, p := range plant.States() {
			for _, p2 := range plant.Successors(p, t.Event) {
				from := productState(out, index, p, t.From, "")
				to := productState(out, index, p2, t.To, "")
				out.AddPDTransition(from, t.Event, to, t.PopPush...)
			}
		}
	}
	return out
}
