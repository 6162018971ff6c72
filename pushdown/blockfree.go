package pushdown

import (
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/parser"
	"github.com/FGDES/pdsynth/symtab"
)

// RemoveMultPop decomposes any alternative whose pop vector has more
// than one symbol back into a pop-one chain. Normalize's splitting
// logic already generalises past the pop-one case (it classifies any
// non-simple alternative, regardless of why it became non-simple), so
// this is the same pass under the name §4.14's pipeline calls it by,
// run after MergeAdjacentTransitions may have concatenated multiple
// pop vectors together.
func RemoveMultPop(pd *automaton.Pushdown) *automaton.Pushdown {
	out, _ := Normalize(pd)
	return out
}

// renameStackSymbols rebuilds pd with every stack symbol it currently
// uses replaced by a freshly defined symbol named prefix+original, per
// §4.12 step 13 ("rename stack symbols with an old- prefix to avoid
// collisions" when this result is later combined with an automaton that
// may already use the same short names LrParser2EPDA assigns, e.g.
// "q0").
func renameStackSymbols(pd *automaton.Pushdown, prefix string) *automaton.Pushdown {
	ctx := pd.Ctx
	remap := map[symtab.Idx]symtab.Idx{}
	for _, sym := range collectStackSymbols(pd) {
		if sym == symtab.NoIdx {
			continue
		}
		orig := ctx.StackSymbols.ByIndex(sym)
		if orig == nil {
			continue
		}
		fresh, _ := ctx.StackSymbols.ResolveOrDefine(prefix + orig.Name)
		remap[sym] = fresh.Index
	}
	remapOne := func(s symtab.Idx) symtab.Idx {
		if r, ok := remap[s]; ok {
			return r
		}
		return s
	}
	newBottom := remapOne(pd.Bottom)
	out := automaton.NewPushdown(ctx, newBottom)
	for _, s := range pd.States() {
		st := pd.State(s)
		out.InsertStateWithID(s, st.Name)
		out.SetInitial(s, st.Initial)
		out.SetMarked(s, st.Marked)
		out.State(s).Merge = st.Merge
	}
	for _, ev := range pd.Alphabet() {
		out.InsertEvent(ev)
	}
	for _, t := range pd.AllPDTransitions() {
		for _, alt := range t.PopPush {
			pop := make([]symtab.Idx, len(alt.Pop))
			for i, s := range alt.Pop {
				pop[i] = remapOne(s)
			}
			push := make([]symtab.Idx, len(alt.Push))
			for i, s := range alt.Push {
				push[i] = remapOne(s)
			}
			out.AddPDTransition(t.From, t.Event, t.To, automaton.PopPush{Pop: pop, Push: push})
		}
	}
	return out
}

// stabiliseMerge runs the §4.12 step 14 loop: MergeAdjacentTransitions,
// then (RemoveLambdaPop, RemoveMultPop, RemoveLambdaPop, Trim(0), merge,
// Trim(0)) repeated until a pass changes nothing (tracked by comparing
// state and transition counts, since every pass in this package only
// ever removes or collapses, never grows state/transition count without
// also being idempotent once nothing is left to collapse).
func stabiliseMerge(pd *automaton.Pushdown) *automaton.Pushdown {
	cur := MergeAdjacentTransitions(pd)
	for {
		before := len(cur.States()) + len(cur.AllPDTransitions())
		cur = RemoveLambdaPop(cur)
		cur = RemoveMultPop(cur)
		cur = RemoveLambdaPop(cur)
		cur = Trim(cur, 0)
		cur = MergeAdjacentTransitions(cur)
		cur = Trim(cur, 0)
		after := len(cur.States()) + len(cur.AllPDTransitions())
		if after == before {
			return cur
		}
	}
}

// CorrectEvents restores the Controllable/Observable bits that original
// carried for each of its events onto the same event indices of result,
// per §4.12 step 15 (run after PushdownBlockfree/PushdownAccessible's
// CFG round-trip). In this port it is a deliberate no-op: plant, spec
// and parser-derived events all live in one shared symtab.Context (the
// §9 design note's "encapsulate in a context object", also the basis
// for times.go's IntersectEvents scope decision), so grammar and parser
// construction read event indices but never write their Flags word —
// there is no drift to correct. Kept as a named step, rather than
// inlined away, so the 15-step scaffold stays traceable one call per
// spec step.
func CorrectEvents(result *automaton.Pushdown, original *automaton.Pushdown) *automaton.Pushdown {
	return result
}

// PushdownBlockfree makes a pushdown generator nonblocking: every
// reachable configuration can still reach a marked one. Implements
// §4.12's 15-step scaffold: trim/normalise/trim/Nda/trim to reach an
// SPDA whose double-marking is resolved, translate to a grammar with
// the reducibility guard on, clean the grammar, lift the cleaned
// grammar back to a pushdown generator via the LR(1) parser
// construction, merge/trim to stabilise, and CorrectEvents.
func PushdownBlockfree(pd *automaton.Pushdown) *automaton.Pushdown {
	cur := Trim(pd, 1)
	cur, _ = Normalize(cur)
	cur = Trim(cur, 0)
	cur = Nda(cur)
	cur = Trim(cur, 0)

	g := Sp2Lr(cur, false)
	g = Rnpp(g)
	g = Rup(g)
	if len(g.Productions()) == 0 {
		return automaton.NewPushdown(pd.Ctx, pd.Bottom)
	}

	lifted := parser.BuildEPDA(pd.Ctx, g)
	lifted = Trim(lifted, 0)
	lifted = renameStackSymbols(lifted, "old-")
	lifted = stabiliseMerge(lifted)
	return CorrectEvents(lifted, pd)
}

// PushdownAccessible restricts a pushdown generator to its accessible
// part (every configuration reachable from an initial one), following
// the same scaffold as PushdownBlockfree but with Sp2Lr's reducibility
// guard off (only reachability is needed, per §4.12's closing
// paragraph) and Rnpp skipped, since accessibility alone does not
// require productivity.
func PushdownAccessible(pd *automaton.Pushdown) *automaton.Pushdown {
	cur := Trim(pd, 1)
	cur, _ = Normalize(cur)
	cur = Trim(cur, 0)
	cur = Nda(cur)
	cur = Trim(cur, 0)

	g := Sp2Lr(cur, true)
	g = Rup(g)
	if len(g.Productions()) == 0 {
		return automaton.NewPushdown(pd.Ctx, pd.Bottom)
	}

	lifted := parser.BuildEPDA(pd.Ctx, g)
	lifted = Trim(lifted, 0)
	lifted = renameStackSymbols(lifted, "old-")
	lifted = stabiliseMerge(lifted)
	return CorrectEvents(lifted, pd)
}
