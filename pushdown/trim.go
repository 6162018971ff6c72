package pushdown

import (
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

// Trim restricts pd to states that are both accessible (reachable from
// an initial state) and coaccessible (can reach a marked state). When
// lookahead is 0 this is the ordinary finite-automaton computation on
// the underlying skeleton. When lookahead is n>=1, reachability is
// computed over configurations (state, stack-prefix-of-length-n) per
// §4.7: a transition is usable from a configuration only if its pop
// vector's first min(n,|pop|) symbols match the current stack prefix,
// and the successor's stack prefix is the push vector's own prefix
// (truncated to n) concatenated with the residue of the old prefix
// after popping. Unreached states and unused alternatives are deleted.
func Trim(pd *automaton.Pushdown, lookahead int) *automaton.Pushdown {
	if lookahead == 0 {
		return trimFlat(pd)
	}
	return trimLookahead(pd, lookahead)
}

// trimFlat is the n=0 case: plain accessible ∩ coaccessible on the
// finite skeleton, via the same worklist idiom bisim uses for topological
// reachability, reimplemented here over automaton.Pushdown directly.
func trimFlat(pd *automaton.Pushdown) *automaton.Pushdown {
	access := map[automaton.Idx]bool{}
	work := append([]automaton.Idx(nil), pd.InitialStates()...)
	for _, s := range work {
		access[s] = true
	}
	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]
		for _, tr := range pd.AllSuccessors(s) {
			if !access[tr.To] {
				access[tr.To] = true
				work = append(work, tr.To)
			}
		}
	}

	coaccess := map[automaton.Idx]bool{}
	work = append([]automaton.Idx(nil), pd.MarkedStates()...)
	for _, s := range work {
		coaccess[s] = true
	}
	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]
		for _, tr := range pd.AllPredecessors(s) {
			if !coaccess[tr.From] {
				coaccess[tr.From] = true
				work = append(work, tr.From)
			}
		}
	}

	keep := map[automaton.Idx]bool{}
	for s := range access {
		if coaccess[s] {
			keep[s] = true
		}
	}
	return restrictPushdown(pd, keep, nil)
}

// Accessible restricts pd to states reachable from an initial state,
// without also requiring coaccessibility (unlike Trim). Used by
// PushdownConstructController's synthesis loop between Split and Rnce,
// where dropping a state's provenance (as the grammar-based
// PushdownAccessible's CFG round-trip would) is unacceptable: Rnce
// needs every ear's MergeSplitEar/MergeProductPair chain intact to find
// the plant state it was split from.
func Accessible(pd *automaton.Pushdown) *automaton.Pushdown {
	access := map[automaton.Idx]bool{}
	work := append([]automaton.Idx(nil), pd.InitialStates()...)
	for _, s := range work {
		access[s] = true
	}
	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]
		for _, tr := range pd.AllSuccessors(s) {
			if !access[tr.To] {
				access[tr.To] = true
				work = append(work, tr.To)
			}
		}
	}
	return restrictPushdown(pd, access, nil)
}

// stackConfig is a stack-bounded reachability configuration: a control
// state paired with a canonical key for the top n stack symbols.
type stackConfig struct {
	state automaton.Idx
	stack string
}

func stackKey(prefix []symtab.Idx) string {
	b := make([]byte, 0, len(prefix)*5)
	for _, s := range prefix {
		b = append(b, byte(s), byte(s>>8), byte(s>>16), byte(s>>24), '|')
	}
	return string(b)
}

// altKey identifies one (from, event, to, alternative) tuple for the
// used-transition bookkeeping below; automaton.PDTransition itself is
// not comparable (PopPush holds slices), so it cannot be a map key.
type altKey struct {
	from, to automaton.Idx
	event    symtab.Idx
	alt      string
}

func newAltKey(from, to automaton.Idx, event symtab.Idx, alt automaton.PopPush) altKey {
	return altKey{from: from, to: to, event: event, alt: stackKey(alt.Pop) + ">" + stackKey(alt.Push)}
}

// trimLookahead implements §4.7's n≥1 stack-bounded reachability pass.
func trimLookahead(pd *automaton.Pushdown, n int) *automaton.Pushdown {
	initPrefix := truncate([]symtab.Idx{pd.Bottom}, n)
	start := stackConfig{state: mustSingleInitial(pd), stack: stackKey(initPrefix)}

	visited := map[stackConfig]bool{start: true}
	usedAlt := map[altKey]bool{}
	usedFromTo := map[[2]automaton.Idx]bool{}
	reachedMarked := map[automaton.Idx]bool{}

	type frame struct {
		cfg    stackConfig
		prefix []symtab.Idx
	}
	work := []frame{{cfg: start, prefix: initPrefix}}

	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]
		if pd.State(f.cfg.state).Marked {
			reachedMarked[f.cfg.state] = true
		}
		for _, t := range pd.AllPDTransitions() {
			if t.From != f.cfg.state {
				continue
			}
			for _, alt := range t.PopPush {
				m := minInt(n, len(alt.Pop))
				if !prefixMatches(f.prefix, alt.Pop, m) {
					continue
				}
				residue := f.prefix[minInt(m, len(f.prefix)):]
				newPrefix := truncate(append(append([]symtab.Idx(nil), truncate(alt.Push, n)...), residue...), n)
				cfg := stackConfig{state: t.To, stack: stackKey(newPrefix)}
				usedAlt[newAltKey(t.From, t.To, t.Event, alt)] = true
				usedFromTo[[2]automaton.Idx{t.From, t.To}] = true
				if !visited[cfg] {
					visited[cfg] = true
					work = append(work, frame{cfg: cfg, prefix: newPrefix})
				}
			}
		}
	}

	visitedStates := map[automaton.Idx]bool{}
	for cfg := range visited {
		visitedStates[cfg.state] = true
	}

	// coaccessibility: approximate by propagating "can reach a marked
	// configuration" backwards over used (from,to) edges.
	coaccess := map[automaton.Idx]bool{}
	for s := range reachedMarked {
		coaccess[s] = true
	}
	for changed := true; changed; {
		changed = false
		for ft := range usedFromTo {
			if !coaccess[ft[0]] && coaccess[ft[1]] {
				coaccess[ft[0]] = true
				changed = true
			}
		}
	}

	keep := map[automaton.Idx]bool{}
	for s := range visitedStates {
		if coaccess[s] {
			keep[s] = true
		}
	}

	keepAlt := map[altKey]bool{}
	for k := range usedAlt {
		if keep[k.from] && keep[k.to] {
			keepAlt[k] = true
		}
	}
	return restrictPushdown(pd, keep, keepAlt)
}

func prefixMatches(stack, pop []symtab.Idx, m int) bool {
	if len(stack) < m {
		return false
	}
	for i := 0; i < m; i++ {
		if stack[i] != pop[i] {
			return false
		}
	}
	return true
}

func truncate(v []symtab.Idx, n int) []symtab.Idx {
	if len(v) > n {
		return append([]symtab.Idx(nil), v[:n]...)
	}
	return append([]symtab.Idx(nil), v...)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func mustSingleInitial(pd *automaton.Pushdown) automaton.Idx {
	inits := pd.InitialStates()
	if len(inits) == 0 {
		panic("pushdown: Trim requires at least one initial state")
	}
	return inits[0]
}

// restrictPushdown builds a fresh Pushdown containing only the states in
// keep (same ids, names, flags). If keepAlt is nil, every transition
// between two kept states survives with all its alternatives (the n=0
// case, where alternatives were never individually exercised); otherwise
// only the listed (from,event,to,alternative) tuples survive.
func restrictPushdown(pd *automaton.Pushdown, keep map[automaton.Idx]bool, keepAlt map[altKey]bool) *automaton.Pushdown {
	out := automaton.NewPushdown(pd.Ctx, pd.Bottom)
	for _, s := range pd.States() {
		if !keep[s] {
			continue
		}
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
		if !keep[t.From] || !keep[t.To] {
			continue
		}
		var alts []automaton.PopPush
		for _, alt := range t.PopPush {
			if keepAlt != nil && !keepAlt[newAltKey(t.From, t.To, t.Event, alt)] {
				continue
			}
			alts = append(alts, alt)
		}
		if len(alts) > 0 {
			out.AddPDTransition(t.From, t.Event, t.To, alts...)
		}
	}
	return out
}
