package pushdown

import (
	"sort"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/grammar"
	"github.com/FGDES/pdsynth/symtab"
)

// Sp2Lr translates an SPDA into a context-free grammar generating its
// marked language, per §4.9's four production shapes. When
// ignorReducible is true, productions are generated whenever their
// structural preconditions hold regardless of whether the right-hand
// nonterminals are already known reducible — used by PushdownAccessible,
// which only needs reachability, not coaccessibility.
func Sp2Lr(pd *automaton.Pushdown, ignorReducible bool) *grammar.Grammar {
	reach := reachabilityCache(pd)
	stackSymbols := collectStackSymbols(pd)
	inits := pd.InitialStates()
	var start grammar.Nonterminal
	if len(inits) > 0 {
		start = grammar.End(inits[0], []symtab.Idx{pd.Bottom})
	}
	g := grammar.New(start)

	reducible := func(nt grammar.Nonterminal) bool {
		return ignorReducible || len(g.ProductionsFor(nt)) > 0
	}

	for changed := true; changed; {
		changed = false

		// T_final.
		for _, qm := range pd.MarkedStates() {
			for _, a := range stackSymbols {
				if g.InsProduction(grammar.Production{Lhs: grammar.End(qm, []symtab.Idx{a})}) {
					changed = true
				}
			}
		}

		for _, t := range pd.AllPDTransitions() {
			for _, alt := range t.PopPush {
				switch {
				case t.Event == symtab.NoIdx && len(alt.Pop) == 1 && len(alt.Push) == 1:
					// T2: lambda pop-one.
					lhs := grammar.Mid(t.From, []symtab.Idx{alt.Pop[0]}, t.To)
					if g.InsProduction(grammar.Production{Lhs: lhs}) {
						changed = true
					}

				case t.Event != symtab.NoIdx && len(alt.Pop) == 1 && len(alt.Push) == 1 && alt.Pop[0] == alt.Push[0]:
					// T1: read, stack top untouched.
					b := alt.Pop[0]
					tgtEnd := grammar.End(t.To, []symtab.Idx{b})
					if reducible(tgtEnd) {
						lhs := grammar.End(t.From, []symtab.Idx{b})
						rhs := []grammar.Symbol{grammar.NewTerminalSymbol(t.Event), grammar.NewNonterminalSymbol(tgtEnd)}
						if g.InsProduction(grammar.Production{Lhs: lhs, Rhs: rhs}) {
							changed = true
						}
					}
					for _, qt := range reach[t.To] {
						tgtMid := grammar.Mid(t.To, []symtab.Idx{b}, qt)
						if !reducible(tgtMid) {
							continue
						}
						lhs := grammar.Mid(t.From, []symtab.Idx{b}, qt)
						rhs := []grammar.Symbol{grammar.NewTerminalSymbol(t.Event), grammar.NewNonterminalSymbol(tgtMid)}
						if g.InsProduction(grammar.Production{Lhs: lhs, Rhs: rhs}) {
							changed = true
						}
					}

				case t.Event == symtab.NoIdx && len(alt.Pop) == 1 && len(alt.Push) == 2 && alt.Push[1] == alt.Pop[0]:
					// T3: push-one-on-top.
					b, c := alt.Pop[0], alt.Push[0]
					jEnd := grammar.End(t.To, []symtab.Idx{c})
					if reducible(jEnd) {
						lhs := grammar.End(t.From, []symtab.Idx{b})
						rhs := []grammar.Symbol{grammar.NewNonterminalSymbol(jEnd)}
						if g.InsProduction(grammar.Production{Lhs: lhs, Rhs: rhs}) {
							changed = true
						}
					}
					for _, qs := range reach[t.To] {
						jMid := grammar.Mid(t.To, []symtab.Idx{c}, qs)
						if !reducible(jMid) {
							continue
						}
						sEnd := grammar.End(qs, []symtab.Idx{b})
						lhs := grammar.End(t.From, []symtab.Idx{b})
						rhs := []grammar.Symbol{grammar.NewNonterminalSymbol(jMid), grammar.NewNonterminalSymbol(sEnd)}
						if g.InsProduction(grammar.Production{Lhs: lhs, Rhs: rhs}) {
							changed = true
						}

						for _, qp := range poppedTo(pd, qs, c) {
							pMid := grammar.Mid(t.To, []symtab.Idx{c}, qp)
							if !reducible(pMid) {
								continue
							}
							for _, qt := range poppedTo(pd, qp, b) {
								bMid := grammar.Mid(qp, []symtab.Idx{b}, qt)
								if !reducible(bMid) {
									continue
								}
								lhsMid := grammar.Mid(t.From, []symtab.Idx{b}, qt)
								rhsMid := []grammar.Symbol{grammar.NewNonterminalSymbol(pMid), grammar.NewNonterminalSymbol(bMid)}
								if g.InsProduction(grammar.Production{Lhs: lhsMid, Rhs: rhsMid}) {
									changed = true
								}
							}
						}
					}
				}
			}
		}
	}
	return g
}

// reachabilityCache maps every state to the states transitively
// reachable from it via any transition, built once per Sp2Lr call per
// §4.9 ("a map state -> set of states reachable... built once per pass
// to bound the quadratic scans above"). Each list is sorted by state
// index, so iterating it is deterministic.
func reachabilityCache(pd *automaton.Pushdown) map[automaton.Idx][]automaton.Idx {
	out := map[automaton.Idx][]automaton.Idx{}
	for _, s := range pd.States() {
		seen := map[automaton.Idx]bool{}
		work := []automaton.Idx{s}
		for len(work) > 0 {
			cur := work[len(work)-1]
			work = work[:len(work)-1]
			for _, tr := range pd.AllSuccessors(cur) {
				if !seen[tr.To] {
					seen[tr.To] = true
					work = append(work, tr.To)
				}
			}
		}
		var list []automaton.Idx
		for q := range seen {
			list = append(list, q)
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		out[s] = list
	}
	return out
}

// collectStackSymbols returns every distinct non-lambda stack symbol
// mentioned by any transition's Pop or Push vector, plus the stack
// bottom (every reachable stack starts with it, even with zero
// transitions).
func collectStackSymbols(pd *automaton.Pushdown) []symtab.Idx {
	seen := map[symtab.Idx]bool{pd.Bottom: true}
	for _, t := range pd.AllPDTransitions() {
		for _, alt := range t.PopPush {
			for _, s := range alt.Pop {
				if s != symtab.NoIdx {
					seen[s] = true
				}
			}
			for _, s := range alt.Push {
				if s != symtab.NoIdx {
					seen[s] = true
				}
			}
		}
	}
	var out []symtab.Idx
	for s := range seen {
		out = append(out, s)
	}
	return out
}

// poppedTo returns every state reached by a lambda pop-one transition
// popping sym from q.
func poppedTo(pd *automaton.Pushdown, q automaton.Idx, sym symtab.Idx) []automaton.Idx {
	var out []automaton.Idx
	for _, t := range pd.AllPDTransitions() {
		if t.From != q || t.Event != symtab.NoIdx {
			continue
		}
		for _, alt := range t.PopPush {
			if len(alt.Pop) == 1 && alt.Pop[0] == sym && len(alt.Push) == 1 {
				out = append(out, t.To)
			}
		}
	}
	return out
}
