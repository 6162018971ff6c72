package lr1

import (
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/grammar"
)

// augStartState is a sentinel automaton state id reserved for the
// augmented start nonterminal's single state pair; it never collides
// with a real pushdown state since automaton.Idx 0 (NoIdx) is never
// allocated and state ids are otherwise handed out densely from 1.
const augStartState automaton.Idx = 0

// Aug returns g augmented with a fresh start production S' -> S $, where
// S is g's original start symbol and $ is represented implicitly by
// requiring EndOfInput as the lookahead on the augmented item (§4.10,
// "augment the grammar with a new start symbol so acceptance is
// recognized by a specific completed item rather than stack-emptiness").
// Grounded on github.com/npillmayer/gorgo/lr/tables.go's "completed start
// rule" handling (CFSMState.containsCompletedStartRule, rule.Serial==0).
func Aug(g *grammar.Grammar) (*grammar.Grammar, grammar.Nonterminal) {
	newStart := grammar.Nonterminal{Start: augStartState, OnStack: nil, End: automaton.NoIdx}
	out := grammar.New(newStart)
	out.InsProduction(grammar.Production{
		Lhs: newStart,
		Rhs: []grammar.Symbol{grammar.NewNonterminalSymbol(g.Start)},
	})
	for _, p := range g.Productions() {
		out.InsProduction(p)
	}
	return out, newStart
}

// StartItem builds the initial LR(1) item for the augmented grammar's
// sole production, with EndOfInput as lookahead.
func StartItem(augStart grammar.Nonterminal, a *Analysis) Item {
	for _, p := range a.G.ProductionsFor(augStart) {
		return Item{ProdKey: p.Key(), Dot: 0, La: EndOfInput}
	}
	return Item{}
}
