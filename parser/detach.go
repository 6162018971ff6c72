package parser

import (
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/grammar"
)

// DetachAugSymbol removes the bookkeeping reduce of the augmented start
// production (augStart -> S) from p's action set, marking the states on
// its left-hand stack as final instead. Grounded on DetachAugSymbol,
// adapted: the original detaches actions that shift the explicit
// end-of-input terminal $ and promotes their source state to final;
// since lr1.Aug never shifts a real $ (acceptance is recognized by a
// distinguished completed item instead, see lr1.containsCompletedAugRule
// via the basis's Accept flag), there is no such shift action here, and
// the equivalent bookkeeping step is simply dropping the augStart->S
// reduce itself, keeping the Final set Lrp already derived from Accept.
func DetachAugSymbol(p *Parser, augStart grammar.Nonterminal) *Parser {
	out := newParser()
	out.States = p.States
	out.Terminals = p.Terminals
	out.Start = p.Start
	out.Final = map[automaton.Idx]bool{}
	for s := range p.Final {
		out.Final[s] = true
	}
	for _, act := range p.Actions {
		if act.Prod != nil && act.Prod.Lhs.Key() == augStart.Key() {
			for _, s := range act.Lhs.Stack {
				out.Final[s] = true
			}
			continue
		}
		out.insAction(act)
	}
	return out
}
