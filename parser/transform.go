package parser

import (
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/lr1"
	"github.com/FGDES/pdsynth/symtab"
)

// pairKey identifies a composite (state, terminal) nonterminal built by
// TransformParserAction, mirroring CreateNonterms's std::map<pair<Idx,
// Terminal>, Idx>.
type pairKey struct {
	state automaton.Idx
	term  symtab.Idx
}

// TransformParserAction rewrites every action so each stack element
// records both the original state and the terminal last examined at
// that position, folding lookahead bookkeeping into the state identity
// itself. Every original action (q,a,p,a') becomes two new actions, per
// CreateNonterms/TransformParserAction:
//
//	(q,a,p,a)      => ((q,lambda),a,(p,a),lambda),      ((q,a),lambda,(p,a),lambda)
//	(q,a,p,lambda) => ((q,lambda),a,(p,lambda),lambda),  ((q,a),lambda,(p,lambda),lambda)
//
// The first new action performs the original move on first arrival at
// q; the second lets a state already tagged with the same lookahead
// (typically produced by a preceding reduce) take the same move via a
// silent transition, without re-examining the input.
func TransformParserAction(p *Parser) *Parser {
	out := newParser()
	index := map[pairKey]automaton.Idx{}
	var next automaton.Idx = 1

	get := func(state automaton.Idx, term symtab.Idx) automaton.Idx {
		k := pairKey{state, term}
		if id, ok := index[k]; ok {
			return id
		}
		id := next
		next++
		index[k] = id
		out.States[id] = true
		return id
	}
	createNonterms := func(stack []automaton.Idx, term symtab.Idx) []automaton.Idx {
		res := make([]automaton.Idx, len(stack))
		for i, s := range stack {
			t := symtab.NoIdx
			if i == len(stack)-1 {
				t = term
			}
			res[i] = get(s, t)
		}
		return res
	}

	out.Start = get(p.Start, symtab.NoIdx)

	for _, act := range p.sortedActions() {
		switch {
		case act.Lhs.Next == act.Rhs.Next:
			terminal := act.Lhs.Next
			rhs1 := ActionElement{Stack: createNonterms(act.Rhs.Stack, terminal), Next: symtab.NoIdx}
			lhs1 := ActionElement{Stack: createNonterms(act.Lhs.Stack, symtab.NoIdx), Next: terminal}
			out.insAction(Action{Lhs: lhs1, Rhs: rhs1, Prod: act.Prod})
			lhs2 := ActionElement{Stack: createNonterms(act.Lhs.Stack, terminal), Next: symtab.NoIdx}
			out.insAction(Action{Lhs: lhs2, Rhs: rhs1, Prod: act.Prod})
		case act.Rhs.Next == symtab.NoIdx:
			terminal := act.Lhs.Next
			rhs1 := ActionElement{Stack: createNonterms(act.Rhs.Stack, symtab.NoIdx), Next: symtab.NoIdx}
			lhs1 := ActionElement{Stack: createNonterms(act.Lhs.Stack, symtab.NoIdx), Next: terminal}
			out.insAction(Action{Lhs: lhs1, Rhs: rhs1})
			lhs2 := ActionElement{Stack: createNonterms(act.Lhs.Stack, terminal), Next: symtab.NoIdx}
			out.insAction(Action{Lhs: lhs2, Rhs: rhs1})
		}
	}

	for t := range p.Terminals {
		out.Terminals[t] = true
	}
	// A final state is entered untagged or, by a reduce on end of input,
	// tagged with lr1.EndOfInput; both copies are final.
	for f := range p.Final {
		for _, t := range []symtab.Idx{symtab.NoIdx, lr1.EndOfInput} {
			if id, ok := index[pairKey{f, t}]; ok {
				out.Final[id] = true
			}
		}
	}
	return out
}
