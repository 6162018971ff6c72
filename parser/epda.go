package parser

import (
	"strconv"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/lr1"
	"github.com/FGDES/pdsynth/symtab"
)

// LrParser2EPDA lifts a transformed LR(1) parser to a pushdown
// generator accepting the same language: every parser state becomes
// both a PDA control state and a stack symbol named after it, so a
// shift/reduce move's effect on the "rest of the stack below the
// current top" (everything but the stack's last element, which the PDA
// already tracks as its control state) can be read off directly from
// the action's two state stacks. Grounded on LrParser2EPDA; the
// mandatory stack-bottom symbol and lambda filler for would-be-empty
// pop/push vectors are carried over unchanged (§3.1's non-empty
// Pop/Push invariant already forced the original to adopt this same
// lambda-filler convention).
func LrParser2EPDA(ctx *symtab.Context, p *Parser) *automaton.Pushdown {
	bottom, _ := ctx.StackSymbols.ResolveOrDefine("sb")
	pd := automaton.NewPushdown(ctx, bottom.Index)

	for s := range p.States {
		name := "q" + strconv.FormatUint(uint64(s), 10)
		pd.InsertStateWithID(s, name)
		ctx.StackSymbols.ResolveOrDefine(name)
	}
	pd.SetInitial(p.Start, true)
	for f := range p.Final {
		pd.SetMarked(f, true)
	}
	for ev := range p.Terminals {
		if ev != symtab.NoIdx {
			pd.InsertEvent(ev)
		}
	}

	lambdaSym := ctx.StackSymbols.Lambda().Index

	for _, act := range p.sortedActions() {
		src := act.Lhs.Stack[len(act.Lhs.Stack)-1]
		trg := act.Rhs.Stack[len(act.Rhs.Stack)-1]
		pop := reverseStackSymbols(ctx, act.Lhs.Stack[:len(act.Lhs.Stack)-1])
		push := reverseStackSymbols(ctx, act.Rhs.Stack[:len(act.Rhs.Stack)-1])
		if len(pop) == 0 {
			pop = []symtab.Idx{lambdaSym}
		}
		if len(push) == 0 {
			push = []symtab.Idx{lambdaSym}
		}
		ev := act.Lhs.Next
		if ev == lr1.EndOfInput {
			ev = symtab.NoIdx // end of input is not an event of the generator
		}
		pd.AddPDTransition(src, ev, trg, automaton.PopPush{Pop: pop, Push: push})
	}
	return pd
}

// reverseStackSymbols converts a state-id slice into the corresponding
// stack-symbol indices, reversed so the nearest-to-top element comes
// first (Pop/Push are read top-first, §3.1), matching
// std::transform(v.rbegin(), v.rend(), ...) in the original.
func reverseStackSymbols(ctx *symtab.Context, states []automaton.Idx) []symtab.Idx {
	out := make([]symtab.Idx, 0, len(states))
	for i := len(states) - 1; i >= 0; i-- {
		name := "q" + strconv.FormatUint(uint64(states[i]), 10)
		sym, _ := ctx.StackSymbols.ResolveOrDefine(name)
		out = append(out, sym.Index)
	}
	return out
}
