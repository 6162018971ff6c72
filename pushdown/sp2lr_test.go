package pushdown

import (
	"testing"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

// TestSp2LrGeneratesStartProductionForMarkedSPDA builds a one-state SPDA
// accepting the empty marked language over a bottom-only stack (q0
// initial and marked, no transitions) and checks Sp2Lr produces the
// terminal production for it.
func TestSp2LrGeneratesStartProductionForMarkedSPDA(t *testing.T) {
	ctx := symtab.NewContext()
	bottom, _ := ctx.StackSymbols.ResolveOrDefine("sb")

	pd := automaton.NewPushdown(ctx, bottom.Index)
	q0 := pd.NewState("q0")
	pd.SetInitial(q0, true)
	pd.SetMarked(q0, true)

	g := Sp2Lr(pd, false)
	if !g.HasNonterminal(g.Start) {
		t.Fatal("expected the start nonterminal to be part of the grammar")
	}
	prods := g.ProductionsFor(g.Start)
	if len(prods) == 0 {
		t.Fatal("expected at least one production reducing the start symbol")
	}
}

func TestSp2LrTranslatesPushPopChain(t *testing.T) {
	ctx := symtab.NewContext()
	bottom, _ := ctx.StackSymbols.ResolveOrDefine("sb")
	a, _ := ctx.StackSymbols.ResolveOrDefine("a")

	pd := automaton.NewPushdown(ctx, bottom.Index)
	q0 := pd.NewState("q0")
	q1 := pd.NewState("q1")
	q2 := pd.NewState("q2")
	pd.SetInitial(q0, true)
	pd.SetMarked(q2, true)
	pd.AddPDTransition(q0, symtab.NoIdx, q1, automaton.PopPush{Pop: []symtab.Idx{bottom.Index}, Push: []symtab.Idx{a.Index, bottom.Index}})
	pd.AddPDTransition(q1, symtab.NoIdx, q2, automaton.PopPush{Pop: []symtab.Idx{a.Index}, Push: []symtab.Idx{symtab.NoIdx}})

	g := Sp2Lr(pd, false)
	if len(g.Productions()) == 0 {
		t.Fatal("expected at least one production")
	}
	if len(g.ProductionsFor(g.Start)) == 0 {
		t.Fatal("expected the start symbol to reduce")
	}
}
