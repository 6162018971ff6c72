package pushdown

import (
	"testing"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

func TestPushdownBlockfreeReturnsEmptyForUnmarkablePDA(t *testing.T) {
	ctx := symtab.NewContext()
	bottom, _ := ctx.StackSymbols.ResolveOrDefine("sb")
	ev := ctx.Events.Define("a", symtab.DefaultEventFlags)

	pd := automaton.NewPushdown(ctx, bottom.Index)
	q0 := pd.NewState("q0")
	q1 := pd.NewState("q1")
	pd.SetInitial(q0, true)
	pd.AddPDTransition(q0, ev.Index, q1, automaton.PopPush{Pop: []symtab.Idx{bottom.Index}, Push: []symtab.Idx{bottom.Index}})
	// no marked state anywhere: the generator cannot ever terminate.

	out := PushdownBlockfree(pd)
	if len(out.States()) != 0 {
		t.Fatalf("expected an empty automaton since nothing is markable, got %d states", len(out.States()))
	}
}

func TestPushdownBlockfreeKeepsMarkableGenerator(t *testing.T) {
	ctx := symtab.NewContext()
	bottom, _ := ctx.StackSymbols.ResolveOrDefine("sb")
	ev := ctx.Events.Define("a", symtab.DefaultEventFlags)

	pd := automaton.NewPushdown(ctx, bottom.Index)
	q0 := pd.NewState("q0")
	pd.SetInitial(q0, true)
	pd.SetMarked(q0, true)
	_ = ev

	out := PushdownBlockfree(pd)
	if len(out.InitialStates()) == 0 {
		t.Fatal("expected at least one initial state in the nonblocking result")
	}
	if len(out.MarkedStates()) == 0 {
		t.Fatal("expected at least one marked state in the nonblocking result")
	}
}
