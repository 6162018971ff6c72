package pushdown

import (
	"testing"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

func TestNdaSplitsMarkedStateAcrossActivePassive(t *testing.T) {
	ctx := symtab.NewContext()
	bottom, _ := ctx.StackSymbols.ResolveOrDefine("sb")
	ev := ctx.Events.Define("a", symtab.DefaultEventFlags)

	pd := automaton.NewPushdown(ctx, bottom.Index)
	q0 := pd.NewState("q0")
	q1 := pd.NewState("q1")
	pd.SetInitial(q0, true)
	pd.SetMarked(q1, true)
	pd.AddPDTransition(q0, ev.Index, q1, automaton.PopPush{Pop: []symtab.Idx{bottom.Index}, Push: []symtab.Idx{bottom.Index}})
	// a lambda self-loop on the marked state would otherwise accept
	// unboundedly many times per input string.
	pd.AddPDTransition(q1, symtab.NoIdx, q1, automaton.PopPush{Pop: []symtab.Idx{bottom.Index}, Push: []symtab.Idx{bottom.Index}})

	out := Nda(pd)

	if len(out.States()) != 2*len(pd.States()) {
		t.Fatalf("expected exactly one active and one passive copy per state, got %d states for %d originals", len(out.States()), len(pd.States()))
	}
	if len(out.MarkedStates()) != len(pd.MarkedStates()) {
		t.Fatalf("expected one marked state per originally-marked state, got %d", len(out.MarkedStates()))
	}
	if len(out.InitialStates()) != len(pd.InitialStates()) {
		t.Fatalf("expected one initial state per originally-initial state, got %d", len(out.InitialStates()))
	}
}
