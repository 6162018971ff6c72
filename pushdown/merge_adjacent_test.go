package pushdown

import (
	"testing"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

// TestMergeAdjacentTransitionsCollapsesPassThroughState builds q0 -a-> qm
// -lambda-> q1 where qm is a pure pass-through (one incoming, one outgoing,
// not marked/initial, stacks chain trivially) and checks the merge
// collapses it into a single q0 -a-> q1 transition.
func TestMergeAdjacentTransitionsCollapsesPassThroughState(t *testing.T) {
	ctx := symtab.NewContext()
	bottom, _ := ctx.StackSymbols.ResolveOrDefine("sb")
	a := ctx.Events.Define("a", symtab.DefaultEventFlags)

	pd := automaton.NewPushdown(ctx, bottom.Index)
	q0 := pd.NewState("q0")
	qm := pd.NewState("qm")
	q1 := pd.NewState("q1")
	pd.SetInitial(q0, true)
	pd.SetMarked(q1, true)
	pd.AddPDTransition(q0, a.Index, qm, automaton.PopPush{Pop: []symtab.Idx{bottom.Index}, Push: []symtab.Idx{bottom.Index}})
	pd.AddPDTransition(qm, symtab.NoIdx, q1, automaton.PopPush{Pop: []symtab.Idx{bottom.Index}, Push: []symtab.Idx{bottom.Index}})

	out := MergeAdjacentTransitions(pd)

	if len(out.States()) != 2 {
		t.Fatalf("expected qm to be collapsed away, leaving 2 states, got %d", len(out.States()))
	}
	trans := out.AllPDTransitions()
	if len(trans) != 1 {
		t.Fatalf("expected exactly one merged transition, got %d", len(trans))
	}
	if trans[0].From != q0 || trans[0].To != q1 || trans[0].Event != a.Index {
		t.Fatalf("expected the merged transition to read q0 -a-> q1, got %+v", trans[0])
	}
}

// TestMergeAdjacentTransitionsSkipsMarkedState ensures a marked
// intermediate state is never collapsed, since that would change the
// marked language.
func TestMergeAdjacentTransitionsSkipsMarkedState(t *testing.T) {
	ctx := symtab.NewContext()
	bottom, _ := ctx.StackSymbols.ResolveOrDefine("sb")
	a := ctx.Events.Define("a", symtab.DefaultEventFlags)
	b := ctx.Events.Define("b", symtab.DefaultEventFlags)

	pd := automaton.NewPushdown(ctx, bottom.Index)
	q0 := pd.NewState("q0")
	qm := pd.NewState("qm")
	q1 := pd.NewState("q1")
	pd.SetInitial(q0, true)
	pd.SetMarked(qm, true)
	pd.SetMarked(q1, true)
	pd.AddPDTransition(q0, a.Index, qm, automaton.PopPush{Pop: []symtab.Idx{bottom.Index}, Push: []symtab.Idx{bottom.Index}})
	pd.AddPDTransition(qm, b.Index, q1, automaton.PopPush{Pop: []symtab.Idx{bottom.Index}, Push: []symtab.Idx{bottom.Index}})

	out := MergeAdjacentTransitions(pd)

	if len(out.States()) != 3 {
		t.Fatalf("expected the marked intermediate state to survive, got %d states", len(out.States()))
	}
}
