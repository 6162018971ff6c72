package pushdown

import (
	"testing"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

// TestSplitProducesHeadAndEarPerStackSymbol builds a two-state, one-symbol
// SPDA and checks Split produces one head per state plus one ear per
// (state, stack symbol) pair, wired head->ear->head as §4.13c describes.
func TestSplitProducesHeadAndEarPerStackSymbol(t *testing.T) {
	ctx := symtab.NewContext()
	bottom, _ := ctx.StackSymbols.ResolveOrDefine("sb")
	a := ctx.Events.Define("a", symtab.DefaultEventFlags)

	pd := automaton.NewPushdown(ctx, bottom.Index)
	q0 := pd.NewState("q0")
	q1 := pd.NewState("q1")
	pd.SetInitial(q0, true)
	pd.SetMarked(q1, true)
	pd.AddPDTransition(q0, a.Index, q1, automaton.PopPush{Pop: []symtab.Idx{bottom.Index}, Push: []symtab.Idx{bottom.Index}})

	out := Split(pd)

	// One head per original state, one ear per (state, stack symbol);
	// with a single stack symbol that's 2 heads + 2 ears = 4 states.
	if len(out.States()) != 4 {
		t.Fatalf("expected 4 states (2 heads + 2 ears), got %d", len(out.States()))
	}
	if len(out.InitialStates()) != 1 {
		t.Fatalf("expected exactly one initial head, got %d", len(out.InitialStates()))
	}
	if len(out.MarkedStates()) != 1 {
		t.Fatalf("expected exactly one marked ear (for q1's single stack symbol), got %d", len(out.MarkedStates()))
	}

	var earCount, headCount int
	for _, s := range out.States() {
		switch out.State(s).Merge.Kind {
		case automaton.MergeSplitEar:
			earCount++
		case automaton.MergeSplitHead:
			headCount++
		}
	}
	if earCount != 2 || headCount != 2 {
		t.Fatalf("expected 2 ears and 2 heads, got %d ears, %d heads", earCount, headCount)
	}
}

func TestRnceDeletesEarMissingUncontrollableTransition(t *testing.T) {
	ctx := symtab.NewContext()
	bottom, _ := ctx.StackSymbols.ResolveOrDefine("sb")
	a := ctx.Events.Define("a", symtab.DefaultEventFlags&^symtab.Controllable)

	plant := automaton.New(ctx)
	p0 := plant.NewState("p0")
	p1 := plant.NewState("p1")
	plant.SetInitial(p0, true)
	plant.InsertEvent(a.Index)
	plant.AddTransition(p0, a.Index, p1)

	pd := automaton.NewPushdown(ctx, bottom.Index)
	q0 := pd.NewState("q0")
	pd.SetInitial(q0, true)
	pd.State(q0).Merge = automaton.ProductPair(p0, q0)
	// q0 has no transition on the uncontrollable event a at all.

	split := Split(pd)
	out := Rnce(split, pd, plant)

	for _, s := range out.States() {
		if out.State(s).Merge.Kind == automaton.MergeSplitEar {
			t.Fatalf("expected the lone ear to be removed since it lacks the uncontrollable event, found state %d", s)
		}
	}
}
