package pushdown

import (
	"testing"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

func TestIntersectEventsConjoinsControllableAndObservable(t *testing.T) {
	both := symtab.Controllable | symtab.Observable | symtab.HighLevel
	onlyCtrl := symtab.Controllable | symtab.HighLevel
	got := IntersectEvents(both, onlyCtrl)
	if got&symtab.Controllable == 0 {
		t.Fatal("expected controllable to survive when both sides set it")
	}
	if got&symtab.Observable != 0 {
		t.Fatal("expected observable to drop since only one side set it")
	}
}

func TestTimesBuildsProductOfPlantAndSPDA(t *testing.T) {
	ctx := symtab.NewContext()
	bottom, _ := ctx.StackSymbols.ResolveOrDefine("sb")
	a := ctx.Events.Define("a", symtab.DefaultEventFlags)

	plant := automaton.New(ctx)
	p0 := plant.NewState("p0")
	p1 := plant.NewState("p1")
	plant.SetInitial(p0, true)
	plant.SetMarked(p1, true)
	plant.InsertEvent(a.Index)
	plant.AddTransition(p0, a.Index, p1)

	pd := automaton.NewPushdown(ctx, bottom.Index)
	q0 := pd.NewState("q0")
	q1 := pd.NewState("q1")
	pd.SetInitial(q0, true)
	pd.SetMarked(q1, true)
	pd.AddPDTransition(q0, a.Index, q1, automaton.PopPush{Pop: []symtab.Idx{bottom.Index}, Push: []symtab.Idx{bottom.Index}})

	prod := Times(plant, pd)

	if len(prod.States()) != 4 {
		t.Fatalf("expected 4 product states, got %d", len(prod.States()))
	}
	if len(prod.InitialStates()) != 1 {
		t.Fatalf("expected exactly one initial state (p0,q0), got %d", len(prod.InitialStates()))
	}
	if len(prod.MarkedStates()) != 1 {
		t.Fatalf("expected exactly one marked state (p1,q1), got %d", len(prod.MarkedStates()))
	}
	if len(prod.AllPDTransitions()) != 1 {
		t.Fatalf("expected exactly one product transition for the single matching pair, got %d", len(prod.AllPDTransitions()))
	}
}
