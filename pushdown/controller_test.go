package pushdown

import (
	"testing"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

// TestPushdownConstructControllerAcceptsTrivialPlantAndSpec checks the
// synthesis loop terminates and returns a nonblocking candidate when
// the plant and an already-safe specification agree on a single marked
// initial state with no transitions at all: nothing for Rnce to ever
// object to, so the loop should converge on its very first pass.
func TestPushdownConstructControllerAcceptsTrivialPlantAndSpec(t *testing.T) {
	ctx := symtab.NewContext()
	bottom, _ := ctx.StackSymbols.ResolveOrDefine("sb")

	plant := automaton.New(ctx)
	p0 := plant.NewState("p0")
	plant.SetInitial(p0, true)
	plant.SetMarked(p0, true)

	spec := automaton.NewPushdown(ctx, bottom.Index)
	q0 := spec.NewState("q0")
	spec.SetInitial(q0, true)
	spec.SetMarked(q0, true)

	out := PushdownConstructController(plant, spec)

	if len(out.InitialStates()) == 0 {
		t.Fatal("expected the controller to retain an initial state")
	}
	if len(out.MarkedStates()) == 0 {
		t.Fatal("expected the controller to retain a marked state")
	}
}
