package automaton

import (
	"testing"

	"github.com/FGDES/pdsynth/symtab"
)

func TestPushdownBasic(t *testing.T) {
	ctx := symtab.NewContext()
	a := ctx.Events.Define("a", symtab.DefaultEventFlags)
	box := ctx.StackSymbols.Define("box", 0)
	bottom := ctx.StackSymbols.Define("bottom", 0)

	p := NewPushdown(ctx, bottom.Index)
	s1 := p.NewState("s1")
	s2 := p.NewState("s2")
	p.SetInitial(s1, true)
	p.SetMarked(s2, true)

	p.AddPDTransition(s1, a.Index, s2, PopPush{
		Pop:  []symtab.Idx{bottom.Index},
		Push: []symtab.Idx{box.Index, bottom.Index},
	})

	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid pushdown, got %v", err)
	}
	alts := p.PopPushAlternatives(s1, a.Index, s2)
	if len(alts) != 1 {
		t.Fatalf("expected 1 pop/push alternative, got %d", len(alts))
	}
}

func TestPushdownRejectsBottomLoss(t *testing.T) {
	ctx := symtab.NewContext()
	ev := ctx.Events.Define("a", 0)
	bottom := ctx.StackSymbols.Define("bottom", 0)
	lambda := ctx.StackSymbols.Lambda()

	p := NewPushdown(ctx, bottom.Index)
	s1 := p.NewState("s1")
	s2 := p.NewState("s2")
	p.AddPDTransition(s1, ev.Index, s2, PopPush{
		Pop:  []symtab.Idx{bottom.Index},
		Push: []symtab.Idx{lambda.Index},
	})
	if err := p.Validate(); err == nil {
		t.Fatal("expected validation error when stack-bottom is popped away")
	}
}

func TestPushdownEmptyPopPushPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty pop/push vector")
		}
	}()
	ctx := symtab.NewContext()
	ev := ctx.Events.Define("a", 0)
	bottom := ctx.StackSymbols.Define("bottom", 0)
	p := NewPushdown(ctx, bottom.Index)
	s1 := p.NewState("s1")
	s2 := p.NewState("s2")
	p.AddPDTransition(s1, ev.Index, s2, PopPush{Pop: nil, Push: []symtab.Idx{bottom.Index}})
}
