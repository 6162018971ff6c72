package topo

import (
	"testing"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

func TestSortAcyclic(t *testing.T) {
	ctx := symtab.NewContext()
	a := ctx.Events.Define("a", 0)
	g := automaton.New(ctx)
	s1 := g.NewState("s1")
	s2 := g.NewState("s2")
	s3 := g.NewState("s3")
	g.AddTransition(s1, a.Index, s2)
	g.AddTransition(s2, a.Index, s3)

	order, err := Sort(g, map[symtab.Idx]bool{a.Index: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos := map[automaton.Idx]int{}
	for i, s := range order {
		pos[s] = i
	}
	if pos[s1] >= pos[s2] || pos[s2] >= pos[s3] {
		t.Fatalf("expected order s1 < s2 < s3, got %v", order)
	}
}

func TestSortDetectsCycle(t *testing.T) {
	ctx := symtab.NewContext()
	a := ctx.Events.Define("a", 0)
	g := automaton.New(ctx)
	s1 := g.NewState("s1")
	s2 := g.NewState("s2")
	g.AddTransition(s1, a.Index, s2)
	g.AddTransition(s2, a.Index, s1)

	_, err := Sort(g, map[symtab.Idx]bool{a.Index: true})
	if err == nil {
		t.Fatal("expected cycle error")
	}
}

func TestSortIgnoresEventsOutsideSubset(t *testing.T) {
	ctx := symtab.NewContext()
	a := ctx.Events.Define("a", 0)
	b := ctx.Events.Define("b", 0)
	g := automaton.New(ctx)
	s1 := g.NewState("s1")
	s2 := g.NewState("s2")
	g.AddTransition(s1, a.Index, s2)
	g.AddTransition(s2, b.Index, s1) // would be a cycle if b were included

	_, err := Sort(g, map[symtab.Idx]bool{a.Index: true})
	if err != nil {
		t.Fatalf("unexpected cycle when event b is excluded: %v", err)
	}
}
