package grammar

import (
	"testing"

	"github.com/FGDES/pdsynth/symtab"
)

func TestGrammarInsProductionDedupesAndCollectsSymbols(t *testing.T) {
	ctx := symtab.NewContext()
	a := ctx.Events.Define("a", 0)

	start := End(1, nil)
	b := NewBuilder(start)
	nt2 := End(2, nil)
	b.Add(start, NewTerminalSymbol(a.Index), NewNonterminalSymbol(nt2))
	b.Add(start, NewTerminalSymbol(a.Index), NewNonterminalSymbol(nt2)) // duplicate
	b.Add(nt2, NewTerminalSymbol(a.Index))
	g := b.Grammar()

	if len(g.Productions()) != 2 {
		t.Fatalf("expected 2 distinct productions, got %d", len(g.Productions()))
	}
	if len(g.Terminals()) != 1 {
		t.Fatalf("expected 1 terminal, got %d", len(g.Terminals()))
	}
	if len(g.Nonterminals()) != 2 {
		t.Fatalf("expected 2 nonterminals, got %d", len(g.Nonterminals()))
	}
	if !g.HasNonterminal(nt2) {
		t.Fatal("expected nt2 to be part of the grammar via rhs reference")
	}
}

func TestRnppRemovesNonProductiveProductions(t *testing.T) {
	ctx := symtab.NewContext()
	a := ctx.Events.Define("a", 0)

	start := End(1, nil)
	dead := End(2, nil) // only refers to itself, never bottoms out in a terminal
	b := NewBuilder(start)
	b.Add(start, NewTerminalSymbol(a.Index))                     // productive: start -> a
	b.Add(start, NewNonterminalSymbol(dead))                     // start -> dead, non-productive path
	b.Add(dead, NewNonterminalSymbol(dead))                      // dead -> dead, never bottoms out
	g := Rnpp(b.Grammar())

	for _, p := range g.Productions() {
		if p.Lhs.Key() == dead.Key() {
			t.Fatalf("expected dead's productions to be removed, found %v", p)
		}
	}
	if len(g.Productions()) != 1 {
		t.Fatalf("expected exactly the productive start->a production, got %v", g.Productions())
	}
}

func TestRupRemovesUnreachableProductions(t *testing.T) {
	ctx := symtab.NewContext()
	a := ctx.Events.Define("a", 0)

	start := End(1, nil)
	reachable := End(2, nil)
	unreachable := End(3, nil)
	b := NewBuilder(start)
	b.Add(start, NewTerminalSymbol(a.Index), NewNonterminalSymbol(reachable))
	b.Add(reachable, NewTerminalSymbol(a.Index))
	b.Add(unreachable, NewTerminalSymbol(a.Index)) // never referenced from start

	g := Rup(b.Grammar())
	if g.HasNonterminal(unreachable) {
		t.Fatal("expected unreachable nonterminal to be removed")
	}
	if !g.HasNonterminal(reachable) {
		t.Fatal("expected reachable nonterminal to survive")
	}
	if len(g.Productions()) != 2 {
		t.Fatalf("expected 2 reachable productions, got %d", len(g.Productions()))
	}
}
