package parser

import (
	"testing"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/grammar"
	"github.com/FGDES/pdsynth/lr1"
	"github.com/FGDES/pdsynth/symtab"
)

// buildBalancedGrammar builds S -> a S b | lambda, the textbook grammar
// for balanced parentheses.
func buildBalancedGrammar(t *testing.T, ctx *symtab.Context) (*grammar.Grammar, symtab.Idx, symtab.Idx) {
	t.Helper()
	a := ctx.Events.Define("a", symtab.DefaultEventFlags)
	b := ctx.Events.Define("b", symtab.DefaultEventFlags)
	s := grammar.Nonterminal{Start: 1, OnStack: nil, End: automaton.NoIdx}
	gb := grammar.NewBuilder(s)
	gb.Add(s, grammar.NewTerminalSymbol(a.Index), grammar.NewNonterminalSymbol(s), grammar.NewTerminalSymbol(b.Index))
	gb.Add(s)
	return gb.Grammar(), a.Index, b.Index
}

func buildParser(t *testing.T, g *grammar.Grammar) (*Parser, grammar.Nonterminal) {
	t.Helper()
	augG, augStart := lr1.Aug(g)
	a := lr1.NewAnalysis(augG)
	b := lr1.LrmLoop(a, augStart)
	p := Lrp(augG, a, b, augStart)
	return DetachAugSymbol(p, augStart), augStart
}

func TestLrpDerivesShiftAndReduceActions(t *testing.T) {
	ctx := symtab.NewContext()
	g, aEv, _ := buildBalancedGrammar(t, ctx)
	p, _ := buildParser(t, g)

	if len(p.Actions) == 0 {
		t.Fatal("expected at least one parser action")
	}
	var haveShift, haveReduce bool
	for _, act := range p.Actions {
		if act.Prod == nil && act.Lhs.Next == aEv {
			haveShift = true
		}
		if act.Prod != nil {
			haveReduce = true
		}
	}
	if !haveShift {
		t.Fatal("expected a shift action on 'a'")
	}
	if !haveReduce {
		t.Fatal("expected at least one reduce action")
	}
}

func TestDriveAcceptsBalancedWordsOnly(t *testing.T) {
	ctx := symtab.NewContext()
	g, aEv, bEv := buildBalancedGrammar(t, ctx)
	p, _ := buildParser(t, g)

	if !Drive(p, []symtab.Idx{aEv, aEv, bEv, bEv}) {
		t.Error("expected aabb to be accepted")
	}
	if !Drive(p, nil) {
		t.Error("expected the empty word to be accepted")
	}
	if Drive(p, []symtab.Idx{aEv, bEv, bEv}) {
		t.Error("expected abb to be rejected")
	}
}

func TestBuildEPDAYieldsValidNonEmptyPopPush(t *testing.T) {
	ctx := symtab.NewContext()
	g, _, _ := buildBalancedGrammar(t, ctx)
	pd := BuildEPDA(ctx, g)

	if err := pd.Validate(); err != nil {
		t.Fatalf("expected a valid pushdown automaton, got %v", err)
	}
	transitions := pd.AllPDTransitions()
	if len(transitions) == 0 {
		t.Fatal("expected at least one pushdown transition")
	}
	for _, tr := range transitions {
		for _, alt := range tr.PopPush {
			if len(alt.Pop) == 0 || len(alt.Push) == 0 {
				t.Fatalf("transition %d--%d-->%d has an empty pop/push vector: %+v", tr.From, tr.Event, tr.To, alt)
			}
		}
	}
	if len(pd.MarkedStates()) == 0 {
		t.Fatal("expected at least one marked (accepting) state")
	}
}
