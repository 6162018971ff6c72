package parser

import (
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/grammar"
	"github.com/FGDES/pdsynth/lr1"
	"github.com/FGDES/pdsynth/symtab"
)

// BuildEPDA runs the full parser-construction pipeline on a grammar:
// augment, build the LR(1) basis, derive shift/reduce actions, detach
// the bookkeeping augmented-start reduce, fold lookahead into state
// identity, and lift to a pushdown generator. This is the sequence
// pd_alg_main.cpp's Blockfree-family operations run before trimming.
func BuildEPDA(ctx *symtab.Context, g *grammar.Grammar) *automaton.Pushdown {
	augG, augStart := lr1.Aug(g)
	a := lr1.NewAnalysis(augG)
	b := lr1.LrmLoop(a, augStart)

	p := Lrp(augG, a, b, augStart)
	p = DetachAugSymbol(p, augStart)
	p = TransformParserAction(p)
	return LrParser2EPDA(ctx, p)
}
