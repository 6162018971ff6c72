package grammar

import (
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

// Builder accumulates productions for a Grammar under construction,
// sparing callers the Nonterminal/Symbol boilerplate of pushdown.Sp2Lr's
// four production shapes ([ADD]: not present in the original source,
// which builds std::set<GrammarProduction> inline at each call site).
type Builder struct {
	g *Grammar
}

// NewBuilder starts a grammar rooted at start.
func NewBuilder(start Nonterminal) *Builder {
	return &Builder{g: New(start)}
}

// End builds an end-form (q, w) nonterminal.
func End(q automaton.Idx, w []symtab.Idx) Nonterminal {
	return Nonterminal{Start: q, OnStack: w, End: automaton.NoIdx}
}

// Mid builds a mid-form (q, w, q') nonterminal.
func Mid(q automaton.Idx, w []symtab.Idx, q2 automaton.Idx) Nonterminal {
	return Nonterminal{Start: q, OnStack: w, End: q2}
}

// Add inserts lhs -> rhs and returns the builder for chaining.
func (b *Builder) Add(lhs Nonterminal, rhs ...Symbol) *Builder {
	b.g.InsProduction(Production{Lhs: lhs, Rhs: rhs})
	return b
}

// Grammar returns the grammar built so far.
func (b *Builder) Grammar() *Grammar { return b.g }
