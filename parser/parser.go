// Package parser builds an LR(1) shift/reduce parser from a grammar's
// characteristic automaton (lr1.Basis) and lifts it to a pushdown
// generator accepting the same language, per spec.md §4.10/§4.11.
//
// Grounded on
// original_source/plugins/pushdown/src/pd_alg_lrp.h/.cpp's
// GeneratorGoto/GeneratorGotoSeq/LrpShiftRules/LrpReduceRules/Lrp/
// DetachAugSymbol/TransformParserAction/LrParser2EPDA. The stack-of-states
// bookkeeping in that original is ported directly; the "shift $, reduce
// S'->$S$" boundary convention is adapted to this module's simpler
// lr1.Aug, which marks acceptance via a distinguished completed item
// rather than by ever actually shifting an end-of-input terminal.
package parser

import (
	"sort"
	"strconv"
	"strings"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/grammar"
	"github.com/FGDES/pdsynth/lr1"
	"github.com/FGDES/pdsynth/symtab"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace { return tracing.Select("faudes.parser") }

// ActionElement is one side of a parser action: the parser's current
// state stack (bottom to top) together with the next terminal it has
// either just consumed or is about to consume. Lambda (symtab.NoIdx)
// marks "no terminal".
type ActionElement struct {
	Stack []automaton.Idx
	Next  symtab.Idx
}

func (e ActionElement) key() string {
	var b strings.Builder
	for i, s := range e.Stack {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(s), 10))
	}
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(uint64(e.Next), 10))
	return b.String()
}

// Action is one shift or reduce rule: Lhs -> Rhs. Prod is non-nil for
// reduce actions, naming the production that was recognized.
type Action struct {
	Lhs  ActionElement
	Rhs  ActionElement
	Prod *grammar.Production
}

func (a Action) key() string { return a.Lhs.key() + "=>" + a.Rhs.key() }

// Parser is the LR(1) shift/reduce automaton: states are basis-state
// ids (reused directly as parser "nonterminals", following the
// original's convention of equating parser states with goto-generator
// states), plus a start state, accepting states, and the action set.
type Parser struct {
	States    map[automaton.Idx]bool
	Terminals map[symtab.Idx]bool
	Start     automaton.Idx
	Final     map[automaton.Idx]bool
	Actions   []Action
}

func newParser() *Parser {
	return &Parser{
		States:    map[automaton.Idx]bool{},
		Terminals: map[symtab.Idx]bool{},
		Final:     map[automaton.Idx]bool{},
	}
}

func (p *Parser) insAction(a Action) {
	k := a.key()
	for _, have := range p.Actions {
		if have.key() == k {
			return
		}
	}
	p.Actions = append(p.Actions, a)
}

// gotoStep follows a single labelled edge out of s, returning nil if
// none exists (the basis is deterministic, so there is at most one).
func gotoStep(b *lr1.Basis, s *lr1.BasisState, sym grammar.Symbol) *lr1.BasisState {
	for _, e := range b.EdgesFrom(s) {
		if e.Label.Key() == sym.Key() {
			return e.Target
		}
	}
	return nil
}

// gotoSeq follows word one symbol at a time from start, stopping early
// (returning a short sequence) if some prefix of word cannot be
// matched. Grounded on GeneratorGotoSeq.
func gotoSeq(b *lr1.Basis, start *lr1.BasisState, word []grammar.Symbol) []*lr1.BasisState {
	seq := make([]*lr1.BasisState, 0, len(word))
	cur := start
	for _, sym := range word {
		next := gotoStep(b, cur, sym)
		if next == nil {
			return seq
		}
		seq = append(seq, next)
		cur = next
	}
	return seq
}

// ShiftRules builds one shift action per (state, terminal) pair active
// in the basis: (q | a) -> (q q' | lambda), where q' = goto(q, a).
// Grounded on LrpShiftRules, simplified since lr1.Item already carries
// its production key directly (no beforeDot/afterDot reconstruction
// needed to recover which grammar production is being matched).
func ShiftRules(a *lr1.Analysis, b *lr1.Basis) []Action {
	var out []Action
	seen := map[string]bool{}
	for _, q := range b.States() {
		for _, v := range q.Items.Values() {
			it := v.(lr1.Item)
			sym := a.PeekSymbol(it)
			if sym == nil || !sym.IsTerminal() || sym.Terminal.IsLambda() {
				continue
			}
			succ := gotoStep(b, q, *sym)
			if succ == nil {
				continue
			}
			dedupeKey := strconv.FormatUint(uint64(q.ID), 10) + "/" + strconv.FormatUint(uint64(sym.Terminal.Event), 10)
			if seen[dedupeKey] {
				continue
			}
			seen[dedupeKey] = true
			out = append(out, Action{
				Lhs: ActionElement{Stack: []automaton.Idx{automaton.Idx(q.ID)}, Next: sym.Terminal.Event},
				Rhs: ActionElement{Stack: []automaton.Idx{automaton.Idx(q.ID), automaton.Idx(succ.ID)}, Next: symtab.NoIdx},
			})
		}
	}
	return out
}

// ReduceRules builds one reduce action per (state, completed item)
// pair: for every item (A -> . w, z) freshly opened at q (dot == 0),
// walk goto(q, w) to the state where it completes, then pop the states
// traversed and push goto(q, A). Grounded on LrpReduceRules.
func ReduceRules(a *lr1.Analysis, b *lr1.Basis) []Action {
	var out []Action
	for _, q := range b.States() {
		for _, v := range q.Items.Values() {
			it := v.(lr1.Item)
			if it.Dot != 0 {
				continue
			}
			p := a.Production(it.ProdKey)
			seq := gotoSeq(b, q, p.Rhs)
			if len(seq) != len(p.Rhs) {
				continue // w does not fully match from q, not a valid walk
			}
			last := q
			if len(seq) > 0 {
				last = seq[len(seq)-1]
			}
			succ := gotoStep(b, q, grammar.NewNonterminalSymbol(p.Lhs))
			if succ == nil {
				continue
			}
			for _, v2 := range last.Items.Values() {
				cand := v2.(lr1.Item)
				if cand.ProdKey != it.ProdKey || !a.AtEnd(cand) {
					continue
				}
				qQs := make([]automaton.Idx, 0, len(seq)+1)
				qQs = append(qQs, automaton.Idx(q.ID))
				for _, s := range seq {
					qQs = append(qQs, automaton.Idx(s.ID))
				}
				prod := p
				out = append(out, Action{
					Lhs:  ActionElement{Stack: qQs, Next: cand.La},
					Rhs:  ActionElement{Stack: []automaton.Idx{automaton.Idx(q.ID), automaton.Idx(succ.ID)}, Next: cand.La},
					Prod: &prod,
				})
			}
		}
	}
	return out
}

// Lrp constructs the LR(1) parser for augG's basis, per the original
// Lrp: every basis state becomes a parser state, the basis's start
// state becomes the parser's start, and every basis state reachable by
// the distinguished completed augmented-start item becomes a final
// state.
func Lrp(g *grammar.Grammar, a *lr1.Analysis, b *lr1.Basis, augStart grammar.Nonterminal) *Parser {
	tracer().Debugf("=== Lrp: deriving shift/reduce actions ===")
	p := newParser()
	for _, s := range b.States() {
		p.States[automaton.Idx(s.ID)] = true
	}
	for _, t := range g.Terminals() {
		p.Terminals[t.Event] = true
	}
	p.Start = automaton.Idx(b.Start.ID)
	for _, s := range b.States() {
		if s.Accept {
			p.Final[automaton.Idx(s.ID)] = true
		}
	}
	for _, act := range ShiftRules(a, b) {
		p.insAction(act)
	}
	for _, act := range ReduceRules(a, b) {
		p.insAction(act)
	}
	return p
}

// sortedActions returns a copy of the actions sorted by key, for callers
// that need stable iteration order (TransformParserAction,
// LrParser2EPDA).
func (p *Parser) sortedActions() []Action {
	out := append([]Action(nil), p.Actions...)
	sort.Slice(out, func(i, j int) bool { return out[i].key() < out[j].key() })
	return out
}
