package automaton

import (
	"sort"

	"github.com/FGDES/pdsynth"
	"github.com/FGDES/pdsynth/symtab"
)

// PopPush is one element of a pushdown transition's pop/push set: a pair
// of stack-symbol vectors, read top-first (§3.1). A vector of length 1
// containing Lambda's index denotes "no change"/"nothing" as appropriate.
type PopPush struct {
	Pop  []symtab.Idx
	Push []symtab.Idx
}

// PDTransition is a pushdown transition: a finite-automaton triple paired
// with a non-empty set of PopPush alternatives (§3.1). Determinism (for a
// DPDA) requires this set to collapse to a single functional choice per
// reachable configuration; Pushdown.Validate checks the necessary local
// conditions.
type PDTransition struct {
	From    Idx
	Event   symtab.Idx
	To      Idx
	PopPush []PopPush
}

// Pushdown is a deterministic pushdown automaton: a finite skeleton
// (states, events, markings) plus a stack alphabet, a distinguished
// stack-bottom symbol, and pushdown transitions layered over the same
// state/event graph as *Automaton.
type Pushdown struct {
	*Automaton
	Bottom symtab.Idx

	pd map[Idx]map[symtab.Idx]map[Idx][]PopPush
}

// NewPushdown creates an empty pushdown automaton over ctx, with the
// given stack-bottom symbol (must already be defined in
// ctx.StackSymbols).
func NewPushdown(ctx *symtab.Context, bottom symtab.Idx) *Pushdown {
	return &Pushdown{
		Automaton: New(ctx),
		Bottom:    bottom,
		pd:        make(map[Idx]map[symtab.Idx]map[Idx][]PopPush),
	}
}

// AddPDTransition inserts a pushdown transition, merging its pop/push
// alternatives into any already present for the same (from, ev, to). Each
// PopPush alternative must have non-empty Pop and Push vectors (§3.1); an
// empty vector panics as an invariant violation (§7).
func (p *Pushdown) AddPDTransition(from Idx, ev symtab.Idx, to Idx, alts ...PopPush) {
	p.mustValidAlts(alts)
	p.AddTransition(from, ev, to)
	if p.pd[from] == nil {
		p.pd[from] = make(map[symtab.Idx]map[Idx][]PopPush)
	}
	if p.pd[from][ev] == nil {
		p.pd[from][ev] = make(map[Idx][]PopPush)
	}
	existing := p.pd[from][ev][to]
	for _, alt := range alts {
		if !containsPopPush(existing, alt) {
			existing = append(existing, alt)
		}
	}
	p.pd[from][ev][to] = existing
}

func (p *Pushdown) mustValidAlts(alts []PopPush) {
	if len(alts) == 0 {
		panic(faudes.NewException(faudes.ErrInvariantViolation, "pushdown: pop/push set must be non-empty"))
	}
	for _, a := range alts {
		if len(a.Pop) == 0 || len(a.Push) == 0 {
			panic(faudes.NewException(faudes.ErrInvariantViolation, "pushdown: pop/push vectors must be non-empty"))
		}
	}
}

func containsPopPush(list []PopPush, v PopPush) bool {
	for _, x := range list {
		if idxSliceEqual(x.Pop, v.Pop) && idxSliceEqual(x.Push, v.Push) {
			return true
		}
	}
	return false
}

func idxSliceEqual(a, b []symtab.Idx) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// PopPushAlternatives returns the pop/push set for (from, ev, to), or nil.
func (p *Pushdown) PopPushAlternatives(from Idx, ev symtab.Idx, to Idx) []PopPush {
	m := p.pd[from]
	if m == nil {
		return nil
	}
	n := m[ev]
	if n == nil {
		return nil
	}
	return n[to]
}

// AllPDTransitions returns every pushdown transition, sorted by
// (from, event, to).
func (p *Pushdown) AllPDTransitions() []PDTransition {
	var out []PDTransition
	for _, from := range p.States() {
		for _, ev := range sortedEventKeys(p.pd[from]) {
			tos := p.pd[from][ev]
			ids := make([]Idx, 0, len(tos))
			for to := range tos {
				ids = append(ids, to)
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			for _, to := range ids {
				out = append(out, PDTransition{From: from, Event: ev, To: to, PopPush: tos[to]})
			}
		}
	}
	return out
}

// RemovePDTransition deletes a pushdown transition entirely (all of its
// pop/push alternatives) and the underlying finite-automaton edge.
func (p *Pushdown) RemovePDTransition(from Idx, ev symtab.Idx, to Idx) {
	if m := p.pd[from]; m != nil {
		if n := m[ev]; n != nil {
			delete(n, to)
		}
	}
	p.RemoveTransition(from, ev, to)
}

// Validate checks the determinism-supporting local invariants of §3.1:
// the stack-bottom symbol is never popped to empty nor pushed a second
// time (checked here as: the number of times Bottom occurs in Pop equals
// the number of times it occurs in Push, and whenever present it is the
// last/deepest element of both vectors, i.e. it always stays at the very
// bottom of the stack).
func (p *Pushdown) Validate() error {
	for _, t := range p.AllPDTransitions() {
		for _, alt := range t.PopPush {
			popBottoms := countIdx(alt.Pop, p.Bottom)
			pushBottoms := countIdx(alt.Push, p.Bottom)
			if popBottoms != pushBottoms {
				return faudes.NewException(faudes.ErrInvariantViolation,
					"pushdown: transition %d--%d-->%d would change the stack-bottom occurrence count", t.From, t.Event, t.To)
			}
			if popBottoms > 0 && alt.Pop[len(alt.Pop)-1] != p.Bottom {
				return faudes.NewException(faudes.ErrInvariantViolation,
					"pushdown: stack-bottom must be the deepest popped symbol")
			}
			if pushBottoms > 0 && alt.Push[len(alt.Push)-1] != p.Bottom {
				return faudes.NewException(faudes.ErrInvariantViolation,
					"pushdown: stack-bottom must be the deepest pushed symbol")
			}
		}
	}
	return nil
}

func countIdx(v []symtab.Idx, x symtab.Idx) int {
	n := 0
	for _, e := range v {
		if e == x {
			n++
		}
	}
	return n
}

// Copy makes a deep copy of the pushdown automaton, including the finite
// skeleton and every pop/push alternative.
func (p *Pushdown) Copy() *Pushdown {
	q := NewPushdown(p.Ctx, p.Bottom)
	q.Automaton = p.Automaton.Copy()
	for _, t := range p.AllPDTransitions() {
		alts := make([]PopPush, len(t.PopPush))
		for i, a := range t.PopPush {
			alts[i] = PopPush{Pop: append([]symtab.Idx(nil), a.Pop...), Push: append([]symtab.Idx(nil), a.Push...)}
		}
		q.AddPDTransition(t.From, t.Event, t.To, alts...)
	}
	return q
}
