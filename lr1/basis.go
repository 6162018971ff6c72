package lr1

import (
	"github.com/FGDES/pdsynth/container/iteratable"
	"github.com/FGDES/pdsynth/grammar"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// BasisState is one state of the LR(1) characteristic automaton: a
// serial id plus the set of items comprising it.
type BasisState struct {
	ID     uint
	Items  *iteratable.Set
	Accept bool
}

// basisEdge is a directed, symbol-labelled edge between two basis states.
type basisEdge struct {
	from  *BasisState
	to    *BasisState
	label grammar.Symbol
}

func stateComparator(x, y interface{}) int {
	return utils.IntComparator(int(x.(*BasisState).ID), int(y.(*BasisState).ID))
}

// Basis is the LR(1) characteristic finite state machine (CFSM) for a
// grammar: the set of item-set states reachable from the start item via
// GoTo, with goto-edges. Grounded on
// github.com/npillmayer/gorgo/lr/tables.go's CFSM/buildCFSM.
type Basis struct {
	analysis *Analysis
	states   *treeset.Set
	edges    *arraylist.List
	Start    *BasisState
	nextID   uint
}

func newBasis(a *Analysis) *Basis {
	return &Basis{
		analysis: a,
		states:   treeset.NewWith(stateComparator),
		edges:    arraylist.New(),
	}
}

func (b *Basis) findByItems(items *iteratable.Set) *BasisState {
	for _, x := range b.states.Values() {
		s := x.(*BasisState)
		if s.Items.Equals(items) {
			return s
		}
	}
	return nil
}

func (b *Basis) addState(items *iteratable.Set) *BasisState {
	if s := b.findByItems(items); s != nil {
		return s
	}
	s := &BasisState{ID: b.nextID, Items: items}
	b.nextID++
	b.states.Add(s)
	return s
}

func (b *Basis) addEdge(from, to *BasisState, label grammar.Symbol) {
	b.edges.Add(&basisEdge{from: from, to: to, label: label})
}

// States returns every basis state, ordered by serial id.
func (b *Basis) States() []*BasisState {
	out := make([]*BasisState, 0, b.states.Size())
	for _, x := range b.states.Values() {
		out = append(out, x.(*BasisState))
	}
	return out
}

// BasisEdge is a single outgoing (label, target) pair, as returned by
// EdgesFrom.
type BasisEdge struct {
	Label  grammar.Symbol
	Target *BasisState
}

// EdgesFrom returns every outgoing edge of s.
func (b *Basis) EdgesFrom(s *BasisState) []BasisEdge {
	var out []BasisEdge
	it := b.edges.Iterator()
	for it.Next() {
		e := it.Value().(*basisEdge)
		if e.from == s {
			out = append(out, BasisEdge{Label: e.label, Target: e.to})
		}
	}
	return out
}

// LrmLoop builds the LR(1) characteristic automaton of augStart's
// grammar by breadth-first exploration of GoTo from the start item's
// closure, mirroring TableGenerator.buildCFSM's worklist-over-a-treeset
// pattern.
func LrmLoop(a *Analysis, augStart grammar.Nonterminal) *Basis {
	tracer().Debugf("=== build LR(1) basis ===")
	b := newBasis(a)
	start := iteratable.New(StartItem(augStart, a))
	closure0 := a.Closure(start)
	b.Start = b.addState(closure0)

	worklist := treeset.NewWith(stateComparator)
	worklist.Add(b.Start)
	for worklist.Size() > 0 {
		cur := worklist.Values()[0].(*BasisState)
		worklist.Remove(cur)
		for _, sym := range a.ActiveSymbols(cur.Items) {
			next := a.GoTo(cur.Items, sym)
			if next.Empty() {
				continue
			}
			target := b.findByItems(next)
			isNew := target == nil
			if isNew {
				target = b.addState(next)
				if containsCompletedAugRule(a, target, augStart) {
					target.Accept = true
				}
				worklist.Add(target)
			}
			b.addEdge(cur, target, sym)
		}
	}
	return b
}

// containsCompletedAugRule reports whether state contains the completed
// augmented item (S' -> S ., $), the unique accepting configuration
// (§4.10).
func containsCompletedAugRule(a *Analysis, state *BasisState, augStart grammar.Nonterminal) bool {
	for _, v := range state.Items.Values() {
		it := v.(Item)
		p := a.production(it.ProdKey)
		if p.Lhs.Key() == augStart.Key() && a.AtEnd(it) && it.La == EndOfInput {
			return true
		}
	}
	return false
}
