// Package lr1 builds the LR(1) characteristic automaton for a
// grammar.Grammar: items, closures, FIRST≤1 sets, goto-transitions and
// the resulting basis of item sets, which parser.Lrp then turns into
// shift/reduce actions (§4.10/§4.11).
//
// Grounded on github.com/npillmayer/gorgo/lr/tables.go's closure/gotoSet
// construction (generalized here from LR(0) items with a separately
// computed FOLLOW set to genuine LR(1) items carrying their own
// lookahead) and on original_source/plugins/pushdown/src/pd_alg_first.cpp
// for the FIRST≤1-of-a-word fixpoint this module needs to build item
// closures.
package lr1

import (
	"sort"

	"github.com/FGDES/pdsynth/container/iteratable"
	"github.com/FGDES/pdsynth/grammar"
	"github.com/FGDES/pdsynth/symtab"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace { return tracing.Select("faudes.lr1") }

// EndOfInput is the reserved lookahead value denoting the end-of-input
// marker ($), distinct from any real event index since symtab.Idx indices
// are handed out densely starting at 0 and never reach this value.
const EndOfInput symtab.Idx = ^symtab.Idx(0)

// Item is an LR(1) configuration (A -> alpha . beta, z): a production
// (identified by its canonical key, since grammar.Production embeds a
// slice and so is not itself comparable), a dot position, and a single
// lookahead terminal event (or EndOfInput).
type Item struct {
	ProdKey string
	Dot     int
	La      symtab.Idx
}

func (i Item) String() string {
	return i.ProdKey + "@" + itoa(i.Dot) + "," + itoa(int(i.La))
}

func itoa(x int) string {
	if x == 0 {
		return "0"
	}
	neg := x < 0
	if neg {
		x = -x
	}
	var buf [20]byte
	p := len(buf)
	for x > 0 {
		p--
		buf[p] = byte('0' + x%10)
		x /= 10
	}
	if neg {
		p--
		buf[p] = '-'
	}
	return string(buf[p:])
}

// Analysis bundles a grammar with its production index and FIRST≤1 cache,
// mirroring the role of github.com/npillmayer/gorgo/lr's LRAnalysis.
type Analysis struct {
	G     *grammar.Grammar
	prods map[string]grammar.Production
	first map[string]map[symtab.Idx]bool // FIRST1(nonterminal), keyed by Nonterminal.Key()
}

// NewAnalysis indexes g's productions and computes every nonterminal's
// FIRST≤1 set to a fixpoint.
func NewAnalysis(g *grammar.Grammar) *Analysis {
	a := &Analysis{G: g, prods: map[string]grammar.Production{}}
	for _, p := range g.Productions() {
		a.prods[p.Key()] = p
	}
	a.computeFirst()
	return a
}

func (a *Analysis) production(key string) grammar.Production { return a.prods[key] }

// Production resolves an item's ProdKey back to the full production,
// for callers outside this package (parser.Lrp needs the production's
// Rhs to walk goto-sequences).
func (a *Analysis) Production(key string) grammar.Production { return a.prods[key] }

// PeekSymbol returns the symbol right after the dot, or nil at the end of
// the production.
func (a *Analysis) PeekSymbol(it Item) *grammar.Symbol {
	p := a.production(it.ProdKey)
	if it.Dot >= len(p.Rhs) {
		return nil
	}
	return &p.Rhs[it.Dot]
}

// Advance returns the item with the dot moved one position to the right.
func (a *Analysis) Advance(it Item) Item {
	return Item{ProdKey: it.ProdKey, Dot: it.Dot + 1, La: it.La}
}

// AtEnd reports whether the dot has reached the end of the production.
func (a *Analysis) AtEnd(it Item) bool {
	return a.PeekSymbol(it) == nil
}

// computeFirst runs the standard worklist fixpoint for FIRST1 of every
// nonterminal: FIRST1(A) includes every terminal that begins some
// right-hand side of A, propagated through leading nonterminals
// (including the empty word, represented by the lambda event).
func (a *Analysis) computeFirst() {
	a.first = map[string]map[symtab.Idx]bool{}
	for _, nt := range a.G.Nonterminals() {
		a.first[nt.Key()] = map[symtab.Idx]bool{}
	}
	for {
		changed := false
		for _, p := range a.G.Productions() {
			dst := a.first[p.Lhs.Key()]
			before := len(dst)
			if a.firstOfSequence(p.Rhs, dst) {
				dst[symtab.NoIdx] = true // marks the LHS nonterminal as nullable
			}
			if len(dst) != before {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
}

// firstOfSequence adds every terminal in FIRST1(syms) to dst and returns
// whether the whole sequence can derive the empty word.
func (a *Analysis) firstOfSequence(syms []grammar.Symbol, dst map[symtab.Idx]bool) bool {
	for _, s := range syms {
		if s.IsTerminal() {
			if s.Terminal.IsLambda() {
				continue // lambda contributes nothing observable, sequence continues
			}
			dst[s.Terminal.Event] = true
			return false
		}
		ntFirst := a.first[s.Nonterminal.Key()]
		nullable := false
		for ev := range ntFirst {
			if ev != symtab.NoIdx {
				dst[ev] = true
			}
		}
		if ntFirst[symtab.NoIdx] {
			nullable = true
		}
		if !nullable {
			return false
		}
	}
	return true
}

// First1 computes FIRST≤1(w z): the set of terminals (and, if w can
// derive the empty word, the lookahead z itself) that can begin the
// sequence w followed by lookahead z. This is exactly the lookahead set
// installed on items produced during closure (§4.10).
func (a *Analysis) First1(w []grammar.Symbol, z symtab.Idx) map[symtab.Idx]bool {
	out := map[symtab.Idx]bool{}
	if a.firstOfSequence(w, out) {
		out[z] = true
	}
	delete(out, symtab.NoIdx)
	return out
}

// Closure computes the closure (aka Desc) of a set of LR(1) items: for
// every item (A -> alpha . B beta, z) with B a nonterminal, add
// (B -> . gamma, x) for every production B -> gamma and every x in
// FIRST1(beta z), iterating to a fixpoint. Implemented as a worklist
// drained via iteratable.Set's destructive-iteration support.
func (a *Analysis) Closure(items *iteratable.Set) *iteratable.Set {
	C := items.Copy()
	C.IterateOnce()
	for C.Next() {
		it := C.Item().(Item)
		sym := a.PeekSymbol(it)
		if sym == nil || sym.IsTerminal() {
			continue
		}
		p := a.production(it.ProdKey)
		beta := p.Rhs[it.Dot+1:]
		las := a.First1(beta, it.La)
		for _, prod := range a.G.ProductionsFor(sym.Nonterminal) {
			for la := range las {
				newItem := Item{ProdKey: prod.Key(), Dot: 0, La: la}
				C.Add(newItem)
			}
		}
	}
	return C
}

// GoTo computes goto(items, X): advance every item whose symbol after the
// dot is X, then take the closure of the result.
func (a *Analysis) GoTo(items *iteratable.Set, x grammar.Symbol) *iteratable.Set {
	moved := iteratable.New()
	for _, v := range items.Values() {
		it := v.(Item)
		sym := a.PeekSymbol(it)
		if sym != nil && symbolsEqual(*sym, x) {
			moved.Add(a.Advance(it))
		}
	}
	return a.Closure(moved)
}

func symbolsEqual(a, b grammar.Symbol) bool { return a.Key() == b.Key() }

// ActiveSymbols returns, for a closure of items, the distinct symbols
// immediately after the dot, sorted by key for determinism.
func (a *Analysis) ActiveSymbols(items *iteratable.Set) []grammar.Symbol {
	seen := map[string]grammar.Symbol{}
	for _, v := range items.Values() {
		it := v.(Item)
		if sym := a.PeekSymbol(it); sym != nil {
			seen[sym.Key()] = *sym
		}
	}
	var out []grammar.Symbol
	for _, s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
