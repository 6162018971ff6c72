// Package grammar implements the context-free grammar data model of
// spec.md §4.9: a Grammar translated from a simple pushdown automaton by
// pushdown.Sp2Lr, consumed by the lr1 and parser packages.
//
// Terminals carry an event index; nonterminals are either "end-form"
// (q, w) or "mid-form" (q, w, q') pairs/triples of automaton states and a
// stack-symbol word, per §4.9. Grounded on
// original_source/plugins/pushdown/src/pd_grammar.h's GrammarSymbol /
// Terminal / Nonterminal / GrammarProduction / Grammar classes, replacing
// that polymorphic pointer hierarchy with the tagged-union Symbol type
// per spec.md §9's design note.
package grammar

import (
	"sort"
	"strconv"
	"strings"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

// Terminal wraps an event as a grammar symbol.
type Terminal struct {
	Event symtab.Idx
}

// IsLambda reports whether this terminal is the silent event.
func (t Terminal) IsLambda() bool { return t.Event == symtab.NoIdx }

func (t Terminal) String() string { return "t" + strconv.Itoa(int(t.Event)) }

// Nonterminal is either end-form (q, w), with End == automaton.NoIdx, or
// mid-form (q, w, q'). OnStack is the stack word w, bottom-to-top or
// top-to-bottom depending on the producing algorithm's convention; Sp2Lr
// documents which.
type Nonterminal struct {
	Start   automaton.Idx
	OnStack []symtab.Idx
	End     automaton.Idx
}

// IsEndForm reports whether this is a (q, w) nonterminal (single state).
func (n Nonterminal) IsEndForm() bool { return n.End == automaton.NoIdx }

// Key returns a canonical string identifying this nonterminal, suitable
// for use as a map key (Nonterminal itself contains a slice and is not
// comparable).
func (n Nonterminal) Key() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(n.Start), 10))
	b.WriteByte('/')
	for i, s := range n.OnStack {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(s), 10))
	}
	b.WriteByte('/')
	b.WriteString(strconv.FormatUint(uint64(n.End), 10))
	return b.String()
}

func (n Nonterminal) String() string {
	stack := make([]string, len(n.OnStack))
	for i, s := range n.OnStack {
		stack[i] = strconv.FormatUint(uint64(s), 10)
	}
	if n.IsEndForm() {
		return "(" + strconv.FormatUint(uint64(n.Start), 10) + ",[" + strings.Join(stack, " ") + "])"
	}
	return "(" + strconv.FormatUint(uint64(n.Start), 10) + ",[" + strings.Join(stack, " ") + "]," + strconv.FormatUint(uint64(n.End), 10) + ")"
}

// SymbolKind discriminates the Symbol tagged union.
type SymbolKind int

const (
	TerminalSymbol SymbolKind = iota
	NonterminalSymbol
)

// Symbol is a grammar symbol: a terminal or a nonterminal, replacing the
// GrammarSymbol/Terminal/Nonterminal pointer hierarchy of the original
// with a flat tagged union.
type Symbol struct {
	Kind        SymbolKind
	Terminal    Terminal
	Nonterminal Nonterminal
}

func NewTerminalSymbol(ev symtab.Idx) Symbol {
	return Symbol{Kind: TerminalSymbol, Terminal: Terminal{Event: ev}}
}

func NewNonterminalSymbol(nt Nonterminal) Symbol {
	return Symbol{Kind: NonterminalSymbol, Nonterminal: nt}
}

func (s Symbol) IsTerminal() bool { return s.Kind == TerminalSymbol }

// Key returns a canonical string identifying this symbol (used as part
// of Production.Key).
func (s Symbol) Key() string {
	if s.IsTerminal() {
		return "t:" + strconv.FormatUint(uint64(s.Terminal.Event), 10)
	}
	return "n:" + s.Nonterminal.Key()
}

func (s Symbol) String() string {
	if s.IsTerminal() {
		return s.Terminal.String()
	}
	return s.Nonterminal.String()
}

// Production is one grammar rule Lhs -> Rhs.
type Production struct {
	Lhs Nonterminal
	Rhs []Symbol
}

// Key returns a canonical string identifying this production.
func (p Production) Key() string {
	var b strings.Builder
	b.WriteString(p.Lhs.Key())
	b.WriteString("->")
	for i, s := range p.Rhs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.Key())
	}
	return b.String()
}

func (p Production) String() string {
	parts := make([]string, len(p.Rhs))
	for i, s := range p.Rhs {
		parts[i] = s.String()
	}
	if len(parts) == 0 {
		parts = []string{"lambda"}
	}
	return p.Lhs.String() + " -> " + strings.Join(parts, " ")
}

// Grammar is a context-free grammar over terminals (events) and
// nonterminals (automaton.Idx state pairs/triples with a stack word),
// §4.9. Collections are kept deduplicated by canonical key, mirroring the
// original's std::set<...> members.
type Grammar struct {
	Start        Nonterminal
	terminals    map[symtab.Idx]Terminal
	nonterminals map[string]Nonterminal
	productions  map[string]Production
}

// New creates an empty grammar with the given start symbol (already
// inserted as a nonterminal).
func New(start Nonterminal) *Grammar {
	g := &Grammar{
		Start:        start,
		terminals:    map[symtab.Idx]Terminal{},
		nonterminals: map[string]Nonterminal{},
		productions:  map[string]Production{},
	}
	g.InsNonterminal(start)
	return g
}

// InsTerminal adds a terminal, returning false if already present.
func (g *Grammar) InsTerminal(t Terminal) bool {
	if _, ok := g.terminals[t.Event]; ok {
		return false
	}
	g.terminals[t.Event] = t
	return true
}

// InsNonterminal adds a nonterminal, returning false if already present.
func (g *Grammar) InsNonterminal(nt Nonterminal) bool {
	key := nt.Key()
	if _, ok := g.nonterminals[key]; ok {
		return false
	}
	g.nonterminals[key] = nt
	return true
}

// InsProduction adds a production, inserting any terminal/nonterminal
// symbols it references that are not yet part of the grammar. Returns
// false if the production was already present.
func (g *Grammar) InsProduction(p Production) bool {
	key := p.Key()
	if _, ok := g.productions[key]; ok {
		return false
	}
	g.InsNonterminal(p.Lhs)
	for _, s := range p.Rhs {
		if s.IsTerminal() {
			g.InsTerminal(s.Terminal)
		} else {
			g.InsNonterminal(s.Nonterminal)
		}
	}
	g.productions[key] = p
	return true
}

// Terminals returns every terminal, sorted by event index.
func (g *Grammar) Terminals() []Terminal {
	out := make([]Terminal, 0, len(g.terminals))
	for _, t := range g.terminals {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Event < out[j].Event })
	return out
}

// Nonterminals returns every nonterminal, sorted by canonical key.
func (g *Grammar) Nonterminals() []Nonterminal {
	out := make([]Nonterminal, 0, len(g.nonterminals))
	for _, nt := range g.nonterminals {
		out = append(out, nt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Productions returns every production, sorted by canonical key.
func (g *Grammar) Productions() []Production {
	out := make([]Production, 0, len(g.productions))
	for _, p := range g.productions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// ProductionsFor returns every production whose left-hand side is nt.
func (g *Grammar) ProductionsFor(nt Nonterminal) []Production {
	var out []Production
	key := nt.Key()
	for _, p := range g.productions {
		if p.Lhs.Key() == key {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// HasNonterminal reports whether nt is part of the grammar.
func (g *Grammar) HasNonterminal(nt Nonterminal) bool {
	_, ok := g.nonterminals[nt.Key()]
	return ok
}
