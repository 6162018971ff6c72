// Package symtab implements the process-wide symbol tables of libFAUDES
// §3.1/§5 ("Shared state... Event and stack-symbol symbol tables are
// process-wide singletons"), adapted per the design note of spec.md §9
// ("Encapsulate in a context object passed explicitly"): rather than a
// package-level singleton, callers hold a *Context and pass it to every
// automaton that must interoperate with another.
//
// Grounded on github.com/npillmayer/gorgo/runtime's SymbolTable/Tag: a
// name-indexed table handing out stable serial ids, generalized here to
// carry the §6.2 attribute flags alongside the name.
package symtab

import "fmt"

// Flags is the 32-bit attribute word of §6.2.
type Flags uint32

const (
	Controllable Flags = 1 << 0
	Observable   Flags = 1 << 1
	Forcible     Flags = 1 << 2
	HighLevel    Flags = 1 << 3
)

// DefaultEventFlags is §6.2's default event flag word: observable and
// high-level, neither controllable nor forcible.
const DefaultEventFlags = Observable | HighLevel

// Symbol is one entry of a table: a stable index plus a name and, for
// events, attribute flags.
type Symbol struct {
	Index Idx
	Name  string
	Flags Flags
}

// Idx is a table-local index. Index 0 is reserved for the Lambda/Tau
// symbol, shared between the event table and (separately) the stack
// symbol table, per §3.1 ("λ indices are stable and shared").
type Idx uint32

// NoIdx is the sentinel / unused index.
const NoIdx Idx = 0

// LambdaName is the reserved name for the silent event / no-op stack
// symbol, always allocated at index 0 in its table.
const LambdaName = "lambda"

// Table is a name<->index symbol table. It is not safe for concurrent
// mutation from two goroutines (§5: "mutation from two automata
// simultaneously is not supported and must be serialised by the caller").
type Table struct {
	byName  map[string]*Symbol
	byIndex []*Symbol // index 0 is Lambda
	kind    string    // "event" or "stack symbol", for error messages
}

func newTable(kind string, defaultFlags Flags) *Table {
	t := &Table{
		byName:  make(map[string]*Symbol),
		byIndex: make([]*Symbol, 1, 16),
		kind:    kind,
	}
	lambda := &Symbol{Index: NoIdx, Name: LambdaName, Flags: defaultFlags}
	t.byIndex[0] = lambda
	t.byName[LambdaName] = lambda
	return t
}

// Lambda returns the shared lambda/tau symbol of this table.
func (t *Table) Lambda() *Symbol { return t.byIndex[0] }

// Resolve looks a symbol up by name, returning nil if absent.
func (t *Table) Resolve(name string) *Symbol {
	return t.byName[name]
}

// ResolveOrDefine finds a symbol by name, or inserts one with the table's
// default flags if not already present. Returns the symbol and whether it
// was already present.
func (t *Table) ResolveOrDefine(name string) (*Symbol, bool) {
	if s := t.byName[name]; s != nil {
		return s, true
	}
	return t.Define(name, t.Lambda().Flags), false // lambda carries the table's default flags
}

// Define inserts a new symbol, panicking if the name is already taken
// (symbol tables are append-only: indices must stay stable, §3.1).
func (t *Table) Define(name string, flags Flags) *Symbol {
	if name == LambdaName {
		panic(fmt.Sprintf("symtab: %q is reserved for lambda", name))
	}
	if _, ok := t.byName[name]; ok {
		panic(fmt.Sprintf("symtab: duplicate %s name %q", t.kind, name))
	}
	s := &Symbol{Index: Idx(len(t.byIndex)), Name: name, Flags: flags}
	t.byIndex = append(t.byIndex, s)
	t.byName[name] = s
	return s
}

// ByIndex returns the symbol for an index, or nil if out of range.
func (t *Table) ByIndex(i Idx) *Symbol {
	if int(i) >= len(t.byIndex) {
		return nil
	}
	return t.byIndex[i]
}

// Len returns the number of symbols, including Lambda.
func (t *Table) Len() int { return len(t.byIndex) }

// Each iterates all symbols (including Lambda) in index order.
func (t *Table) Each(f func(*Symbol)) {
	for _, s := range t.byIndex {
		f(s)
	}
}

// Context bundles the event table and the stack-symbol table shared by a
// group of automata that are meant to interoperate (product, trim,
// synthesis...). Two automata intended to interoperate must share one
// Context (§5, §9).
type Context struct {
	Events       *Table
	StackSymbols *Table
}

// NewContext creates a fresh event table and stack-symbol table, each with
// Lambda pre-allocated at index 0.
func NewContext() *Context {
	return &Context{
		Events:       newTable("event", DefaultEventFlags),
		StackSymbols: newTable("stack symbol", 0),
	}
}
