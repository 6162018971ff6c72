// Package automaton implements the finite-automaton data model of
// spec.md §3.1: events and states drawn from a symtab.Context, transitions
// as a set of (source, event, target) triples. The pushdown variant lives
// in pushdown.go (still package automaton, since a Pushdown embeds an
// Automaton for its finite skeleton).
//
// Grounded on github.com/npillmayer/gorgo/lr/tables.go's CFSMState/CFSM
// types (states carry a serial id and are collected into a set; edges are
// a separate collection keyed by (from, label)) generalized from an LR(0)
// characteristic machine to a general nondeterministic/deterministic
// automaton with markings.
package automaton

import (
	"fmt"
	"sort"

	"github.com/FGDES/pdsynth"
	"github.com/FGDES/pdsynth/symtab"
)

// Idx re-exports symtab.Idx for states (which are automaton-local, not
// shared across a Context, but use the same small-integer convention:
// index 0 is never allocated to a real state).
type Idx = symtab.Idx

// NoIdx is the unallocated / sentinel state index.
const NoIdx Idx = symtab.NoIdx

// State carries the §3.1 per-state flags plus an optional provenance
// annotation (merge.go) recording where a split/product/renamed state
// came from.
type State struct {
	Id      Idx
	Name    string
	Initial bool
	Marked  bool
	Merge   MergeInfo
}

// Transition is an ordered (source, event, target) triple, §3.1.
type Transition struct {
	From  Idx
	Event symtab.Idx
	To    Idx
}

// Automaton is a finite automaton over a shared symtab.Context: a set of
// states, an active event subset of Ctx.Events, and a set (no duplicates)
// of transitions.
type Automaton struct {
	Ctx *symtab.Context
	Name string

	states    map[Idx]*State
	nextState Idx

	alphabet map[symtab.Idx]bool

	// adjacency: from -> event -> set of to
	succ map[Idx]map[symtab.Idx]map[Idx]bool
	pred map[Idx]map[symtab.Idx]map[Idx]bool
}

// New creates an empty automaton sharing the given context.
func New(ctx *symtab.Context) *Automaton {
	return &Automaton{
		Ctx:      ctx,
		states:   make(map[Idx]*State),
		alphabet: make(map[symtab.Idx]bool),
		succ:     make(map[Idx]map[symtab.Idx]map[Idx]bool),
		pred:     make(map[Idx]map[symtab.Idx]map[Idx]bool),
	}
}

// InsertEvent adds an existing event symbol to this automaton's active
// alphabet (it must already be defined in Ctx.Events).
func (a *Automaton) InsertEvent(ev symtab.Idx) {
	a.alphabet[ev] = true
}

// NewState allocates a fresh state with a serial id, optionally named.
func (a *Automaton) NewState(name string) Idx {
	a.nextState++
	id := a.nextState
	a.states[id] = &State{Id: id, Name: name}
	return id
}

// InsertStateWithID inserts a state that must carry a specific id (used
// when rebuilding an automaton from another one, e.g. product/split, so
// that merge annotations referring to old ids remain meaningful to
// callers). Panics if the id is already used.
func (a *Automaton) InsertStateWithID(id Idx, name string) {
	if _, ok := a.states[id]; ok {
		panic(fmt.Sprintf("automaton: state id %d already present", id))
	}
	a.states[id] = &State{Id: id, Name: name}
	if id > a.nextState {
		a.nextState = id
	}
}

// HasState reports whether id names a state of this automaton.
func (a *Automaton) HasState(id Idx) bool {
	_, ok := a.states[id]
	return ok
}

// State returns the State record for id, or nil.
func (a *Automaton) State(id Idx) *State {
	return a.states[id]
}

// SetInitial sets or clears the initial flag of a state.
func (a *Automaton) SetInitial(id Idx, v bool) {
	a.mustState(id).Initial = v
}

// SetMarked sets or clears the marked flag of a state.
func (a *Automaton) SetMarked(id Idx, v bool) {
	a.mustState(id).Marked = v
}

func (a *Automaton) mustState(id Idx) *State {
	s, ok := a.states[id]
	if !ok {
		panic(faudes.NewException(faudes.ErrUnknownState, "automaton: unknown state %d", id))
	}
	return s
}

// RemoveState deletes a state and every transition touching it.
func (a *Automaton) RemoveState(id Idx) {
	if !a.HasState(id) {
		return
	}
	for ev, tos := range a.succ[id] {
		for to := range tos {
			a.removeEdge(id, ev, to)
		}
	}
	for from, evs := range a.pred[id] {
		for ev := range evs {
			a.removeEdge(from, ev, id)
		}
	}
	delete(a.states, id)
	delete(a.succ, id)
	delete(a.pred, id)
}

// AddTransition inserts (from, ev, to); a no-op if already present.
// Panics (an invariant violation, §7) if from/to/ev are not known to this
// automaton.
func (a *Automaton) AddTransition(from Idx, ev symtab.Idx, to Idx) {
	a.mustState(from)
	a.mustState(to)
	if ev != symtab.NoIdx && !a.alphabet[ev] && a.Ctx.Events.ByIndex(ev) == nil {
		panic(faudes.NewException(faudes.ErrUnknownState, "automaton: unknown event %d", ev))
	}
	a.alphabet[ev] = true
	if a.succ[from] == nil {
		a.succ[from] = make(map[symtab.Idx]map[Idx]bool)
	}
	if a.succ[from][ev] == nil {
		a.succ[from][ev] = make(map[Idx]bool)
	}
	a.succ[from][ev][to] = true

	if a.pred[to] == nil {
		a.pred[to] = make(map[symtab.Idx]map[Idx]bool)
	}
	if a.pred[to][ev] == nil {
		a.pred[to][ev] = make(map[Idx]bool)
	}
	a.pred[to][ev][from] = true
}

func (a *Automaton) removeEdge(from Idx, ev symtab.Idx, to Idx) {
	if m := a.succ[from]; m != nil {
		if s := m[ev]; s != nil {
			delete(s, to)
		}
	}
	if m := a.pred[to]; m != nil {
		if s := m[ev]; s != nil {
			delete(s, from)
		}
	}
}

// RemoveTransition deletes a single (from, ev, to) triple.
func (a *Automaton) RemoveTransition(from Idx, ev symtab.Idx, to Idx) {
	a.removeEdge(from, ev, to)
}

// HasTransition reports whether the triple is present.
func (a *Automaton) HasTransition(from Idx, ev symtab.Idx, to Idx) bool {
	m := a.succ[from]
	if m == nil {
		return false
	}
	s := m[ev]
	return s != nil && s[to]
}

// Successors returns the sorted target states reachable from `from` via
// event `ev`.
func (a *Automaton) Successors(from Idx, ev symtab.Idx) []Idx {
	m := a.succ[from]
	if m == nil {
		return nil
	}
	return sortedKeys(m[ev])
}

// AllSuccessors returns every (event, target) pair leaving `from`.
func (a *Automaton) AllSuccessors(from Idx) []Transition {
	var out []Transition
	for _, ev := range sortedEventKeys(a.succ[from]) {
		for _, to := range sortedKeys(a.succ[from][ev]) {
			out = append(out, Transition{From: from, Event: ev, To: to})
		}
	}
	return out
}

// Predecessors returns the sorted source states that reach `to` via event
// `ev`.
func (a *Automaton) Predecessors(to Idx, ev symtab.Idx) []Idx {
	m := a.pred[to]
	if m == nil {
		return nil
	}
	return sortedKeys(m[ev])
}

// AllPredecessors returns every (source, event) pair entering `to`.
func (a *Automaton) AllPredecessors(to Idx) []Transition {
	var out []Transition
	for _, ev := range sortedEventKeys(a.pred[to]) {
		for _, from := range sortedKeys(a.pred[to][ev]) {
			out = append(out, Transition{From: from, Event: ev, To: to})
		}
	}
	return out
}

// ActiveEvents returns the events with at least one outgoing transition
// from `from`, sorted.
func (a *Automaton) ActiveEvents(from Idx) []symtab.Idx {
	return sortedEventKeys(a.succ[from])
}

// States returns all state ids, sorted.
func (a *Automaton) States() []Idx {
	out := make([]Idx, 0, len(a.states))
	for id := range a.states {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// InitialStates returns all states with the initial flag set, sorted.
func (a *Automaton) InitialStates() []Idx {
	var out []Idx
	for _, id := range a.States() {
		if a.states[id].Initial {
			out = append(out, id)
		}
	}
	return out
}

// MarkedStates returns all states with the marked flag set, sorted.
func (a *Automaton) MarkedStates() []Idx {
	var out []Idx
	for _, id := range a.States() {
		if a.states[id].Marked {
			out = append(out, id)
		}
	}
	return out
}

// Alphabet returns the active event subset, sorted.
func (a *Automaton) Alphabet() []symtab.Idx {
	out := make([]symtab.Idx, 0, len(a.alphabet))
	for ev := range a.alphabet {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AllTransitions returns every transition of the automaton, sorted by
// (from, event, to).
func (a *Automaton) AllTransitions() []Transition {
	var out []Transition
	for _, from := range a.States() {
		out = append(out, a.AllSuccessors(from)...)
	}
	return out
}

// Copy makes a deep copy: states, flags, alphabet and transitions are all
// independent of the receiver. Indices are preserved, per §3.1's
// lifecycle contract ("Copy is deep (indices preserved where possible)").
func (a *Automaton) Copy() *Automaton {
	b := New(a.Ctx)
	b.Name = a.Name
	b.nextState = a.nextState
	for id, s := range a.states {
		cp := *s
		b.states[id] = &cp
	}
	for ev := range a.alphabet {
		b.alphabet[ev] = true
	}
	for _, t := range a.AllTransitions() {
		b.AddTransition(t.From, t.Event, t.To)
	}
	return b
}

func sortedKeys(m map[Idx]bool) []Idx {
	out := make([]Idx, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedEventKeys(m map[symtab.Idx]map[Idx]bool) []symtab.Idx {
	out := make([]symtab.Idx, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
