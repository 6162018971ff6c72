package bisim

import (
	"sort"
	"strconv"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

// StrongBisim computes the strong bisimulation partition of a (§4.3). An
// optional pre-partition refines the result further (pass nil for none).
func StrongBisim(a *automaton.Automaton, prePartition [][]automaton.Idx) (Partition, error) {
	e := newEngine(Strong, a, symtab.NoIdx)
	if err := e.applyPrePartition(prePartition); err != nil {
		return nil, err
	}
	e.firstStepApproximation()
	e.run()
	return e.generateResult(), nil
}

// DelayedBisim computes the delayed bisimulation partition of a with
// silent event tau, by direct computation (§4.4). a must be tau-loop-free.
func DelayedBisim(a *automaton.Automaton, tau symtab.Idx, prePartition [][]automaton.Idx) (Partition, error) {
	if err := checkTauLoopFree(a, tau); err != nil {
		return nil, err
	}
	e := newEngine(Delayed, a, tau)
	if err := e.applyPrePartition(prePartition); err != nil {
		return nil, err
	}
	e.firstStepApproximation()
	e.run()
	return e.generateResult(), nil
}

// WeakBisim computes the weak bisimulation partition of a with silent
// event tau, by direct computation (§4.4). a must be tau-loop-free.
func WeakBisim(a *automaton.Automaton, tau symtab.Idx, prePartition [][]automaton.Idx) (Partition, error) {
	if err := checkTauLoopFree(a, tau); err != nil {
		return nil, err
	}
	e := newEngine(Weak, a, tau)
	if err := e.applyPrePartition(prePartition); err != nil {
		return nil, err
	}
	e.firstStepApproximation()
	e.run()
	return e.generateResult(), nil
}

// run executes the change-tracking fixpoint of §4.3 step 2 until no state
// is marked changed.
func (e *engine) run() {
	for e.anyChanged() {
		e.computeAffected()
		e.changed = make([]bool, e.n+1)
		e.recomputeCafter()
		e.refine()
		tracer().Infof("bisim: round done, cmax=%d", e.cmax)
	}
}

func (e *engine) anyChanged() bool {
	for i := 1; i <= e.n; i++ {
		if e.changed[i] {
			return true
		}
	}
	return false
}

// recomputeCafter rebuilds cafter for every affected state (§4.3 step 2b /
// §4.4 cafter formulas). Values are updated in place and the pass is
// repeated until no affected state's cafter changes, so that propagation
// along a tau edge reads the tau-successor's cafter of this round, not a
// stale one. The automaton is tau-loop-free, so the repetition ends.
func (e *engine) recomputeCafter() {
	fresh := make([]map[int][]int, e.n+1)
	copy(fresh, e.cafter)
	for stable := false; !stable; {
		stable = true
		for i := 1; i <= e.n; i++ {
			if !e.affected[i] {
				continue
			}
			next := e.computeCafterFor(i, fresh)
			if cafterKey(next) != cafterKey(fresh[i]) {
				fresh[i], stable = next, false
			}
		}
	}
	e.cafter = fresh
}

// computeCafterFor builds the cafter map of local state s, per the
// variant-specific formulas of §4.3/§4.4.
func (e *engine) computeCafterFor(s int, snapshot []map[int][]int) map[int][]int {
	sets := map[int]map[int]bool{}
	add := func(ev, class int) {
		if sets[ev] == nil {
			sets[ev] = map[int]bool{}
		}
		sets[ev][class] = true
	}

	switch e.variant {
	case Strong:
		for ev := 1; ev <= e.m; ev++ {
			for _, t := range e.suc[s][ev] {
				add(ev, e.c[t])
			}
		}
	case Delayed, Weak:
		// self-loop contribution on tau
		add(0, e.c[s])
		// direct visible and tau transitions
		for ev := 0; ev <= e.m; ev++ {
			for _, t := range e.suc[s][ev] {
				add(ev, e.c[t])
			}
		}
		// propagation along tau-successors
		for _, t := range e.suc[s][0] {
			for ev, classes := range snapshot[t] {
				for cl := range setOf(classes) {
					add(ev, cl)
				}
			}
		}
		if e.variant == Weak {
			// weak closure: visible transition followed by tau*, and
			// tau* followed by a visible transition (§4.4 weak cafter).
			for ev := 1; ev <= e.m; ev++ {
				for _, t := range e.suc[s][ev] {
					for cl := range setOf(snapshot[t][0]) {
						add(ev, cl)
					}
				}
			}
			for _, t := range e.suc[s][0] {
				for ev := 1; ev <= e.m; ev++ {
					for cl := range setOf(snapshot[t][ev]) {
						add(ev, cl)
					}
				}
			}
		}
	}

	out := make(map[int][]int, len(sets))
	for ev, classSet := range sets {
		var classes []int
		for cl := range classSet {
			classes = append(classes, cl)
		}
		sort.Ints(classes)
		out[ev] = classes
	}
	return out
}

func setOf(xs []int) map[int]bool {
	m := make(map[int]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

// refine implements §4.3 step 2c: within every class containing at least
// one affected state, the affected members are grouped by cafter
// signature; the largest resulting group keeps the class id, every other
// group receives a fresh id and is marked changed.
func (e *engine) refine() {
	lo := 0
	for lo < e.n {
		hi := lo + 1
		cl := e.c[e.partition[lo]]
		for hi < e.n && e.c[e.partition[hi]] == cl {
			hi++
		}
		e.refineSegment(lo, hi)
		lo = hi
	}
	e.resortPartition()
}

func (e *engine) refineSegment(lo, hi int) {
	if hi-lo <= 1 {
		return
	}
	seg := e.partition[lo:hi]
	var affectedMembers, rest []int
	hasAffected := false
	for _, s := range seg {
		if e.affected[s] {
			affectedMembers = append(affectedMembers, s)
			hasAffected = true
		} else {
			rest = append(rest, s)
		}
	}
	if !hasAffected {
		return
	}
	sort.SliceStable(affectedMembers, func(i, j int) bool {
		return cafterKey(e.cafter[affectedMembers[i]]) < cafterKey(e.cafter[affectedMembers[j]])
	})

	type block struct {
		key     string
		members []int
	}
	var blocks []block
	for _, s := range affectedMembers {
		key := cafterKey(e.cafter[s])
		if len(blocks) == 0 || blocks[len(blocks)-1].key != key {
			blocks = append(blocks, block{key: key})
		}
		blocks[len(blocks)-1].members = append(blocks[len(blocks)-1].members, s)
	}
	if len(blocks) <= 1 {
		// no split: all affected members share one signature, retain class id
		copy(seg, append(affectedMembers, rest...))
		return
	}
	winner := 0
	for i := range blocks {
		if len(blocks[i].members) > len(blocks[winner].members) {
			winner = i
		}
	}
	var out []int
	for i, b := range blocks {
		if i == winner {
			out = append(out, b.members...)
			continue
		}
		e.cmax++
		for _, s := range b.members {
			e.c[s] = e.cmax
			e.changed[s] = true
		}
		out = append(out, b.members...)
	}
	out = append(out, rest...)
	copy(seg, out)
}

func cafterKey(m map[int][]int) string {
	var evs []int
	for ev := range m {
		evs = append(evs, ev)
	}
	sort.Ints(evs)
	key := ""
	for _, ev := range evs {
		key += sep(ev, m[ev])
	}
	return key
}

func sep(ev int, classes []int) string {
	s := strconv.Itoa(ev) + ":"
	for _, c := range classes {
		s += strconv.Itoa(c) + ","
	}
	return s + ";"
}
