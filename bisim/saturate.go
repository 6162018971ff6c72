package bisim

import (
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

// Saturate builds the alternative to direct cafter computation described
// in §4.5: instead of tracking cafter incrementally across τ*-neighbours,
// the transition relation itself is saturated so that plain strong
// bisimulation (treating τ as an ordinary event) on the saturated
// automaton coincides with delayed (or weak) bisimulation on a. a must be
// tau-loop-free.
//
// Grounded on original_source/plugins/priorities/src/pev_bisimct.h's
// AbstractBisimulation::Saturate/ExtendTransRel/InstallSelfloops.
func Saturate(a *automaton.Automaton, tau symtab.Idx, variant Variant) (*automaton.Automaton, error) {
	if err := checkTauLoopFree(a, tau); err != nil {
		return nil, err
	}
	sat := a.Copy()
	ExtendTransRel(sat, tau, variant)
	InstallSelfloops(sat, tau)
	return sat, nil
}

// ExtendTransRel saturates a's transition relation with two closure rules
// (_examples/original_source/plugins/priorities/src/pev_bisimct.cpp's
// ExtendTransRel, rFlag 1 for Delayed, 2 for Weak):
//
//   - prefix rule (both variants): s--τ-->u--ev-->t implies s--ev-->t, for
//     every event ev (τ included).
//   - suffix rule (Weak only): s--ev-->u--τ-->t, with ev non-silent,
//     implies s--ev-->t.
//
// Both rules iterate to a fixpoint since newly added edges can themselves
// feed either rule on a later pass.
func ExtendTransRel(a *automaton.Automaton, tau symtab.Idx, variant Variant) {
	for {
		added := false
		for _, t := range a.AllTransitions() {
			if t.Event == tau {
				for _, u := range a.Successors(t.To, tau) {
					if !hasTransition(a, t.From, tau, u) {
						a.AddTransition(t.From, tau, u)
						added = true
					}
				}
				for _, ev := range a.ActiveEvents(t.To) {
					for _, to := range a.Successors(t.To, ev) {
						if !hasTransition(a, t.From, ev, to) {
							a.AddTransition(t.From, ev, to)
							added = true
						}
					}
				}
			} else if variant == Weak {
				for _, u := range a.Successors(t.To, tau) {
					if !hasTransition(a, t.From, t.Event, u) {
						a.AddTransition(t.From, t.Event, u)
						added = true
					}
				}
			}
		}
		if !added {
			return
		}
	}
}

// InstallSelfloops adds a τ self-loop on every state, realizing
// reflexivity of τ* directly in the transition relation (§4.5). Saturate
// calls it for the delayed and the weak variant alike.
func InstallSelfloops(a *automaton.Automaton, tau symtab.Idx) {
	for _, s := range a.States() {
		if !hasTransition(a, s, tau, s) {
			a.AddTransition(s, tau, s)
		}
	}
}

func hasTransition(a *automaton.Automaton, from automaton.Idx, ev symtab.Idx, to automaton.Idx) bool {
	for _, t := range a.Successors(from, ev) {
		if t == to {
			return true
		}
	}
	return false
}
