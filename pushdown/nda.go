package pushdown

import (
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

// Nda applies the nondouble-acceptance transform of §4.8: every state is
// duplicated into an active and a passive copy, so that a marked state
// accepts exactly once per input string rather than repeatedly via a
// lambda self-loop. Read (visible) transitions go active->active and
// passive->active; lambda push/pop transitions go passive->passive,
// except that from an active, marked source they cross into the passive
// side (the single acceptance event) while from an active, unmarked
// source they stay active->active. Initial/marked flags carry to the
// active copy only.
func Nda(pd *automaton.Pushdown) *automaton.Pushdown {
	out := automaton.NewPushdown(pd.Ctx, pd.Bottom)
	active := map[automaton.Idx]automaton.Idx{}
	passive := map[automaton.Idx]automaton.Idx{}

	for _, s := range pd.States() {
		st := pd.State(s)
		a := out.NewState(st.Name + ".active")
		p := out.NewState(st.Name + ".passive")
		active[s] = a
		passive[s] = p
		out.SetInitial(a, st.Initial)
		out.State(a).Merge = automaton.Annotation(s, "nda-active")
		out.State(p).Merge = automaton.Annotation(s, "nda-passive")
	}
	for _, ev := range pd.Alphabet() {
		out.InsertEvent(ev)
	}

	lambda := symtab.NoIdx
	for _, t := range pd.AllPDTransitions() {
		fromSt := pd.State(t.From)
		if t.Event != lambda {
			// read: active->active and passive->active.
			out.AddPDTransition(active[t.From], t.Event, active[t.To], t.PopPush...)
			out.AddPDTransition(passive[t.From], t.Event, active[t.To], t.PopPush...)
			continue
		}
		// lambda push/pop: passive->passive always.
		out.AddPDTransition(passive[t.From], t.Event, passive[t.To], t.PopPush...)
		if fromSt.Marked {
			// active, marked source: cross to passive (the one
			// acceptance event for this run through the state).
			out.AddPDTransition(active[t.From], t.Event, passive[t.To], t.PopPush...)
		} else {
			out.AddPDTransition(active[t.From], t.Event, active[t.To], t.PopPush...)
		}
	}

	for _, s := range pd.MarkedStates() {
		out.SetMarked(active[s], true)
	}
	return out
}
