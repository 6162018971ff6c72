package pushdown

import (
	"github.com/FGDES/pdsynth/automaton"
)

// markLambdaControllable is the "lambda is locally controllable" step
// (§4.13e) and returns pd unchanged: a lambda move is the supervisor's
// own bookkeeping step, and Rnce never inspects lambda transitions at
// all (it only scans the plant's active alphabet, which by construction
// excludes lambda), so no lambda move can trigger Rnce's
// uncontrollable-event removal. No flag is set on any transition.
func markLambdaControllable(pd *automaton.Pushdown) *automaton.Pushdown {
	return pd
}

// PushdownConstructController runs the §4.13 supervisor synthesis loop:
// pre-combine plant and spec via Times and make the result nonblocking;
// then repeatedly take the product of plant and the current candidate,
// trim with lookahead, Split into heads/ears, trim/restrict to the
// accessible part, mark lambda moves controllable, and Rnce away ears
// that cannot survive an uncontrollable plant event. The loop halts
// once Rnce removes nothing, returning the last nonblocking candidate.
func PushdownConstructController(plant *automaton.Automaton, spec *automaton.Pushdown) *automaton.Pushdown {
	candidate := Times(plant, spec)
	candidate = PushdownBlockfree(candidate)
	if len(candidate.States()) == 0 {
		return candidate
	}

	for {
		product := Times(plant, candidate)
		trimmed := Trim(product, 1)
		split := Split(trimmed)
		split = Trim(split, 0)
		split = Accessible(split)
		split = markLambdaControllable(split)

		before := len(split.States())
		pruned := Rnce(split, trimmed, plant)
		after := len(pruned.States())

		if after == before {
			return candidate
		}
		candidate = PushdownBlockfree(pruned)
		if len(candidate.States()) == 0 {
			return candidate
		}
	}
}
