/*
Package faudes implements the two algorithmic cores of libFAUDES relevant
to discrete-event systems analysis and pushdown supervisor synthesis:

  - a change-tracking bisimulation engine (packages bisim, topo), computing
    strong, delayed and weak partitions of a finite automaton, and

  - a pushdown supervisor synthesis pipeline (packages grammar, lr1, parser,
    pushdown), reducing a deterministic pushdown specification to a simple
    DPDA, through a context-free grammar and an LR(1) parser, back to a
    minimally restrictive, nonblocking, controllable supervisor.

Shared data structures (automata, symbol tables, sparse matrices, iteratable
sets) live in their own packages (automaton, symtab, container/...) so that
both cores can be exercised independently, e.g. bisim reduction of a plant
before it is used as an input to pushdown.Times.

Building an Automaton

Automata are built incrementally by inserting events, states and
transitions into an automaton.Automaton (or automaton.Pushdown for the
pushdown variant); mutation happens in place, and a deep Copy is provided
for callers who need to branch.

Bisimulation

    ctx := symtab.NewContext()
    a := automaton.New(ctx)
    // ... populate states/events/transitions ...
    classes, err := bisim.StrongBisim(a, nil)

Pushdown Synthesis

    sup := pushdown.PushdownConstructController(plant, spec)

BSD License

Governed by a 3-Clause BSD license, in the tradition of the libraries this
module is grounded on (github.com/npillmayer/gorgo, github.com/npillmayer/schuko).
See the LICENSE file in the root of this module.
*/
package faudes

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to the global faudes tracer. Sub-packages select their own named
// tracer via tracing.Select, mirroring gorgo's per-package T()/tracer().
func T() tracing.Trace {
	return gtrace.SyntaxTracer
}
