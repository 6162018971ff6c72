package tokenstream

import (
	"bytes"
	"testing"

	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

func TestAutomatonRoundTripsThroughTokenStream(t *testing.T) {
	ctx := symtab.NewContext()
	a := automaton.New(ctx)
	alpha, _ := ctx.Events.ResolveOrDefine("alpha")
	beta, _ := ctx.Events.ResolveOrDefine("beta")
	a.InsertEvent(alpha.Index)
	a.InsertEvent(beta.Index)
	a.InsertStateWithID(1, "q0")
	a.InsertStateWithID(2, "q1")
	a.SetInitial(1, true)
	a.SetMarked(2, true)
	a.AddTransition(1, alpha.Index, 2)
	a.AddTransition(2, beta.Index, 1)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	WriteAutomaton(w, ctx, a, "tiny")
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	ctx2 := symtab.NewContext()
	r := NewReader(&buf, "tiny.txt")
	got, name, err := ReadAutomaton(r, ctx2)
	if err != nil {
		t.Fatalf("ReadAutomaton: %v", err)
	}
	if name != "tiny" {
		t.Fatalf("name = %q, want %q", name, "tiny")
	}
	if len(got.States()) != 2 {
		t.Fatalf("states = %v, want 2", got.States())
	}
	if !got.State(1).Initial || !got.State(2).Marked {
		t.Fatalf("initial/marked flags lost: %+v %+v", got.State(1), got.State(2))
	}
	gotAlpha, ok := ctx2.Events.ResolveOrDefine("alpha")
	if !ok {
		t.Fatalf("alpha not resolved as already-defined")
	}
	if got.Successors(1, gotAlpha.Index)[0] != 2 {
		t.Fatalf("transition q0--alpha-->q1 not preserved")
	}
}

func TestPushdownRoundTripsThroughTokenStream(t *testing.T) {
	ctx := symtab.NewContext()
	push, _ := ctx.Events.ResolveOrDefine("push")
	bottom := ctx.StackSymbols.Lambda()
	a, _ := ctx.StackSymbols.ResolveOrDefine("a")

	pd := automaton.NewPushdown(ctx, bottom.Index)
	pd.InsertEvent(push.Index)
	pd.InsertStateWithID(1, "q0")
	pd.InsertStateWithID(2, "q1")
	pd.SetInitial(1, true)
	pd.SetMarked(2, true)
	pd.AddPDTransition(1, push.Index, 2, automaton.PopPush{
		Pop:  []symtab.Idx{bottom.Index},
		Push: []symtab.Idx{a.Index, bottom.Index},
	})
	pd.AddPDTransition(2, symtab.NoIdx, 1, automaton.PopPush{
		Pop:  []symtab.Idx{a.Index},
		Push: []symtab.Idx{a.Index},
	})

	var buf bytes.Buffer
	w := NewWriter(&buf)
	WritePushdown(w, ctx, pd, "pushy")
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	ctx2 := symtab.NewContext()
	r := NewReader(&buf, "pushy.txt")
	got, name, err := ReadPushdown(r, ctx2)
	if err != nil {
		t.Fatalf("ReadPushdown: %v", err)
	}
	if name != "pushy" {
		t.Fatalf("name = %q, want %q", name, "pushy")
	}
	trans := got.AllPDTransitions()
	if len(trans) != 2 {
		t.Fatalf("transitions = %d, want 2", len(trans))
	}
	foundLambda := false
	for _, tr := range trans {
		if tr.Event == symtab.NoIdx {
			foundLambda = true
			if len(tr.PopPush) != 1 || len(tr.PopPush[0].Pop) != 1 {
				t.Fatalf("lambda transition pop/push mangled: %+v", tr)
			}
		}
	}
	if !foundLambda {
		t.Fatalf("lambda transition not round-tripped")
	}
}

func TestPrePartitionRoundTripsThroughTokenStream(t *testing.T) {
	classes := [][]automaton.Idx{{1, 2}, {3}}
	var buf bytes.Buffer
	w := NewWriter(&buf)
	WritePrePartition(w, classes)
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	r := NewReader(&buf, "pre.txt")
	got, err := ReadPrePartition(r)
	if err != nil {
		t.Fatalf("ReadPrePartition: %v", err)
	}
	if len(got) != 2 || len(got[0]) != 2 || len(got[1]) != 1 {
		t.Fatalf("got = %v, want [[1 2] [3]]", got)
	}
}

func TestReaderReportsUnterminatedString(t *testing.T) {
	r := NewReader(bytes.NewBufferString(`"unterminated`), "broken.txt")
	if _, err := r.Next(); err == nil {
		t.Fatalf("expected an error for an unterminated string token")
	}
}
