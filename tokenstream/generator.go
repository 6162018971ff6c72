package tokenstream

import (
	"github.com/FGDES/pdsynth"
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/symtab"
)

// WritePrePartition emits a pre-partition (§4.3) as nested <Class>
// sections of state-id integers.
func WritePrePartition(w *Writer, classes [][]automaton.Idx) {
	w.Begin("PrePartition")
	for _, cl := range classes {
		w.Begin("Class")
		for _, id := range cl {
			w.WriteInt(int64(id))
		}
		w.End("Class")
	}
	w.End("PrePartition")
}

// ReadPrePartition parses the format WritePrePartition produces.
func ReadPrePartition(r *Reader) ([][]automaton.Idx, error) {
	if err := expectBegin(r, "PrePartition"); err != nil {
		return nil, err
	}
	var classes [][]automaton.Idx
	for {
		tok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == End {
			break
		}
		if tok.Kind != Begin || tok.Label != "Class" {
			return nil, faudes.NewException(faudes.ErrTokenMismatch, "expected <Class>, got %+v", tok)
		}
		var cl []automaton.Idx
		for {
			next, err := r.Next()
			if err != nil {
				return nil, err
			}
			if next.Kind == End {
				break
			}
			if next.Kind != Int {
				return nil, faudes.NewException(faudes.ErrTokenMismatch, "expected state id in <Class>")
			}
			cl = append(cl, automaton.Idx(next.Int))
		}
		classes = append(classes, cl)
	}
	return classes, nil
}

// WriteAutomaton serialises a finite automaton as a <Generator> section:
// its event alphabet (with flags), its states (with an Initial/Marked
// flag word of our own, bit 0 initial / bit 1 marked), and its
// transitions as (from, event, to) identifier triples.
func WriteAutomaton(w *Writer, ctx *symtab.Context, a *automaton.Automaton, name string) {
	w.Begin("Generator")
	w.WriteString(name)

	w.Begin("Events")
	for _, ev := range a.Alphabet() {
		sym := ctx.Events.ByIndex(ev)
		w.WriteIdent(sym.Name)
		w.WriteFlags(sym.Flags)
	}
	w.End("Events")

	w.Begin("States")
	for _, s := range a.States() {
		st := a.State(s)
		w.WriteInt(int64(s))
		w.WriteIdent(st.Name)
		var f symtab.Flags
		if st.Initial {
			f |= 1
		}
		if st.Marked {
			f |= 2
		}
		w.WriteFlags(f)
	}
	w.End("States")

	w.Begin("Transitions")
	for _, t := range a.AllTransitions() {
		sym := ctx.Events.ByIndex(t.Event)
		w.WriteInt(int64(t.From))
		w.WriteIdent(sym.Name)
		w.WriteInt(int64(t.To))
	}
	w.End("Transitions")

	w.End("Generator")
}

// ReadAutomaton parses the format WriteAutomaton produces.
func ReadAutomaton(r *Reader, ctx *symtab.Context) (*automaton.Automaton, string, error) {
	if err := expectBegin(r, "Generator"); err != nil {
		return nil, "", err
	}
	name, err := expectString(r)
	if err != nil {
		return nil, "", err
	}

	a := automaton.New(ctx)

	if err := expectBegin(r, "Events"); err != nil {
		return nil, "", err
	}
	for {
		tok, err := r.Next()
		if err != nil {
			return nil, "", err
		}
		if tok.Kind == End {
			break
		}
		if tok.Kind != Ident {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected event identifier")
		}
		flagsTok, err := r.Next()
		if err != nil || flagsTok.Kind != Flags {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected <Flags/> after event name %q", tok.Text)
		}
		sym := defineOrReuseEvent(ctx, tok.Text, flagsTok.Flags)
		a.InsertEvent(sym.Index)
	}

	if err := expectBegin(r, "States"); err != nil {
		return nil, "", err
	}
	for {
		tok, err := r.Next()
		if err != nil {
			return nil, "", err
		}
		if tok.Kind == End {
			break
		}
		if tok.Kind != Int {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected state id")
		}
		id := automaton.Idx(tok.Int)
		nameTok, err := r.Next()
		if err != nil || nameTok.Kind != Ident {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected state name for id %d", id)
		}
		flagsTok, err := r.Next()
		if err != nil || flagsTok.Kind != Flags {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected <Flags/> for state %q", nameTok.Text)
		}
		a.InsertStateWithID(id, nameTok.Text)
		a.SetInitial(id, flagsTok.Flags&1 != 0)
		a.SetMarked(id, flagsTok.Flags&2 != 0)
	}

	if err := expectBegin(r, "Transitions"); err != nil {
		return nil, "", err
	}
	for {
		tok, err := r.Next()
		if err != nil {
			return nil, "", err
		}
		if tok.Kind == End {
			break
		}
		if tok.Kind != Int {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected transition source state id")
		}
		from := automaton.Idx(tok.Int)
		evTok, err := r.Next()
		if err != nil || evTok.Kind != Ident {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected transition event")
		}
		toTok, err := r.Next()
		if err != nil || toTok.Kind != Int {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected transition target state id")
		}
		sym, _ := ctx.Events.ResolveOrDefine(evTok.Text)
		a.AddTransition(from, sym.Index, automaton.Idx(toTok.Int))
	}

	if err := expectEnd(r, "Generator"); err != nil {
		return nil, "", err
	}
	return a, name, nil
}

// defineOrReuseEvent resolves an event already shared with an earlier
// read against the same ctx (e.g. a plant and a spec read for the same
// synthesis run), defining it fresh only the first time it is seen.
func defineOrReuseEvent(ctx *symtab.Context, name string, flags symtab.Flags) *symtab.Symbol {
	sym, existed := ctx.Events.ResolveOrDefine(name)
	if !existed {
		sym.Flags = flags
	}
	return sym
}

func expectBegin(r *Reader, label string) error {
	tok, err := r.Next()
	if err != nil {
		return err
	}
	if tok.Kind != Begin || tok.Label != label {
		return faudes.NewException(faudes.ErrTokenMismatch, "expected <%s>, got %+v", label, tok)
	}
	return nil
}

func expectEnd(r *Reader, label string) error {
	tok, err := r.Next()
	if err != nil {
		return err
	}
	if tok.Kind != End || tok.Label != label {
		return faudes.NewException(faudes.ErrTokenMismatch, "expected </%s>, got %+v", label, tok)
	}
	return nil
}

func expectString(r *Reader) (string, error) {
	tok, err := r.Next()
	if err != nil {
		return "", err
	}
	if tok.Kind != String {
		return "", faudes.NewException(faudes.ErrTokenMismatch, "expected a quoted string, got %+v", tok)
	}
	return tok.Text, nil
}

// lambdaIdent is the bare identifier used to denote a PDTransition's
// lambda event, since symtab.NoIdx has no entry in ctx.Events.
const lambdaIdent = "lambda"

// WritePushdown serialises a pushdown automaton the way WriteAutomaton
// serialises a finite one, plus a <StackSymbols> alphabet, a <Bottom>
// marker, and pop/push vectors nested under each transition.
func WritePushdown(w *Writer, ctx *symtab.Context, pd *automaton.Pushdown, name string) {
	w.Begin("Generator")
	w.WriteString(name)

	w.Begin("Events")
	for _, ev := range pd.Alphabet() {
		sym := ctx.Events.ByIndex(ev)
		w.WriteIdent(sym.Name)
		w.WriteFlags(sym.Flags)
	}
	w.End("Events")

	w.Begin("StackSymbols")
	seen := map[symtab.Idx]bool{}
	writeSym := func(ix symtab.Idx) {
		if seen[ix] {
			return
		}
		seen[ix] = true
		w.WriteIdent(ctx.StackSymbols.ByIndex(ix).Name)
	}
	writeSym(pd.Bottom)
	for _, t := range pd.AllPDTransitions() {
		for _, alt := range t.PopPush {
			for _, s := range alt.Pop {
				writeSym(s)
			}
			for _, s := range alt.Push {
				writeSym(s)
			}
		}
	}
	w.End("StackSymbols")

	w.Begin("Bottom")
	w.WriteIdent(ctx.StackSymbols.ByIndex(pd.Bottom).Name)
	w.End("Bottom")

	w.Begin("States")
	for _, s := range pd.States() {
		st := pd.State(s)
		w.WriteInt(int64(s))
		w.WriteIdent(st.Name)
		var f symtab.Flags
		if st.Initial {
			f |= 1
		}
		if st.Marked {
			f |= 2
		}
		w.WriteFlags(f)
	}
	w.End("States")

	w.Begin("PDTransitions")
	for _, t := range pd.AllPDTransitions() {
		w.Begin("T")
		w.WriteInt(int64(t.From))
		if t.Event == symtab.NoIdx {
			w.WriteIdent(lambdaIdent)
		} else {
			w.WriteIdent(ctx.Events.ByIndex(t.Event).Name)
		}
		w.WriteInt(int64(t.To))
		for _, alt := range t.PopPush {
			w.Begin("Alt")
			w.Begin("Pop")
			for _, s := range alt.Pop {
				w.WriteIdent(ctx.StackSymbols.ByIndex(s).Name)
			}
			w.End("Pop")
			w.Begin("Push")
			for _, s := range alt.Push {
				w.WriteIdent(ctx.StackSymbols.ByIndex(s).Name)
			}
			w.End("Push")
			w.End("Alt")
		}
		w.End("T")
	}
	w.End("PDTransitions")

	w.End("Generator")
}

// ReadPushdown parses the format WritePushdown produces.
func ReadPushdown(r *Reader, ctx *symtab.Context) (*automaton.Pushdown, string, error) {
	if err := expectBegin(r, "Generator"); err != nil {
		return nil, "", err
	}
	name, err := expectString(r)
	if err != nil {
		return nil, "", err
	}

	if err := expectBegin(r, "Events"); err != nil {
		return nil, "", err
	}
	for {
		tok, err := r.Next()
		if err != nil {
			return nil, "", err
		}
		if tok.Kind == End {
			break
		}
		if tok.Kind != Ident {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected event identifier")
		}
		flagsTok, err := r.Next()
		if err != nil || flagsTok.Kind != Flags {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected <Flags/> after event name %q", tok.Text)
		}
		defineOrReuseEvent(ctx, tok.Text, flagsTok.Flags)
	}

	if err := expectBegin(r, "StackSymbols"); err != nil {
		return nil, "", err
	}
	for {
		tok, err := r.Next()
		if err != nil {
			return nil, "", err
		}
		if tok.Kind == End {
			break
		}
		if tok.Kind != Ident {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected stack symbol identifier")
		}
		ctx.StackSymbols.ResolveOrDefine(tok.Text)
	}

	if err := expectBegin(r, "Bottom"); err != nil {
		return nil, "", err
	}
	bottomTok, err := r.Next()
	if err != nil || bottomTok.Kind != Ident {
		return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected bottom stack symbol")
	}
	bottom, _ := ctx.StackSymbols.ResolveOrDefine(bottomTok.Text)
	if err := expectEnd(r, "Bottom"); err != nil {
		return nil, "", err
	}

	pd := automaton.NewPushdown(ctx, bottom.Index)

	if err := expectBegin(r, "States"); err != nil {
		return nil, "", err
	}
	for {
		tok, err := r.Next()
		if err != nil {
			return nil, "", err
		}
		if tok.Kind == End {
			break
		}
		if tok.Kind != Int {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected state id")
		}
		id := automaton.Idx(tok.Int)
		nameTok, err := r.Next()
		if err != nil || nameTok.Kind != Ident {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected state name for id %d", id)
		}
		flagsTok, err := r.Next()
		if err != nil || flagsTok.Kind != Flags {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected <Flags/> for state %q", nameTok.Text)
		}
		pd.InsertStateWithID(id, nameTok.Text)
		pd.SetInitial(id, flagsTok.Flags&1 != 0)
		pd.SetMarked(id, flagsTok.Flags&2 != 0)
	}

	if err := expectBegin(r, "PDTransitions"); err != nil {
		return nil, "", err
	}
	for {
		tok, err := r.Next()
		if err != nil {
			return nil, "", err
		}
		if tok.Kind == End {
			break
		}
		if tok.Kind != Begin || tok.Label != "T" {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected <T>, got %+v", tok)
		}
		fromTok, err := r.Next()
		if err != nil || fromTok.Kind != Int {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected transition source state id")
		}
		evTok, err := r.Next()
		if err != nil || evTok.Kind != Ident {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected transition event")
		}
		toTok, err := r.Next()
		if err != nil || toTok.Kind != Int {
			return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected transition target state id")
		}
		ev := symtab.NoIdx
		if evTok.Text != lambdaIdent {
			sym, _ := ctx.Events.ResolveOrDefine(evTok.Text)
			ev = sym.Index
		}
		var alts []automaton.PopPush
		for {
			next, err := r.Next()
			if err != nil {
				return nil, "", err
			}
			if next.Kind == End && next.Label == "T" {
				break
			}
			if next.Kind != Begin || next.Label != "Alt" {
				return nil, "", faudes.NewException(faudes.ErrTokenMismatch, "expected <Alt>, got %+v", next)
			}
			pop, err := readSymbolList(r, ctx, "Pop")
			if err != nil {
				return nil, "", err
			}
			push, err := readSymbolList(r, ctx, "Push")
			if err != nil {
				return nil, "", err
			}
			if err := expectEnd(r, "Alt"); err != nil {
				return nil, "", err
			}
			alts = append(alts, automaton.PopPush{Pop: pop, Push: push})
		}
		pd.AddPDTransition(automaton.Idx(fromTok.Int), ev, automaton.Idx(toTok.Int), alts...)
	}

	if err := expectEnd(r, "Generator"); err != nil {
		return nil, "", err
	}
	return pd, name, nil
}

func readSymbolList(r *Reader, ctx *symtab.Context, label string) ([]symtab.Idx, error) {
	if err := expectBegin(r, label); err != nil {
		return nil, err
	}
	var out []symtab.Idx
	for {
		tok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == End {
			break
		}
		if tok.Kind != Ident {
			return nil, faudes.NewException(faudes.ErrTokenMismatch, "expected stack symbol identifier in <%s>", label)
		}
		sym, _ := ctx.StackSymbols.ResolveOrDefine(tok.Text)
		out = append(out, sym.Index)
	}
	return out, nil
}
